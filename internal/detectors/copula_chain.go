package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var copulaRE = regexp.MustCompile(`(?i)\b(is|are|was|were)\b`)

// CopulaChainConfig tunes the "X is Y" sentence-pattern detector.
type CopulaChainConfig struct {
	MinSentences int     `json:"min_sentences"`
	Threshold    float64 `json:"threshold"`
	Penalty      int     `json:"penalty"`
}

func (c *CopulaChainConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *CopulaChainConfig) Validate() error {
	if c.MinSentences < 1 {
		return fmt.Errorf("min_sentences must be at least 1, got %d", c.MinSentences)
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %g", c.Threshold)
	}
	return nil
}

// CopulaChain flags passages where most sentences open on a copula.
type CopulaChain struct {
	cfg CopulaChainConfig
}

func NewCopulaChain(hp *config.Hyperparameters) *CopulaChain {
	return &CopulaChain{cfg: CopulaChainConfig{
		MinSentences: hp.CopulaChainMinSentences,
		Threshold:    hp.CopulaChainThreshold,
		Penalty:      hp.CopulaChainPenalty,
	}}
}

func (d *CopulaChain) Name() string         { return "copula_chain" }
func (d *CopulaChain) CountKey() string     { return "copula_chain" }
func (d *CopulaChain) Level() rules.Level   { return rules.LevelPassage }
func (d *CopulaChain) Config() rules.Config { return &d.cfg }

func copulaOpeners(sentences []string) int {
	count := 0
	for _, sentence := range sentences {
		fields := strings.Fields(sentence)
		if len(fields) > 6 {
			fields = fields[:6]
		}
		if copulaRE.MatchString(strings.Join(fields, " ")) {
			count++
		}
	}
	return count
}

func (d *CopulaChain) Forward(doc *analysis.Document) analysis.RuleResult {
	if len(doc.Sentences) < d.cfg.MinSentences {
		return analysis.RuleResult{}
	}
	count := copulaOpeners(doc.Sentences)
	density := float64(count) / float64(len(doc.Sentences))
	if density < d.cfg.Threshold {
		return analysis.RuleResult{}
	}

	percent := int(density * 100)
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "copula_density",
			Context: fmt.Sprintf("%d/%d sentences (%d%%) use a copula within the first 6 words",
				count, len(doc.Sentences), percent),
			Penalty: d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Copula density is %d%% - too many 'X is Y' sentences. Use active verbs or restructure to vary sentence patterns.", percent),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *CopulaChain) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	matches := func(group []string) int {
		n := 0
		for _, s := range group {
			doc := analysis.FromText(s)
			if len(doc.Sentences) < d.cfg.MinSentences {
				continue
			}
			density := float64(copulaOpeners(doc.Sentences)) / float64(len(doc.Sentences))
			if density >= d.cfg.Threshold {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		matches(pos), len(pos), matches(neg), len(neg))
	return nil
}

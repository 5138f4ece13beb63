package detectors

import (
	"fmt"
	"regexp"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var aphorismREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^sometimes\b`),
	regexp.MustCompile(`(?i)\bisn't\b.{1,40}\bit's\b`),
	regexp.MustCompile(`(?i)\bnot\b.{1,30}\bit's\b.{1,40}$`),
	regexp.MustCompile(`(?i)^the (real|true|actual|biggest|greatest|most important)\b`),
	regexp.MustCompile(`(?i)^(in the end|ultimately|at the end of the day)\b`),
	regexp.MustCompile(`(?i)\bwe (bring|carry|create|make|build|choose)\b`),
	regexp.MustCompile(`(?i)^that's (the |what |where |why |how )`),
	regexp.MustCompile(`(?i)^it (all )?(comes|boils) down to\b`),
}

// ClosingAphorismConfig tunes the tidy-ending detector.
type ClosingAphorismConfig struct {
	MinSentences int `json:"min_sentences"`
	Penalty      int `json:"penalty"`
}

func (c *ClosingAphorismConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ClosingAphorismConfig) Validate() error {
	if c.MinSentences < 1 {
		return fmt.Errorf("min_sentences must be at least 1, got %d", c.MinSentences)
	}
	return nil
}

// ClosingAphorism flags endings that wrap the piece in a tidy
// generalization.
type ClosingAphorism struct {
	cfg ClosingAphorismConfig
}

func NewClosingAphorism(hp *config.Hyperparameters) *ClosingAphorism {
	return &ClosingAphorism{cfg: ClosingAphorismConfig{
		MinSentences: hp.ClosingAphorismMinSents,
		Penalty:      hp.ClosingAphorismPenalty,
	}}
}

func (d *ClosingAphorism) Name() string         { return "closing_aphorism" }
func (d *ClosingAphorism) CountKey() string     { return "closing_aphorism" }
func (d *ClosingAphorism) Level() rules.Level   { return rules.LevelPassage }
func (d *ClosingAphorism) Config() rules.Config { return &d.cfg }

func aphorismMatches(sentence string) int {
	n := 0
	for _, re := range aphorismREs {
		if re.MatchString(sentence) {
			n++
		}
	}
	return n
}

func (d *ClosingAphorism) Forward(doc *analysis.Document) analysis.RuleResult {
	if len(doc.Sentences) < d.cfg.MinSentences {
		return analysis.RuleResult{}
	}
	last := doc.Sentences[len(doc.Sentences)-1]
	matched := aphorismMatches(last)
	if matched < 2 {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "closing_aphorism",
			Context:  fmt.Sprintf("Closing sentence matches %d generalizing patterns: %q", matched, sentencePreview(last)),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			"Your closing sentence is a tidy generalization - a strong AI tell. End on a specific detail, a fragment, or just stop.",
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *ClosingAphorism) Fit(samples []string, labels []int) error {
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
			if aphorismMatches(doc.Sentences[len(doc.Sentences)-1]) >= 2 {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		matches(pos), len(pos), matches(neg), len(neg))
	return nil
}

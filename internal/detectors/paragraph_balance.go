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

var paragraphSplitRE = regexp.MustCompile(`\n\s*\n`)

func paragraphWordCounts(text string) []int {
	var out []int
	for _, paragraph := range paragraphSplitRE.Split(text, -1) {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		out = append(out, len(strings.Fields(paragraph)))
	}
	return out
}

// ParagraphBalanceConfig tunes the uniform-paragraph detector.
type ParagraphBalanceConfig struct {
	MinBodyParagraphs int     `json:"min_body_paragraphs"`
	BalanceThreshold  float64 `json:"balance_threshold"`
	Penalty           int     `json:"penalty"`
}

func (c *ParagraphBalanceConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ParagraphBalanceConfig) Validate() error {
	if c.MinBodyParagraphs < 1 {
		return fmt.Errorf("min_body_paragraphs must be at least 1, got %d", c.MinBodyParagraphs)
	}
	if c.BalanceThreshold <= 0 || c.BalanceThreshold > 1 {
		return fmt.Errorf("balance_threshold must be in (0, 1], got %g", c.BalanceThreshold)
	}
	return nil
}

// ParagraphBalance flags body paragraphs of near-identical length.
// The opening paragraph is excluded since leads are legitimately short.
type ParagraphBalance struct {
	cfg ParagraphBalanceConfig
}

func NewParagraphBalance(hp *config.Hyperparameters) *ParagraphBalance {
	return &ParagraphBalance{cfg: ParagraphBalanceConfig{
		MinBodyParagraphs: hp.ParagraphBalanceMinBody,
		BalanceThreshold:  hp.ParagraphBalanceThreshold,
		Penalty:           hp.ParagraphBalancePenalty,
	}}
}

func (d *ParagraphBalance) Name() string         { return "paragraph_balance" }
func (d *ParagraphBalance) CountKey() string     { return "paragraph_balance" }
func (d *ParagraphBalance) Level() rules.Level   { return rules.LevelPassage }
func (d *ParagraphBalance) Config() rules.Config { return &d.cfg }

func (d *ParagraphBalance) balanceRatio(text string) (ratio float64, body []int, ok bool) {
	lengths := paragraphWordCounts(text)
	if len(lengths) < d.cfg.MinBodyParagraphs+1 {
		return 0, nil, false
	}
	body = lengths[1:]
	min, max := body[0], body[0]
	for _, v := range body[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 0, nil, false
	}
	return float64(min) / float64(max), body, true
}

func (d *ParagraphBalance) Forward(doc *analysis.Document) analysis.RuleResult {
	ratio, body, ok := d.balanceRatio(doc.Text)
	if !ok || ratio <= d.cfg.BalanceThreshold {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "paragraph_balance",
			Context: fmt.Sprintf("Body paragraph word counts %v - balance ratio %.2f (> %g)",
				body, ratio, d.cfg.BalanceThreshold),
			Penalty: d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Body paragraphs are suspiciously uniform in length (ratio %.2f). Vary paragraph sizes - some should be two sentences, some should sprawl.", ratio),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *ParagraphBalance) Fit(samples []string, labels []int) error {
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
			if ratio, _, ok := d.balanceRatio(s); ok && ratio > d.cfg.BalanceThreshold {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		matches(pos), len(pos), matches(neg), len(neg))
	return nil
}

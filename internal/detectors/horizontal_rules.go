package detectors

import (
	"fmt"
	"math"
	"regexp"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var horizontalRuleRE = regexp.MustCompile(`(?m)^\s*(?:---+|\*\*\*+|___+)\s*$`)

// HorizontalRulesConfig tunes the section-divider detector.
type HorizontalRulesConfig struct {
	MinCount int `json:"min_count"`
	Penalty  int `json:"penalty"`
}

func (c *HorizontalRulesConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *HorizontalRulesConfig) Validate() error {
	if c.MinCount < 1 {
		return fmt.Errorf("min_count must be at least 1, got %d", c.MinCount)
	}
	return nil
}

// HorizontalRules flags documents chopped up with --- dividers.
type HorizontalRules struct {
	cfg HorizontalRulesConfig
}

func NewHorizontalRules(hp *config.Hyperparameters) *HorizontalRules {
	return &HorizontalRules{cfg: HorizontalRulesConfig{
		MinCount: hp.HorizontalRuleMin,
		Penalty:  hp.HorizontalRulePenalty,
	}}
}

func (d *HorizontalRules) Name() string         { return "structural" }
func (d *HorizontalRules) CountKey() string     { return "horizontal_rules" }
func (d *HorizontalRules) Level() rules.Level   { return rules.LevelParagraph }
func (d *HorizontalRules) Config() rules.Config { return &d.cfg }

func (d *HorizontalRules) Forward(doc *analysis.Document) analysis.RuleResult {
	count := len(horizontalRuleRE.FindAllStringIndex(doc.Text, -1))
	if count < d.cfg.MinCount {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "horizontal_rules",
			Context:  fmt.Sprintf("%d horizontal rules — excessive section dividers", count),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("%d horizontal rules — section headers alone are sufficient, dividers are a crutch.", count),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *HorizontalRules) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	counts := func(group []string) []int {
		out := make([]int, len(group))
		for i, s := range group {
			out[i] = len(horizontalRuleRE.FindAllStringIndex(s, -1))
		}
		return out
	}
	posCounts, negCounts := counts(pos), counts(neg)

	minCount := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.MinCount),
		Positive:   floats(posCounts),
		Negative:   floats(negCounts),
		Lower:      1,
		Upper:      64,
		BlendPivot: 18,
	})
	d.cfg.MinCount = clampInt(int(math.Ceil(minCount)), 1, 64)

	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		countAtLeast(posCounts, d.cfg.MinCount), len(pos),
		countAtLeast(negCounts, d.cfg.MinCount), len(neg))
	return nil
}

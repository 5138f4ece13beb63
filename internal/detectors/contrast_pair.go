package detectors

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var contrastPairRE = regexp.MustCompile(`\b(\w+), not (\w+)\b`)

// ContrastPairConfig tunes the "X, not Y" detector.
type ContrastPairConfig struct {
	Penalty            int `json:"penalty"`
	RecordCap          int `json:"record_cap"`
	AdviceMin          int `json:"advice_min"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *ContrastPairConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ContrastPairConfig) Validate() error {
	if c.RecordCap < 1 {
		return fmt.Errorf("record_cap must be at least 1, got %d", c.RecordCap)
	}
	if c.AdviceMin < 1 {
		return fmt.Errorf("advice_min must be at least 1, got %d", c.AdviceMin)
	}
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// ContrastPair flags the "X, not Y" contrast construction.
type ContrastPair struct {
	cfg ContrastPairConfig
}

func NewContrastPair(hp *config.Hyperparameters) *ContrastPair {
	return &ContrastPair{cfg: ContrastPairConfig{
		Penalty:            hp.ContrastPenalty,
		RecordCap:          hp.ContrastRecordCap,
		AdviceMin:          hp.ContrastAdviceMin,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *ContrastPair) Name() string         { return "contrast_pair" }
func (d *ContrastPair) CountKey() string     { return "contrast_pairs" }
func (d *ContrastPair) Level() rules.Level   { return rules.LevelSentence }
func (d *ContrastPair) Config() rules.Config { return &d.cfg }

func (d *ContrastPair) Forward(doc *analysis.Document) analysis.RuleResult {
	matches := contrastPairRE.FindAllStringIndex(doc.Text, -1)
	if len(matches) == 0 {
		return analysis.RuleResult{}
	}

	var result analysis.RuleResult
	for _, m := range matches {
		if len(result.Violations) >= d.cfg.RecordCap {
			break
		}
		match := strings.ToLower(doc.Text[m[0]:m[1]])
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    match,
			Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("'%s' — 'X, not Y' contrast — consider rephrasing to avoid the Claude pattern.", match))
	}
	if len(matches) >= d.cfg.AdviceMin {
		result.Advice = append(result.Advice,
			fmt.Sprintf("%d 'X, not Y' contrasts — this is a Claude rhetorical tic. Vary your phrasing.", len(matches)))
	}
	result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	return result
}

func (d *ContrastPair) Fit(samples []string, labels []int) error {
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
			out[i] = len(contrastPairRE.FindAllStringIndex(s, -1))
		}
		return out
	}
	posCounts, negCounts := counts(pos), counts(neg)
	posNonzero := nonzero(posCounts)

	capDefault := d.cfg.RecordCap
	if len(posNonzero) > 0 {
		if p, err := fitkit.PercentileCeil(floats(posNonzero), 0.90); err == nil {
			capDefault = clampInt(p, 1, 64)
		}
	}
	d.cfg.RecordCap = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    capDefault,
		Lower:      1,
		Upper:      64,
		Positive:   floats(posNonzero),
		Negative:   floats(nonzero(negCounts)),
		BlendPivot: 20,
	})

	adviceDefault := float64(d.cfg.AdviceMin)
	if p, err := fitkit.PercentileCeil(floats(posCounts), 0.75); err == nil {
		adviceDefault = float64(clampInt(p, 1, 64))
	}
	adviceMin := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    adviceDefault,
		Positive:   floats(posCounts),
		Negative:   floats(negCounts),
		Lower:      1,
		Upper:      64,
		BlendPivot: 16,
	})
	d.cfg.AdviceMin = clampInt(int(math.Round(adviceMin)), 1, 64)

	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		countPositive(posCounts), len(pos), countPositive(negCounts), len(neg))
	return nil
}

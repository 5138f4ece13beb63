package detectors

import (
	"fmt"
	"regexp"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var emDashRE = regexp.MustCompile(`—| -- `)

// EmDashConfig tunes the em dash density detector.
type EmDashConfig struct {
	WordsBasis       float64 `json:"words_basis"`
	DensityThreshold float64 `json:"density_threshold"`
	Penalty          int     `json:"penalty"`
}

func (c *EmDashConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *EmDashConfig) Validate() error {
	if c.WordsBasis <= 0 {
		return fmt.Errorf("words_basis must be positive, got %g", c.WordsBasis)
	}
	if c.DensityThreshold < 0 {
		return fmt.Errorf("density_threshold must not be negative, got %g", c.DensityThreshold)
	}
	return nil
}

// EmDash flags prose leaning too hard on em dashes.
type EmDash struct {
	cfg EmDashConfig
}

func NewEmDash(hp *config.Hyperparameters) *EmDash {
	return &EmDash{cfg: EmDashConfig{
		WordsBasis:       hp.EmDashWordsBasis,
		DensityThreshold: hp.EmDashThreshold,
		Penalty:          hp.EmDashPenalty,
	}}
}

func (d *EmDash) Name() string         { return "em_dash" }
func (d *EmDash) CountKey() string     { return "em_dash" }
func (d *EmDash) Level() rules.Level   { return rules.LevelPassage }
func (d *EmDash) Config() rules.Config { return &d.cfg }

func (d *EmDash) ratio(count, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return float64(count) / float64(wordCount) * d.cfg.WordsBasis
}

func (d *EmDash) Forward(doc *analysis.Document) analysis.RuleResult {
	count := len(emDashRE.FindAllStringIndex(doc.Text, -1))
	ratio := d.ratio(count, doc.WordCount)
	if ratio <= d.cfg.DensityThreshold {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "em_dash_density",
			Context:  fmt.Sprintf("%d em dashes in %d words (%.1f per 150 words)", count, doc.WordCount, ratio),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Too many em dashes (%d in %d words) — use other punctuation.", count, doc.WordCount),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *EmDash) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	ratios := func(group []string) []float64 {
		out := make([]float64, len(group))
		for i, s := range group {
			count := len(emDashRE.FindAllStringIndex(s, -1))
			out[i] = d.ratio(count, analysis.WordCount(s))
		}
		return out
	}
	posRatios, negRatios := ratios(pos), ratios(neg)

	d.cfg.DensityThreshold = fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    d.cfg.DensityThreshold,
		Positive:   posRatios,
		Negative:   negRatios,
		Lower:      0,
		Upper:      100,
		BlendPivot: 18,
	})

	above := func(values []float64) int {
		n := 0
		for _, v := range values {
			if v > d.cfg.DensityThreshold {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		above(posRatios), len(pos), above(negRatios), len(neg))
	return nil
}

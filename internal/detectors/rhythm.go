package detectors

import (
	"fmt"
	"math"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// RhythmConfig tunes the sentence-length uniformity detector.
type RhythmConfig struct {
	MinSentences int     `json:"min_sentences"`
	CVThreshold  float64 `json:"cv_threshold"`
	Penalty      int     `json:"penalty"`
}

func (c *RhythmConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *RhythmConfig) Validate() error {
	if c.MinSentences < 2 {
		return fmt.Errorf("min_sentences must be at least 2, got %d", c.MinSentences)
	}
	if c.CVThreshold <= 0 {
		return fmt.Errorf("cv_threshold must be positive, got %g", c.CVThreshold)
	}
	return nil
}

// Rhythm flags prose whose sentence lengths barely vary.
type Rhythm struct {
	cfg RhythmConfig
}

func NewRhythm(hp *config.Hyperparameters) *Rhythm {
	return &Rhythm{cfg: RhythmConfig{
		MinSentences: hp.RhythmMinSentences,
		CVThreshold:  hp.RhythmCVThreshold,
		Penalty:      hp.RhythmPenalty,
	}}
}

func (d *Rhythm) Name() string         { return "rhythm" }
func (d *Rhythm) CountKey() string     { return "rhythm" }
func (d *Rhythm) Level() rules.Level   { return rules.LevelPassage }
func (d *Rhythm) Config() rules.Config { return &d.cfg }

func (d *Rhythm) Forward(doc *analysis.Document) analysis.RuleResult {
	if len(doc.Sentences) < d.cfg.MinSentences {
		return analysis.RuleResult{}
	}
	mean, std := meanStddev(doc.SentenceWordCounts)
	if mean <= 0 {
		return analysis.RuleResult{}
	}
	cv := std / mean
	if cv >= d.cfg.CVThreshold {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "monotonous_rhythm",
			Context:  fmt.Sprintf("CV=%.2f across %d sentences (mean %.1f words)", cv, len(doc.Sentences), mean),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Sentence lengths are too uniform (CV=%.2f) — vary short and long.", cv),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *Rhythm) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	observe := func(group []string) (counts, cvs []float64) {
		for _, s := range group {
			doc := analysis.FromText(s)
			counts = append(counts, float64(len(doc.Sentences)))
			if len(doc.Sentences) < 2 {
				continue
			}
			mean, std := meanStddev(doc.SentenceWordCounts)
			if mean > 0 {
				cvs = append(cvs, std/mean)
			}
		}
		return counts, cvs
	}
	posCounts, posCVs := observe(pos)
	negCounts, negCVs := observe(neg)

	minDefault := float64(d.cfg.MinSentences)
	if p, err := fitkit.PercentileFloor(posCounts, 0.25); err == nil {
		minDefault = float64(clampInt(p, 2, 200))
	}
	minSentences := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    minDefault,
		Positive:   posCounts,
		Negative:   negCounts,
		Lower:      2,
		Upper:      200,
		BlendPivot: 28,
	})
	d.cfg.MinSentences = clampInt(int(math.Ceil(minSentences)), 2, 200)

	if len(posCVs) == 0 {
		posCVs = []float64{d.cfg.CVThreshold}
	}
	d.cfg.CVThreshold = fitkit.FitThresholdLowContrastive(fitkit.ThresholdSpec{
		Default:    d.cfg.CVThreshold,
		Positive:   posCVs,
		Negative:   negCVs,
		Lower:      0.05,
		Upper:      2.0,
		BlendPivot: 20,
	})

	below := func(cvs []float64) int {
		n := 0
		for _, cv := range cvs {
			if cv < d.cfg.CVThreshold {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		below(posCVs), len(pos), below(negCVs), len(neg))
	return nil
}

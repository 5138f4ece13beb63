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

var pithyConjunctionRE = regexp.MustCompile(`(?i),\s+(?:but|yet|and|not|or)\b`)

// PithyFragmentConfig tunes the short-evaluative-fragment detector.
type PithyFragmentConfig struct {
	Penalty          int `json:"penalty"`
	MaxSentenceWords int `json:"max_sentence_words"`
	RecordCap        int `json:"record_cap"`
}

func (c *PithyFragmentConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *PithyFragmentConfig) Validate() error {
	if c.MaxSentenceWords < 1 {
		return fmt.Errorf("max_sentence_words must be at least 1, got %d", c.MaxSentenceWords)
	}
	if c.RecordCap < 1 {
		return fmt.Errorf("record_cap must be at least 1, got %d", c.RecordCap)
	}
	return nil
}

// PithyFragment flags very short sentences hinging on a comma plus
// conjunction: "Simple, but effective."
type PithyFragment struct {
	cfg PithyFragmentConfig
}

func NewPithyFragment(hp *config.Hyperparameters) *PithyFragment {
	return &PithyFragment{cfg: PithyFragmentConfig{
		Penalty:          hp.PithyPenalty,
		MaxSentenceWords: hp.PithyMaxSentenceWords,
		RecordCap:        hp.PithyRecordCap,
	}}
}

func (d *PithyFragment) Name() string         { return "pithy_fragment" }
func (d *PithyFragment) CountKey() string     { return "pithy_fragment" }
func (d *PithyFragment) Level() rules.Level   { return rules.LevelSentence }
func (d *PithyFragment) Config() rules.Config { return &d.cfg }

func (d *PithyFragment) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	total := 0
	for i, sentence := range doc.Sentences {
		if doc.SentenceWordCounts[i] > d.cfg.MaxSentenceWords {
			continue
		}
		if !pithyConjunctionRE.MatchString(sentence) {
			continue
		}
		total++
		if len(result.Violations) >= d.cfg.RecordCap {
			continue
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    sentence,
			Context:  sentence,
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("'%s' — pithy evaluative fragments are a Claude tell. Expand or cut.", sentence))
	}
	if total > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): total}
	}
	return result
}

func (d *PithyFragment) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	// Word lengths of conjunction-bearing sentences decide how short
	// "short" should be.
	hingeLengths := func(group []string) []float64 {
		var out []float64
		for _, s := range group {
			doc := analysis.FromText(s)
			for i, sentence := range doc.Sentences {
				if pithyConjunctionRE.MatchString(sentence) {
					out = append(out, float64(doc.SentenceWordCounts[i]))
				}
			}
		}
		return out
	}
	maxWords := fitkit.FitThresholdLowContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.MaxSentenceWords),
		Positive:   hingeLengths(pos),
		Negative:   hingeLengths(neg),
		Lower:      2,
		Upper:      64,
		BlendPivot: 16,
	})
	d.cfg.MaxSentenceWords = clampInt(int(math.Round(maxWords)), 2, 64)

	counts := func(group []string) []int {
		out := make([]int, len(group))
		for i, s := range group {
			doc := analysis.FromText(s)
			for j, sentence := range doc.Sentences {
				if doc.SentenceWordCounts[j] <= d.cfg.MaxSentenceWords &&
					pithyConjunctionRE.MatchString(sentence) {
					out[i]++
				}
			}
		}
		return out
	}
	posCounts, negCounts := counts(pos), counts(neg)
	d.cfg.RecordCap = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    d.cfg.RecordCap,
		Lower:      1,
		Upper:      64,
		Positive:   floats(nonzero(posCounts)),
		Negative:   floats(nonzero(negCounts)),
		BlendPivot: 20,
	})

	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		countPositive(posCounts), len(pos), countPositive(negCounts), len(neg))
	return nil
}

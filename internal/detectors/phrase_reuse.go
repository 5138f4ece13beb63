package detectors

import (
	"fmt"
	"math"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// PhraseReuseConfig tunes the repeated n-gram detector.
type PhraseReuseConfig struct {
	Penalty   int `json:"penalty"`
	RecordCap int `json:"record_cap"`
	MinN      int `json:"repeated_ngram_min_n"`
	MaxN      int `json:"repeated_ngram_max_n"`
	MinCount  int `json:"repeated_ngram_min_count"`
}

func (c *PhraseReuseConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *PhraseReuseConfig) Validate() error {
	if c.RecordCap < 1 {
		return fmt.Errorf("record_cap must be at least 1, got %d", c.RecordCap)
	}
	if c.MinN < 1 || c.MaxN < c.MinN {
		return fmt.Errorf("repeated n-gram bounds are inverted: min %d, max %d", c.MinN, c.MaxN)
	}
	if c.MinCount < 2 {
		return fmt.Errorf("repeated_ngram_min_count must be at least 2, got %d", c.MinCount)
	}
	return nil
}

// PhraseReuse flags multi-word phrases repeated across the document.
type PhraseReuse struct {
	cfg PhraseReuseConfig
}

func NewPhraseReuse(hp *config.Hyperparameters) *PhraseReuse {
	return &PhraseReuse{cfg: PhraseReuseConfig{
		Penalty:   hp.PhraseReusePenalty,
		RecordCap: hp.PhraseReuseRecordCap,
		MinN:      hp.RepeatedNgramMinN,
		MaxN:      hp.RepeatedNgramMaxN,
		MinCount:  hp.RepeatedNgramMinCount,
	}}
}

func (d *PhraseReuse) Name() string         { return "phrase_reuse" }
func (d *PhraseReuse) CountKey() string     { return "phrase_reuse" }
func (d *PhraseReuse) Level() rules.Level   { return rules.LevelPassage }
func (d *PhraseReuse) Config() rules.Config { return &d.cfg }

func (d *PhraseReuse) Forward(doc *analysis.Document) analysis.RuleResult {
	if len(doc.NgramTokens) < d.cfg.MinN {
		return analysis.RuleResult{}
	}
	// A repeated n-gram implies a repeated (n-1)-gram, so a cheap
	// prefix check can rule out the full search.
	if d.cfg.MinN > 1 &&
		!fitkit.HasRepeatedNgramPrefix(doc.NgramTokenIDs, doc.NgramTokenBase, d.cfg.MinN-1, d.cfg.MinCount) {
		return analysis.RuleResult{}
	}
	hits := fitkit.FindRepeatedNgrams(doc.NgramTokens, d.cfg.MinN, d.cfg.MaxN, d.cfg.MinCount)
	if len(hits) == 0 {
		return analysis.RuleResult{}
	}

	var result analysis.RuleResult
	for i, hit := range hits {
		if i >= d.cfg.RecordCap {
			break
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    hit.Phrase,
			Context:  fmt.Sprintf("'%s' (%d-word phrase) appears %d times", hit.Phrase, hit.N, hit.Count),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("'%s' appears %d times — vary your phrasing to avoid repetition.", hit.Phrase, hit.Count))
	}
	result.CountDeltas = map[string]int{d.CountKey(): len(hits)}
	return result
}

func (d *PhraseReuse) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	// Re-scan with loose bounds so the fit sees the full repetition
	// landscape, not just what the current config admits.
	type observations struct {
		hitCounts []int
		nValues   []float64
		repeats   []float64
	}
	observe := func(group []string) observations {
		var obs observations
		for _, s := range group {
			hits := fitkit.FindRepeatedNgrams(fitkit.NormalizeTokens(s), 2, 8, 2)
			obs.hitCounts = append(obs.hitCounts, len(hits))
			for _, hit := range hits {
				obs.nValues = append(obs.nValues, float64(hit.N))
				obs.repeats = append(obs.repeats, float64(hit.Count))
			}
		}
		return obs
	}
	posObs, negObs := observe(pos), observe(neg)
	if len(posObs.nValues) == 0 {
		return nil
	}

	minNDefault := float64(d.cfg.MinN)
	if p, err := fitkit.PercentileFloor(posObs.nValues, 0.20); err == nil {
		minNDefault = float64(clampInt(p, 2, 12))
	}
	minN := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    minNDefault,
		Positive:   posObs.nValues,
		Negative:   negObs.nValues,
		Lower:      2,
		Upper:      12,
		BlendPivot: 16,
	})
	d.cfg.MinN = clampInt(int(math.Round(minN)), 2, 12)

	maxNDefault := d.cfg.MaxN
	if p, err := fitkit.PercentileCeil(posObs.nValues, 0.90); err == nil {
		maxNDefault = clampInt(p, d.cfg.MinN, 16)
	}
	d.cfg.MaxN = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    maxNDefault,
		Lower:      d.cfg.MinN,
		Upper:      16,
		Positive:   posObs.nValues,
		Negative:   negObs.nValues,
		BlendPivot: 16,
	})

	minCountDefault := float64(d.cfg.MinCount)
	if p, err := fitkit.PercentileCeil(posObs.repeats, 0.75); err == nil {
		minCountDefault = float64(clampInt(p, 2, 32))
	}
	minCount := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    minCountDefault,
		Positive:   posObs.repeats,
		Negative:   negObs.repeats,
		Lower:      2,
		Upper:      32,
		BlendPivot: 12,
	})
	d.cfg.MinCount = clampInt(int(math.Round(minCount)), 2, 32)

	posNonzero := nonzero(posObs.hitCounts)
	capDefault := d.cfg.RecordCap
	if len(posNonzero) > 0 {
		if p, err := fitkit.PercentileCeil(floats(posNonzero), 0.90); err == nil {
			capDefault = clampInt(p, 1, 128)
		}
	}
	d.cfg.RecordCap = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    capDefault,
		Lower:      1,
		Upper:      128,
		Positive:   floats(posNonzero),
		Negative:   floats(nonzero(negObs.hitCounts)),
		BlendPivot: 20,
	})

	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		countPositive(posObs.hitCounts), len(pos),
		countPositive(negObs.hitCounts), len(neg))
	return nil
}

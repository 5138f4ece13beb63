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

var (
	boldHeaderRE = regexp.MustCompile(`\*\*[^*]+[.:]\*\*\s+\S`)
	triadicRE    = regexp.MustCompile(`(?i)\w+, \w+, and \w+`)
)

// StructuralConfig tunes the listicle-structure detector.
type StructuralConfig struct {
	BoldHeaderMin      int `json:"bold_header_min"`
	BoldHeaderPenalty  int `json:"bold_header_penalty"`
	BulletRunMin       int `json:"bullet_run_min"`
	BulletRunPenalty   int `json:"bullet_run_penalty"`
	TriadicRecordCap   int `json:"triadic_record_cap"`
	TriadicPenalty     int `json:"triadic_penalty"`
	TriadicAdviceMin   int `json:"triadic_advice_min"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *StructuralConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{
		{
			Name: "bold_header_penalty",
			Get:  func() int { return c.BoldHeaderPenalty },
			Set:  func(v int) { c.BoldHeaderPenalty = v },
		},
		{
			Name: "bullet_run_penalty",
			Get:  func() int { return c.BulletRunPenalty },
			Set:  func(v int) { c.BulletRunPenalty = v },
		},
		{
			Name: "triadic_penalty",
			Get:  func() int { return c.TriadicPenalty },
			Set:  func(v int) { c.TriadicPenalty = v },
		},
	}
}

func (c *StructuralConfig) Validate() error {
	if c.BoldHeaderMin < 1 {
		return fmt.Errorf("bold_header_min must be at least 1, got %d", c.BoldHeaderMin)
	}
	if c.BulletRunMin < 1 {
		return fmt.Errorf("bullet_run_min must be at least 1, got %d", c.BulletRunMin)
	}
	if c.TriadicRecordCap < 1 {
		return fmt.Errorf("triadic_record_cap must be at least 1, got %d", c.TriadicRecordCap)
	}
	if c.TriadicAdviceMin < 1 {
		return fmt.Errorf("triadic_advice_min must be at least 1, got %d", c.TriadicAdviceMin)
	}
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// Structural flags the machine-listicle shape: bold-header-explanation
// blocks, long bullet runs, and triadic list cadence.
type Structural struct {
	cfg StructuralConfig
}

func NewStructural(hp *config.Hyperparameters) *Structural {
	return &Structural{cfg: StructuralConfig{
		BoldHeaderMin:      hp.StructuralBoldHeaderMin,
		BoldHeaderPenalty:  hp.StructuralBoldPenalty,
		BulletRunMin:       hp.StructuralBulletRunMin,
		BulletRunPenalty:   hp.StructuralBulletPenalty,
		TriadicRecordCap:   hp.TriadicRecordCap,
		TriadicPenalty:     hp.TriadicPenalty,
		TriadicAdviceMin:   hp.TriadicAdviceMin,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *Structural) Name() string         { return "structural" }
func (d *Structural) CountKey() string     { return "structural" }
func (d *Structural) Level() rules.Level   { return rules.LevelParagraph }
func (d *Structural) Config() rules.Config { return &d.cfg }

func bulletRuns(lineIsBullet []bool) []int {
	var runs []int
	run := 0
	for _, isBullet := range lineIsBullet {
		if isBullet {
			run++
			continue
		}
		if run > 0 {
			runs = append(runs, run)
		}
		run = 0
	}
	if run > 0 {
		runs = append(runs, run)
	}
	return runs
}

func (d *Structural) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult

	boldCount := len(boldHeaderRE.FindAllStringIndex(doc.Text, -1))
	if boldCount >= d.cfg.BoldHeaderMin {
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "bold_header_explanation",
			Context:  fmt.Sprintf("Found %d instances of **Bold.** pattern", boldCount),
			Penalty:  d.cfg.BoldHeaderPenalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Vary paragraph structure — %d bold-header-explanation blocks in a row reads as LLM listicle.", boldCount))
	}

	for _, run := range bulletRuns(doc.LineIsBullet) {
		if run < d.cfg.BulletRunMin {
			continue
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "excessive_bullets",
			Context:  fmt.Sprintf("Run of %d consecutive bullet lines", run),
			Penalty:  d.cfg.BulletRunPenalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Consider prose instead of this %d-item bullet list.", run))
	}

	triadicMatches := triadicRE.FindAllStringIndex(doc.Text, -1)
	for i, m := range triadicMatches {
		if i >= d.cfg.TriadicRecordCap {
			break
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "triadic",
			Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
			Penalty:  d.cfg.TriadicPenalty,
		})
	}
	if len(triadicMatches) >= d.cfg.TriadicAdviceMin {
		result.Advice = append(result.Advice,
			fmt.Sprintf("%d triadic structures ('X, Y, and Z') — vary your list cadence.", len(triadicMatches)))
	}

	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *Structural) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	type observations struct {
		boldCounts    []int
		runLengths    []float64
		maxRuns       []int
		triadicCounts []int
	}
	observe := func(group []string) observations {
		var obs observations
		for _, s := range group {
			doc := analysis.FromText(s)
			obs.boldCounts = append(obs.boldCounts, len(boldHeaderRE.FindAllStringIndex(doc.Text, -1)))
			maxRun := 0
			for _, run := range bulletRuns(doc.LineIsBullet) {
				obs.runLengths = append(obs.runLengths, float64(run))
				if run > maxRun {
					maxRun = run
				}
			}
			obs.maxRuns = append(obs.maxRuns, maxRun)
			obs.triadicCounts = append(obs.triadicCounts, len(triadicRE.FindAllStringIndex(doc.Text, -1)))
		}
		return obs
	}
	posObs, negObs := observe(pos), observe(neg)

	boldMin := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.BoldHeaderMin),
		Positive:   floats(posObs.boldCounts),
		Negative:   floats(negObs.boldCounts),
		Lower:      1,
		Upper:      128,
		BlendPivot: 18,
	})
	d.cfg.BoldHeaderMin = clampInt(int(math.Ceil(boldMin)), 1, 128)

	runMin := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.BulletRunMin),
		Positive:   posObs.runLengths,
		Negative:   negObs.runLengths,
		Lower:      2,
		Upper:      128,
		BlendPivot: 18,
	})
	d.cfg.BulletRunMin = clampInt(int(math.Ceil(runMin)), 2, 128)

	d.cfg.TriadicRecordCap = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    d.cfg.TriadicRecordCap,
		Lower:      1,
		Upper:      128,
		Positive:   floats(nonzero(posObs.triadicCounts)),
		Negative:   floats(nonzero(negObs.triadicCounts)),
		BlendPivot: 18,
	})

	adviceMin := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.TriadicAdviceMin),
		Positive:   floats(posObs.triadicCounts),
		Negative:   floats(negObs.triadicCounts),
		Lower:      1,
		Upper:      128,
		BlendPivot: 18,
	})
	d.cfg.TriadicAdviceMin = clampInt(int(math.Ceil(adviceMin)), 1, 128)

	d.cfg.BoldHeaderPenalty = fitkit.FitPenaltyContrastive(d.cfg.BoldHeaderPenalty,
		countAtLeast(posObs.boldCounts, d.cfg.BoldHeaderMin), len(pos),
		countAtLeast(negObs.boldCounts, d.cfg.BoldHeaderMin), len(neg))
	d.cfg.BulletRunPenalty = fitkit.FitPenaltyContrastive(d.cfg.BulletRunPenalty,
		countAtLeast(posObs.maxRuns, d.cfg.BulletRunMin), len(pos),
		countAtLeast(negObs.maxRuns, d.cfg.BulletRunMin), len(neg))
	d.cfg.TriadicPenalty = fitkit.FitPenaltyContrastive(d.cfg.TriadicPenalty,
		countPositive(posObs.triadicCounts), len(pos),
		countPositive(negObs.triadicCounts), len(neg))
	return nil
}

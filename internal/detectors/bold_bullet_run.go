package detectors

import (
	"fmt"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// BoldBulletRunConfig tunes the bold-term bullet list detector.
type BoldBulletRunConfig struct {
	MinRunLength int `json:"min_run_length"`
	Penalty      int `json:"penalty"`
}

func (c *BoldBulletRunConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *BoldBulletRunConfig) Validate() error {
	if c.MinRunLength < 1 {
		return fmt.Errorf("min_run_length must be at least 1, got %d", c.MinRunLength)
	}
	return nil
}

// BoldBulletRun flags runs of "- **Term:** explanation" bullets.
type BoldBulletRun struct {
	cfg BoldBulletRunConfig
}

func NewBoldBulletRun(hp *config.Hyperparameters) *BoldBulletRun {
	return &BoldBulletRun{cfg: BoldBulletRunConfig{
		MinRunLength: hp.BoldBulletRunMin,
		Penalty:      hp.BoldBulletPenalty,
	}}
}

func (d *BoldBulletRun) Name() string         { return "structural" }
func (d *BoldBulletRun) CountKey() string     { return "bold_bullet_list" }
func (d *BoldBulletRun) Level() rules.Level   { return rules.LevelParagraph }
func (d *BoldBulletRun) Config() rules.Config { return &d.cfg }

func (d *BoldBulletRun) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	for _, run := range bulletRuns(doc.LineIsBoldTermBullet) {
		if run < d.cfg.MinRunLength {
			continue
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "bold_bullet_list",
			Context:  fmt.Sprintf("Run of %d bold-term bullets", run),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Run of %d bold-term bullets — this is an LLM listicle pattern. Use varied paragraph structure.", run))
	}
	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *BoldBulletRun) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, _ := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	var runs []float64
	matchedDocs := 0
	for _, s := range pos {
		doc := analysis.FromText(s)
		docRuns := bulletRuns(doc.LineIsBoldTermBullet)
		if len(docRuns) > 0 {
			matchedDocs++
		}
		for _, run := range docRuns {
			runs = append(runs, float64(run))
		}
	}
	if len(runs) > 0 {
		if p, err := fitkit.PercentileCeil(runs, 0.90); err == nil {
			d.cfg.MinRunLength = clampInt(p, 2, 64)
		}
	}
	d.cfg.Penalty = fitkit.FitPenalty(d.cfg.Penalty, matchedDocs, len(pos))
	return nil
}

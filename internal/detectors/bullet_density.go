package detectors

import (
	"fmt"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/rules"
)

// BulletDensityConfig tunes the bullets-per-line detector.
type BulletDensityConfig struct {
	RatioThreshold float64 `json:"ratio_threshold"`
	Penalty        int     `json:"penalty"`
}

func (c *BulletDensityConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *BulletDensityConfig) Validate() error {
	if c.RatioThreshold <= 0 || c.RatioThreshold > 1 {
		return fmt.Errorf("ratio_threshold must be in (0, 1], got %g", c.RatioThreshold)
	}
	return nil
}

// BulletDensity flags documents that are mostly bullet lines.
type BulletDensity struct {
	cfg BulletDensityConfig
}

func NewBulletDensity(hp *config.Hyperparameters) *BulletDensity {
	return &BulletDensity{cfg: BulletDensityConfig{
		RatioThreshold: hp.BulletDensityThreshold,
		Penalty:        hp.BulletDensityPenalty,
	}}
}

func (d *BulletDensity) Name() string         { return "structural" }
func (d *BulletDensity) CountKey() string     { return "bullet_density" }
func (d *BulletDensity) Level() rules.Level   { return rules.LevelParagraph }
func (d *BulletDensity) Config() rules.Config { return &d.cfg }

func (d *BulletDensity) Forward(doc *analysis.Document) analysis.RuleResult {
	bullets, nonEmpty := 0, 0
	for i, line := range doc.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonEmpty++
		if doc.LineIsBullet[i] {
			bullets++
		}
	}
	if nonEmpty == 0 {
		return analysis.RuleResult{}
	}
	ratio := float64(bullets) / float64(nonEmpty)
	if ratio <= d.cfg.RatioThreshold {
		return analysis.RuleResult{}
	}

	percent := int(ratio * 100)
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "bullet_density",
			Context:  fmt.Sprintf("%d of %d non-empty lines are bullets (%d%%)", bullets, nonEmpty, percent),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Over %d%% of lines are bullets — write prose instead of lists.", percent),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *BulletDensity) Fit(samples []string, labels []int) error {
	return rules.ValidateFitInputs(samples, labels)
}

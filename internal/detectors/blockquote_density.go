package detectors

import (
	"fmt"
	"math"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// BlockquoteDensityConfig tunes the pulled-quote detector.
type BlockquoteDensityConfig struct {
	MinLines    int `json:"min_lines"`
	FreeLines   int `json:"free_lines"`
	Cap         int `json:"cap"`
	PenaltyStep int `json:"penalty_step"`
}

func (c *BlockquoteDensityConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty_step",
		Get:  func() int { return c.PenaltyStep },
		Set:  func(v int) { c.PenaltyStep = v },
	}}
}

func (c *BlockquoteDensityConfig) Validate() error {
	if c.MinLines < 1 {
		return fmt.Errorf("min_lines must be at least 1, got %d", c.MinLines)
	}
	if c.FreeLines < 0 {
		return fmt.Errorf("free_lines must not be negative, got %d", c.FreeLines)
	}
	if c.Cap < 1 {
		return fmt.Errorf("cap must be at least 1, got %d", c.Cap)
	}
	return nil
}

// BlockquoteDensity flags overuse of blockquotes as thesis statements.
// The first FreeLines quotes are free; each one past that adds
// PenaltyStep, up to Cap steps.
type BlockquoteDensity struct {
	cfg BlockquoteDensityConfig
}

func NewBlockquoteDensity(hp *config.Hyperparameters) *BlockquoteDensity {
	return &BlockquoteDensity{cfg: BlockquoteDensityConfig{
		MinLines:    hp.BlockquoteMinLines,
		FreeLines:   hp.BlockquoteFreeLines,
		Cap:         hp.BlockquoteCap,
		PenaltyStep: hp.BlockquotePenaltyStep,
	}}
}

func (d *BlockquoteDensity) Name() string         { return "structural" }
func (d *BlockquoteDensity) CountKey() string     { return "blockquote_density" }
func (d *BlockquoteDensity) Level() rules.Level   { return rules.LevelParagraph }
func (d *BlockquoteDensity) Config() rules.Config { return &d.cfg }

// blockquoteLines counts quote lines outside fenced code blocks.
func blockquoteLines(doc *analysis.Document) int {
	count := 0
	inFence := false
	for i, line := range doc.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if doc.LineIsBlockquote[i] {
			count++
		}
	}
	return count
}

func (d *BlockquoteDensity) Forward(doc *analysis.Document) analysis.RuleResult {
	count := blockquoteLines(doc)
	if count < d.cfg.MinLines {
		return analysis.RuleResult{}
	}

	steps := count - d.cfg.FreeLines
	if steps > d.cfg.Cap {
		steps = d.cfg.Cap
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "blockquote_density",
			Context:  fmt.Sprintf("%d blockquote lines — Claude uses these as thesis statements", count),
			Penalty:  d.cfg.PenaltyStep * steps,
		}},
		Advice: []string{
			fmt.Sprintf("%d blockquotes — integrate key claims into prose instead of pulling them out as blockquotes.", count),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *BlockquoteDensity) Fit(samples []string, labels []int) error {
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
			out[i] = blockquoteLines(analysis.FromText(s))
		}
		return out
	}
	posCounts, negCounts := counts(pos), counts(neg)

	minLines := fitkit.FitThresholdHighContrastive(fitkit.ThresholdSpec{
		Default:    float64(d.cfg.MinLines),
		Positive:   floats(posCounts),
		Negative:   floats(negCounts),
		Lower:      1,
		Upper:      128,
		BlendPivot: 18,
	})
	d.cfg.MinLines = clampInt(int(minLines), 1, 128)

	if median, err := fitkit.PercentileFloor(floats(posCounts), 0.50); err == nil {
		free := fitkit.BlendTowardDefault(float64(d.cfg.FreeLines), float64(median), len(pos), 20)
		upper := d.cfg.MinLines - 1
		if upper < 0 {
			upper = 0
		}
		d.cfg.FreeLines = clampInt(int(math.Round(free)), 0, upper)
	}

	excess := func(values []int) []float64 {
		var out []float64
		for _, v := range values {
			if v > d.cfg.FreeLines {
				out = append(out, float64(v-d.cfg.FreeLines))
			}
		}
		return out
	}
	d.cfg.Cap = fitkit.FitCountCapContrastive(fitkit.CapSpec{
		Default:    d.cfg.Cap,
		Lower:      1,
		Upper:      128,
		Positive:   excess(posCounts),
		Negative:   excess(negCounts),
		BlendPivot: 18,
	})

	d.cfg.PenaltyStep = fitkit.FitPenaltyContrastive(d.cfg.PenaltyStep,
		countAtLeast(posCounts, d.cfg.MinLines), len(pos),
		countAtLeast(negCounts, d.cfg.MinLines), len(neg))
	return nil
}

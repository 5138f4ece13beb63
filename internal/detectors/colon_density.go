package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

var (
	elaborationColonRE = regexp.MustCompile(`: [a-z]`)
	headingLineRE      = regexp.MustCompile(`^\s*#`)
	dataColonRE        = regexp.MustCompile(`: ["{\[0-9]|: true|: false|: null`)
)

// ColonDensityConfig tunes the elaboration-colon detector.
type ColonDensityConfig struct {
	WordsBasis       float64 `json:"words_basis"`
	DensityThreshold float64 `json:"density_threshold"`
	Penalty          int     `json:"penalty"`
}

func (c *ColonDensityConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ColonDensityConfig) Validate() error {
	if c.WordsBasis <= 0 {
		return fmt.Errorf("words_basis must be positive, got %g", c.WordsBasis)
	}
	if c.DensityThreshold < 0 {
		return fmt.Errorf("density_threshold must not be negative, got %g", c.DensityThreshold)
	}
	return nil
}

// ColonDensity flags the "statement: elaboration" sentence pattern.
// Code blocks, headings, URLs, and data literals do not count.
type ColonDensity struct {
	cfg ColonDensityConfig
}

func NewColonDensity(hp *config.Hyperparameters) *ColonDensity {
	return &ColonDensity{cfg: ColonDensityConfig{
		WordsBasis:       hp.ColonWordsBasis,
		DensityThreshold: hp.ColonThreshold,
		Penalty:          hp.ColonPenalty,
	}}
}

func (d *ColonDensity) Name() string         { return "colon_density" }
func (d *ColonDensity) CountKey() string     { return "colon_density" }
func (d *ColonDensity) Level() rules.Level   { return rules.LevelPassage }
func (d *ColonDensity) Config() rules.Config { return &d.cfg }

func elaborationColons(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if headingLineRE.MatchString(line) {
			continue
		}
		for _, m := range elaborationColonRE.FindAllStringIndex(line, -1) {
			before := line[:m[0]+1]
			if strings.HasSuffix(before, "http:") || strings.HasSuffix(before, "https:") {
				continue
			}
			snippet := line[m[0]:]
			if len(snippet) > 10 {
				snippet = snippet[:10]
			}
			if dataColonRE.MatchString(snippet) {
				continue
			}
			count++
		}
	}
	return count
}

func (d *ColonDensity) ratio(count, wordCount int) float64 {
	if wordCount <= 0 {
		return 0
	}
	return float64(count) / float64(wordCount) * d.cfg.WordsBasis
}

func (d *ColonDensity) Forward(doc *analysis.Document) analysis.RuleResult {
	if doc.WordCountWithoutCodeBlocks <= 0 {
		return analysis.RuleResult{}
	}
	count := elaborationColons(doc.TextWithoutCodeBlocks)
	ratio := d.ratio(count, doc.WordCountWithoutCodeBlocks)
	if ratio <= d.cfg.DensityThreshold {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "colon_density",
			Context: fmt.Sprintf("%d elaboration colons in %d words (%.1f per 150 words)",
				count, doc.WordCountWithoutCodeBlocks, ratio),
			Penalty: d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Too many elaboration colons (%d in %d words) — use periods or restructure sentences.",
				count, doc.WordCountWithoutCodeBlocks),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *ColonDensity) Fit(samples []string, labels []int) error {
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
			doc := analysis.FromText(s)
			count := elaborationColons(doc.TextWithoutCodeBlocks)
			out[i] = d.ratio(count, doc.WordCountWithoutCodeBlocks)
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

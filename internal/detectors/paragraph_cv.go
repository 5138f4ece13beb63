package detectors

import (
	"fmt"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// ParagraphCVConfig tunes the paragraph-length variation detector.
type ParagraphCVConfig struct {
	MinParagraphs int     `json:"min_paragraphs"`
	CVThreshold   float64 `json:"cv_threshold"`
	Penalty       int     `json:"penalty"`
}

func (c *ParagraphCVConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ParagraphCVConfig) Validate() error {
	if c.MinParagraphs < 2 {
		return fmt.Errorf("min_paragraphs must be at least 2, got %d", c.MinParagraphs)
	}
	if c.CVThreshold <= 0 {
		return fmt.Errorf("cv_threshold must be positive, got %g", c.CVThreshold)
	}
	return nil
}

// ParagraphCV flags documents whose paragraph lengths barely vary.
type ParagraphCV struct {
	cfg ParagraphCVConfig
}

func NewParagraphCV(hp *config.Hyperparameters) *ParagraphCV {
	return &ParagraphCV{cfg: ParagraphCVConfig{
		MinParagraphs: hp.ParagraphCVMinParagraphs,
		CVThreshold:   hp.ParagraphCVThreshold,
		Penalty:       hp.ParagraphCVPenalty,
	}}
}

func (d *ParagraphCV) Name() string         { return "paragraph_cv" }
func (d *ParagraphCV) CountKey() string     { return "paragraph_cv" }
func (d *ParagraphCV) Level() rules.Level   { return rules.LevelPassage }
func (d *ParagraphCV) Config() rules.Config { return &d.cfg }

func (d *ParagraphCV) cv(text string) (cv float64, lengths []int, ok bool) {
	lengths = paragraphWordCounts(text)
	if len(lengths) < d.cfg.MinParagraphs {
		return 0, nil, false
	}
	mean, std := meanStddev(lengths)
	if mean <= 0 {
		return 0, nil, false
	}
	return std / mean, lengths, true
}

func (d *ParagraphCV) Forward(doc *analysis.Document) analysis.RuleResult {
	cv, lengths, ok := d.cv(doc.Text)
	if !ok || cv >= d.cfg.CVThreshold {
		return analysis.RuleResult{}
	}
	return analysis.RuleResult{
		Violations: []analysis.Violation{{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "paragraph_cv",
			Context:  fmt.Sprintf("Paragraph length CV=%.2f (< %.2f) across lengths %v", cv, d.cfg.CVThreshold, lengths),
			Penalty:  d.cfg.Penalty,
		}},
		Advice: []string{
			fmt.Sprintf("Paragraph lengths are too uniform (CV=%.2f). Mix short punchy paragraphs with longer developed ones.", cv),
		},
		CountDeltas: map[string]int{d.CountKey(): 1},
	}
}

func (d *ParagraphCV) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	matches := func(group []string) int {
		n := 0
		for _, s := range group {
			if cv, _, ok := d.cv(s); ok && cv < d.cfg.CVThreshold {
				n++
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		matches(pos), len(pos), matches(neg), len(neg))
	return nil
}

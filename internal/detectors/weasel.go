package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/rules"
)

var weaselPhrases = []string{
	"some critics argue",
	"many believe",
	"experts suggest",
	"studies show",
	"some argue",
	"it is widely believed",
	"research suggests",
}

var weaselRE = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(weaselPhrases), "|") + `)\b`)

// WeaselConfig tunes the unattributed-authority detector.
type WeaselConfig struct {
	Penalty            int `json:"penalty"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *WeaselConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *WeaselConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// Weasel flags claims attributed to nobody in particular.
type Weasel struct {
	cfg WeaselConfig
}

func NewWeasel(hp *config.Hyperparameters) *Weasel {
	return &Weasel{cfg: WeaselConfig{
		Penalty:            hp.WeaselPenalty,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *Weasel) Name() string         { return "weasel" }
func (d *Weasel) CountKey() string     { return "weasel" }
func (d *Weasel) Level() rules.Level   { return rules.LevelSentence }
func (d *Weasel) Config() rules.Config { return &d.cfg }

func (d *Weasel) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	for _, m := range weaselRE.FindAllStringIndex(doc.Text, -1) {
		phrase := strings.ToLower(doc.Text[m[0]:m[1]])
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    phrase,
			Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Cut '%s' — either cite a source or own the claim.", phrase))
	}
	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *Weasel) Fit(samples []string, labels []int) error {
	return rules.ValidateFitInputs(samples, labels)
}

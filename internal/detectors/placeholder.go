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

var placeholderRE = regexp.MustCompile(`(?i)\[insert [^\]]*\]|\[describe [^\]]*\]|\[url [^\]]*\]|\[your [^\]]*\]|\[todo[^\]]*\]`)

// PlaceholderConfig tunes the template-leftover detector.
type PlaceholderConfig struct {
	Penalty            int `json:"penalty"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *PlaceholderConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *PlaceholderConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// Placeholder flags bracketed template text left in the draft.
type Placeholder struct {
	cfg PlaceholderConfig
}

func NewPlaceholder(hp *config.Hyperparameters) *Placeholder {
	return &Placeholder{cfg: PlaceholderConfig{
		Penalty:            hp.PlaceholderPenalty,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *Placeholder) Name() string         { return "placeholder" }
func (d *Placeholder) CountKey() string     { return "placeholder" }
func (d *Placeholder) Level() rules.Level   { return rules.LevelSentence }
func (d *Placeholder) Config() rules.Config { return &d.cfg }

func (d *Placeholder) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	for _, m := range placeholderRE.FindAllStringIndex(doc.Text, -1) {
		match := strings.ToLower(doc.Text[m[0]:m[1]])
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    match,
			Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Remove placeholder '%s' — this is unfinished template text.", match))
	}
	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *Placeholder) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, _ := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	matched := 0
	for _, s := range pos {
		if placeholderRE.MatchString(s) {
			matched++
		}
	}
	d.cfg.Penalty = fitkit.FitPenalty(d.cfg.Penalty, matched, len(pos))
	return nil
}

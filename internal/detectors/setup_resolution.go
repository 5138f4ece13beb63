package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/rules"
)

// Negated subject, then a short gap, then the "real" answer.
var setupResolutionREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(this|that|these|those|it|they|we)\s+` +
		`(isn't|aren't|wasn't|weren't|doesn't|don't|didn't|hasn't|haven't|won't|can't|couldn't|shouldn't|` +
		`is\s+not|are\s+not|was\s+not|were\s+not|does\s+not|do\s+not|did\s+not|has\s+not|have\s+not|` +
		`will\s+not|cannot|could\s+not|should\s+not)\b` +
		`.{0,80}[.;:,]\s*` +
		`(it's|they're|that's|he's|she's|we're|it\s+is|they\s+are|that\s+is|this\s+is|these\s+are|those\s+are|` +
		`he\s+is|she\s+is|we\s+are|what's|what\s+is|the\s+real|the\s+actual|instead|rather)`),
	regexp.MustCompile(`(?i)\b(it's|that's|this\s+is|they're|he's|she's|we're)\s+not\b` +
		`.{0,80}[.;:,]\s*` +
		`(it's|they're|that's|we're|it\s+is|they\s+are|that\s+is|this\s+is|these\s+are|those\s+are|` +
		`we\s+are|what's|what\s+is|the\s+real|the\s+actual|instead|rather)`),
}

// SetupResolutionConfig tunes the setup-and-resolution detector.
type SetupResolutionConfig struct {
	Penalty            int `json:"penalty"`
	RecordCap          int `json:"record_cap"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *SetupResolutionConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *SetupResolutionConfig) Validate() error {
	if c.RecordCap < 1 {
		return fmt.Errorf("record_cap must be at least 1, got %d", c.RecordCap)
	}
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// SetupResolution flags the negate-then-reveal construction:
// "This isn't X. It's Y."
type SetupResolution struct {
	cfg SetupResolutionConfig
}

func NewSetupResolution(hp *config.Hyperparameters) *SetupResolution {
	return &SetupResolution{cfg: SetupResolutionConfig{
		Penalty:            hp.SetupResolutionPenalty,
		RecordCap:          hp.SetupResolutionCap,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *SetupResolution) Name() string         { return "setup_resolution" }
func (d *SetupResolution) CountKey() string     { return "setup_resolution" }
func (d *SetupResolution) Level() rules.Level   { return rules.LevelSentence }
func (d *SetupResolution) Config() rules.Config { return &d.cfg }

func (d *SetupResolution) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	total := 0
	for _, re := range setupResolutionREs {
		for _, m := range re.FindAllStringIndex(doc.Text, -1) {
			total++
			if len(result.Violations) >= d.cfg.RecordCap {
				continue
			}
			match := strings.ToLower(doc.Text[m[0]:m[1]])
			result.Violations = append(result.Violations, analysis.Violation{
				Rule:     d.Name(),
				Category: d.CountKey(),
				Match:    match,
				Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
				Penalty:  d.cfg.Penalty,
			})
			result.Advice = append(result.Advice,
				fmt.Sprintf("'%s' — setup-and-resolution is a Claude rhetorical tic. Just state the point directly.", match))
		}
	}
	if total > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): total}
	}
	return result
}

func (d *SetupResolution) Fit(samples []string, labels []int) error {
	return rules.ValidateFitInputs(samples, labels)
}

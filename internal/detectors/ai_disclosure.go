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

var aiDisclosurePhrases = []string{
	"as an ai",
	"as a language model",
	"i don't have personal",
	"i cannot browse",
	"up to my last training",
}

var (
	aiDisclosureRE = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(aiDisclosurePhrases), "|") + `)\b`)
	cutoffRE       = regexp.MustCompile(`(?i)\bas of my (last |knowledge )?cutoff\b`)
	justAnAIRE     = regexp.MustCompile(`(?i)\bi'm just an? ai\b`)
)

// AIDisclosureConfig tunes the self-disclosure detector.
type AIDisclosureConfig struct {
	Penalty            int `json:"penalty"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *AIDisclosureConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *AIDisclosureConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// AIDisclosure flags text where the writer identifies as a model.
type AIDisclosure struct {
	cfg AIDisclosureConfig
}

func NewAIDisclosure(hp *config.Hyperparameters) *AIDisclosure {
	return &AIDisclosure{cfg: AIDisclosureConfig{
		Penalty:            hp.AIDisclosurePenalty,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *AIDisclosure) Name() string         { return "ai_disclosure" }
func (d *AIDisclosure) CountKey() string     { return "ai_disclosure" }
func (d *AIDisclosure) Level() rules.Level   { return rules.LevelSentence }
func (d *AIDisclosure) Config() rules.Config { return &d.cfg }

func (d *AIDisclosure) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	record := func(start, end int) {
		phrase := strings.ToLower(doc.Text[start:end])
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    phrase,
			Context:  analysis.ContextAround(doc.Text, start, end, d.cfg.ContextWindowChars),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Remove '%s' — AI self-disclosure in authored prose is a critical tell.", phrase))
	}

	for _, re := range []*regexp.Regexp{aiDisclosureRE, cutoffRE, justAnAIRE} {
		for _, m := range re.FindAllStringIndex(doc.Text, -1) {
			record(m[0], m[1])
		}
	}

	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *AIDisclosure) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	matches := func(s string) bool {
		return aiDisclosureRE.MatchString(s) || cutoffRE.MatchString(s) || justAnAIRE.MatchString(s)
	}
	posMatches, negMatches := 0, 0
	for _, s := range pos {
		if matches(s) {
			posMatches++
		}
	}
	for _, s := range neg {
		if matches(s) {
			negMatches++
		}
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty, posMatches, len(pos), negMatches, len(neg))
	return nil
}

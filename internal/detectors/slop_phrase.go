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

var slopPhrases = []string{
	"it's worth noting",
	"it's important to note",
	"this is where things get interesting",
	"here's the thing",
	"at the end of the day",
	"in today's fast-paced",
	"as technology continues to",
	"something shifted",
	"everything changed",
	"the answer? it's simpler than you think",
	"what makes this work is",
	"this is exactly",
	"let's break this down",
	"let's dive in",
	"in this post, we'll explore",
	"in this article, we'll",
	"let me know if",
	"would you like me to",
	"i hope this helps",
	"as mentioned earlier",
	"as i mentioned",
	"without further ado",
	"on the other hand",
	"in addition",
	"in summary",
	"in conclusion",
	"you might be wondering",
	"the obvious question is",
	"no discussion would be complete",
	"great question",
	"that's a great",
	"if you want, i can",
	"i can adapt this",
	"i can make this",
	"here are some options",
	"here are a few options",
	"would you prefer",
	"shall i",
	"if you'd like, i can",
	"i can also",
	"in other words",
	"put differently",
	"that is to say",
	"to put it simply",
	"to put it another way",
	"what this means is",
	"the takeaway is",
	"the bottom line is",
	"the key takeaway",
	"the key insight",
}

var (
	slopPhraseRE = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(slopPhrases), "|") + `)\b`)
	notJustButRE = regexp.MustCompile(`(?i)not (just|only) .{1,40}, but (also )?`)
)

// SlopPhraseConfig tunes the slop phrase detector.
type SlopPhraseConfig struct {
	Penalty            int `json:"penalty"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *SlopPhraseConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *SlopPhraseConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// SlopPhrase flags stock filler phrases and the "not just X, but Y"
// construction.
type SlopPhrase struct {
	cfg SlopPhraseConfig
}

func NewSlopPhrase(hp *config.Hyperparameters) *SlopPhrase {
	return &SlopPhrase{cfg: SlopPhraseConfig{
		Penalty:            hp.SlopPhrasePenalty,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *SlopPhrase) Name() string         { return "slop_phrase" }
func (d *SlopPhrase) CountKey() string     { return "slop_phrases" }
func (d *SlopPhrase) Level() rules.Level   { return rules.LevelSentence }
func (d *SlopPhrase) Config() rules.Config { return &d.cfg }

func (d *SlopPhrase) Forward(doc *analysis.Document) analysis.RuleResult {
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
			fmt.Sprintf("Cut '%s' — just state the point directly.", phrase))
	}

	for _, m := range slopPhraseRE.FindAllStringIndex(doc.Text, -1) {
		record(m[0], m[1])
	}

	// "not just X, but Y" needs all three ingredients before the
	// wildcard regex is worth running.
	_, hasNot := doc.WordTokenSet["not"]
	_, hasBut := doc.WordTokenSet["but"]
	if hasNot && hasBut && strings.Contains(doc.Text, ",") {
		for _, m := range notJustButRE.FindAllStringIndex(doc.Text, -1) {
			record(m[0], m[1])
		}
	}

	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *SlopPhrase) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	matches := func(s string) bool {
		return slopPhraseRE.MatchString(s) || notJustButRE.MatchString(s)
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

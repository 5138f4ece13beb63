package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/rules"
)

var (
	metaCommPhrases = []string{
		"would you like",
		"let me know if",
		"as mentioned",
		"i hope this",
		"feel free to",
		"don't hesitate to",
	}
	falseNarrativityPhrases = []string{
		"then something interesting happened",
		"this is where things get interesting",
		"that's when everything changed",
	}

	metaCommRE         = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(metaCommPhrases), "|") + `)\b`)
	falseNarrativityRE = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(falseNarrativityPhrases), "|") + `)\b`)
	sentenceOpenerREs  = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:^|[.!?]\s+)(certainly[,! ])`),
		regexp.MustCompile(`(?im)(?:^|[.!?]\s+)(absolutely[,! ])`),
	}
)

// ToneConfig tunes the conversational-tone detector.
type ToneConfig struct {
	TonePenalty           int `json:"tone_penalty"`
	SentenceOpenerPenalty int `json:"sentence_opener_penalty"`
	ContextWindowChars    int `json:"context_window_chars"`
}

func (c *ToneConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{
		{
			Name: "tone_penalty",
			Get:  func() int { return c.TonePenalty },
			Set:  func(v int) { c.TonePenalty = v },
		},
		{
			Name: "sentence_opener_penalty",
			Get:  func() int { return c.SentenceOpenerPenalty },
			Set:  func(v int) { c.SentenceOpenerPenalty = v },
		},
	}
}

func (c *ToneConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// Tone flags assistant-register phrasing: meta communication with the
// reader, announced narrative turns, and agreeable sentence openers.
type Tone struct {
	cfg ToneConfig
}

func NewTone(hp *config.Hyperparameters) *Tone {
	return &Tone{cfg: ToneConfig{
		TonePenalty:           hp.TonePenalty,
		SentenceOpenerPenalty: hp.SentenceOpenerPenalty,
		ContextWindowChars:    hp.ContextWindowChars,
	}}
}

func (d *Tone) Name() string         { return "tone" }
func (d *Tone) CountKey() string     { return "tone" }
func (d *Tone) Level() rules.Level   { return rules.LevelSentence }
func (d *Tone) Config() rules.Config { return &d.cfg }

func (d *Tone) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	record := func(start, end int, match string, penalty int, advice string) {
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    match,
			Context:  analysis.ContextAround(doc.Text, start, end, d.cfg.ContextWindowChars),
			Penalty:  penalty,
		})
		result.Advice = append(result.Advice, advice)
	}

	for _, m := range metaCommRE.FindAllStringIndex(doc.Text, -1) {
		phrase := strings.ToLower(doc.Text[m[0]:m[1]])
		record(m[0], m[1], phrase, d.cfg.TonePenalty,
			fmt.Sprintf("Remove '%s' — this is a direct AI tell.", phrase))
	}
	for _, m := range falseNarrativityRE.FindAllStringIndex(doc.Text, -1) {
		phrase := strings.ToLower(doc.Text[m[0]:m[1]])
		record(m[0], m[1], phrase, d.cfg.TonePenalty,
			fmt.Sprintf("Cut '%s' — announce less, show more.", phrase))
	}
	for _, re := range sentenceOpenerREs {
		for _, m := range re.FindAllStringSubmatchIndex(doc.Text, -1) {
			opener := strings.ToLower(strings.Trim(doc.Text[m[2]:m[3]], " ,!"))
			record(m[2], m[3], opener, d.cfg.SentenceOpenerPenalty,
				fmt.Sprintf("'%s' as a sentence opener is an AI tell — just make the point.", opener))
		}
	}

	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

// Fit validates its inputs only. Tone penalties stay fixed because the
// phrases are categorical tells, not frequency signals.
func (d *Tone) Fit(samples []string, labels []int) error {
	return rules.ValidateFitInputs(samples, labels)
}

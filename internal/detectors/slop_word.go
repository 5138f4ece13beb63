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

var slopWords = []string{
	// adjectives
	"crucial", "groundbreaking", "pivotal", "paramount", "seamless",
	"holistic", "multifaceted", "meticulous", "profound", "comprehensive",
	"invaluable", "notable", "noteworthy", "game-changing", "revolutionary",
	"pioneering", "visionary", "formidable", "quintessential", "unparalleled",
	"stunning", "breathtaking", "captivating", "nestled", "robust",
	"innovative", "cutting-edge", "impactful", "foundational", "actionable",
	"collaborative", "societal", "impeccable", "stylistic",
	// verbs
	"delve", "delves", "delved", "delving", "embark", "embrace", "elevate",
	"foster", "harness", "unleash", "unlock", "orchestrate", "streamline",
	"transcend", "navigate", "underscore", "showcase", "leverage",
	"ensuring", "highlighting", "emphasizing", "reflecting", "reshape",
	// nouns
	"landscape", "tapestry", "journey", "paradigm", "testament",
	"trajectory", "nexus", "symphony", "spectrum", "odyssey", "pinnacle",
	"realm", "intricacies", "ecosystem", "authenticity", "narrative",
	"perseverance",
	// hedges
	"notably", "importantly", "furthermore", "additionally", "particularly",
	"significantly", "interestingly", "remarkably", "surprisingly",
	"fascinatingly", "moreover", "however", "overall", "subtly",
}

var (
	slopWordRE        = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(slopWords), "|") + `)\b`)
	plainSlopWords    = plainWords(slopWords)
	hyphenedSlopWords = hyphenWords(slopWords)
)

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

func plainWords(words []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range words {
		if !strings.Contains(w, "-") {
			out[w] = struct{}{}
		}
	}
	return out
}

func hyphenWords(words []string) []string {
	var out []string
	for _, w := range words {
		if strings.Contains(w, "-") {
			out = append(out, w)
		}
	}
	return out
}

// SlopWordConfig tunes the slop word detector.
type SlopWordConfig struct {
	Penalty            int `json:"penalty"`
	ContextWindowChars int `json:"context_window_chars"`
}

func (c *SlopWordConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *SlopWordConfig) Validate() error {
	if c.ContextWindowChars < 0 {
		return fmt.Errorf("context_window_chars must not be negative, got %d", c.ContextWindowChars)
	}
	return nil
}

// SlopWord records one violation for each matched hype word.
type SlopWord struct {
	cfg SlopWordConfig
}

func NewSlopWord(hp *config.Hyperparameters) *SlopWord {
	return &SlopWord{cfg: SlopWordConfig{
		Penalty:            hp.SlopWordPenalty,
		ContextWindowChars: hp.ContextWindowChars,
	}}
}

func (d *SlopWord) Name() string         { return "slop_word" }
func (d *SlopWord) CountKey() string     { return "slop_words" }
func (d *SlopWord) Level() rules.Level   { return rules.LevelWord }
func (d *SlopWord) Config() rules.Config { return &d.cfg }

func (d *SlopWord) Forward(doc *analysis.Document) analysis.RuleResult {
	// Cheap token-set gate before the big alternation regex.
	gate := false
	for w := range plainSlopWords {
		if _, ok := doc.WordTokenSet[w]; ok {
			gate = true
			break
		}
	}
	if !gate {
		for _, w := range hyphenedSlopWords {
			if strings.Contains(doc.LowerText, w) {
				gate = true
				break
			}
		}
	}
	if !gate {
		return analysis.RuleResult{}
	}

	var result analysis.RuleResult
	for _, m := range slopWordRE.FindAllStringIndex(doc.Text, -1) {
		word := strings.ToLower(doc.Text[m[0]:m[1]])
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    word,
			Context:  analysis.ContextAround(doc.Text, m[0], m[1], d.cfg.ContextWindowChars),
			Penalty:  d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Replace '%s' — what specifically do you mean?", word))
	}
	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *SlopWord) Fit(samples []string, labels []int) error {
	if err := rules.ValidateFitInputs(samples, labels); err != nil {
		return err
	}
	pos, neg := rules.SplitByLabel(samples, labels)
	if len(pos) == 0 {
		return nil
	}

	posMatches, negMatches := 0, 0
	for _, s := range pos {
		if slopWordRE.MatchString(s) {
			posMatches++
		}
	}
	for _, s := range neg {
		if slopWordRE.MatchString(s) {
			negMatches++
		}
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty, posMatches, len(pos), negMatches, len(neg))
	return nil
}

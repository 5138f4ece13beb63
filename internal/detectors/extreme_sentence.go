package detectors

import (
	"fmt"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/fitkit"
	"github.com/slopguard/slopguard/internal/rules"
)

// ExtremeSentenceConfig tunes the run-on sentence detector.
type ExtremeSentenceConfig struct {
	MinWords int `json:"min_words"`
	Penalty  int `json:"penalty"`
}

func (c *ExtremeSentenceConfig) PenaltyFields() []rules.PenaltyField {
	return []rules.PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *ExtremeSentenceConfig) Validate() error {
	if c.MinWords < 1 {
		return fmt.Errorf("min_words must be at least 1, got %d", c.MinWords)
	}
	return nil
}

// ExtremeSentence flags sentences long enough to lose the reader.
type ExtremeSentence struct {
	cfg ExtremeSentenceConfig
}

func NewExtremeSentence(hp *config.Hyperparameters) *ExtremeSentence {
	return &ExtremeSentence{cfg: ExtremeSentenceConfig{
		MinWords: hp.ExtremeSentenceMinWords,
		Penalty:  hp.ExtremeSentencePenalty,
	}}
}

func (d *ExtremeSentence) Name() string         { return "extreme_sentence" }
func (d *ExtremeSentence) CountKey() string     { return "extreme_sentence" }
func (d *ExtremeSentence) Level() rules.Level   { return rules.LevelPassage }
func (d *ExtremeSentence) Config() rules.Config { return &d.cfg }

func sentencePreview(sentence string) string {
	if len(sentence) > 80 {
		return sentence[:80] + "..."
	}
	return sentence
}

func (d *ExtremeSentence) Forward(doc *analysis.Document) analysis.RuleResult {
	var result analysis.RuleResult
	for i, wc := range doc.SentenceWordCounts {
		if wc < d.cfg.MinWords {
			continue
		}
		result.Violations = append(result.Violations, analysis.Violation{
			Rule:     d.Name(),
			Category: d.CountKey(),
			Match:    "run_on_sentence",
			Context: fmt.Sprintf("Sentence %d has %d words (>= %d): %q",
				i+1, wc, d.cfg.MinWords, sentencePreview(doc.Sentences[i])),
			Penalty: d.cfg.Penalty,
		})
		result.Advice = append(result.Advice,
			fmt.Sprintf("Sentence %d is %d words - break it into shorter sentences.", i+1, wc))
	}
	if len(result.Violations) > 0 {
		result.CountDeltas = map[string]int{d.CountKey(): len(result.Violations)}
	}
	return result
}

func (d *ExtremeSentence) Fit(samples []string, labels []int) error {
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
			doc := analysis.FromText(s)
			for _, wc := range doc.SentenceWordCounts {
				if wc >= d.cfg.MinWords {
					n++
					break
				}
			}
		}
		return n
	}
	d.cfg.Penalty = fitkit.FitPenaltyContrastive(d.cfg.Penalty,
		matches(pos), len(pos), matches(neg), len(neg))
	return nil
}

package detectors

import (
	"strings"
	"testing"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
)

func TestSlopWordForward(t *testing.T) {
	d := NewSlopWord(config.Default())

	doc := analysis.FromText("We delve into a rich tapestry of ideas.")
	result := d.Forward(doc)
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].Match != "delve" || result.Violations[1].Match != "tapestry" {
		t.Fatalf("matches = %q, %q", result.Violations[0].Match, result.Violations[1].Match)
	}
	if result.CountDeltas["slop_words"] != 2 {
		t.Fatalf("count deltas = %v", result.CountDeltas)
	}
	for _, v := range result.Violations {
		if v.Penalty >= 0 {
			t.Fatalf("penalty %d should be negative", v.Penalty)
		}
	}
}

func TestSlopWordForwardCleanText(t *testing.T) {
	d := NewSlopWord(config.Default())
	result := d.Forward(analysis.FromText("The cat sat on the mat and purred."))
	if len(result.Violations) != 0 {
		t.Fatalf("clean text fired: %+v", result.Violations)
	}
}

func TestSlopWordHyphenated(t *testing.T) {
	d := NewSlopWord(config.Default())
	result := d.Forward(analysis.FromText("A cutting-edge solution for everyone."))
	if len(result.Violations) != 1 || result.Violations[0].Match != "cutting-edge" {
		t.Fatalf("violations = %+v", result.Violations)
	}
}

func TestSlopPhraseForward(t *testing.T) {
	d := NewSlopPhrase(config.Default())

	doc := analysis.FromText("It's worth noting that the cache helps. Let's dive in.")
	result := d.Forward(doc)
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].Match != "it's worth noting" {
		t.Fatalf("first match = %q", result.Violations[0].Match)
	}
	if len(result.Advice) != 2 {
		t.Fatalf("got %d advice entries, want 2", len(result.Advice))
	}
}

func TestSlopPhraseNotJustBut(t *testing.T) {
	d := NewSlopPhrase(config.Default())

	doc := analysis.FromText("This is not just a tool, but also a way of thinking.")
	result := d.Forward(doc)
	if len(result.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(result.Violations), result.Violations)
	}
	if !strings.HasPrefix(result.Violations[0].Match, "not just") {
		t.Fatalf("match = %q", result.Violations[0].Match)
	}
}

func TestToneForward(t *testing.T) {
	d := NewTone(config.Default())

	doc := analysis.FromText("Certainly, the approach works. Let me know if anything breaks.")
	result := d.Forward(doc)
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	var sawOpener, sawMetaComm bool
	for _, v := range result.Violations {
		switch v.Match {
		case "certainly":
			sawOpener = true
		case "let me know if":
			sawMetaComm = true
		}
	}
	if !sawOpener || !sawMetaComm {
		t.Fatalf("missing expected matches: %+v", result.Violations)
	}
	if result.CountDeltas["tone"] != 2 {
		t.Fatalf("count deltas = %v", result.CountDeltas)
	}
}

func TestToneOpenerMidDocument(t *testing.T) {
	d := NewTone(config.Default())

	// The opener only counts at a sentence start, not mid-sentence.
	result := d.Forward(analysis.FromText("The fix worked. Absolutely, ship it."))
	if len(result.Violations) != 1 || result.Violations[0].Match != "absolutely" {
		t.Fatalf("violations = %+v", result.Violations)
	}
	result = d.Forward(analysis.FromText("The fix is absolutely fine."))
	if len(result.Violations) != 0 {
		t.Fatalf("mid-sentence adverb fired: %+v", result.Violations)
	}
}

func TestWeaselForward(t *testing.T) {
	d := NewWeasel(config.Default())

	result := d.Forward(analysis.FromText("Studies show this works, and many believe it."))
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].Match != "studies show" {
		t.Fatalf("first match = %q", result.Violations[0].Match)
	}

	result = d.Forward(analysis.FromText("Smith et al. measured a 12% improvement."))
	if len(result.Violations) != 0 {
		t.Fatalf("attributed claim fired: %+v", result.Violations)
	}
}

func TestAIDisclosureForward(t *testing.T) {
	d := NewAIDisclosure(config.Default())

	result := d.Forward(analysis.FromText("As an AI, I cannot browse the web for you."))
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	for _, v := range result.Violations {
		if v.Penalty != -10 {
			t.Fatalf("penalty = %d, want -10", v.Penalty)
		}
	}

	result = d.Forward(analysis.FromText("As of my knowledge cutoff the API had no v2."))
	if len(result.Violations) != 1 {
		t.Fatalf("cutoff phrasing: got %d violations, want 1", len(result.Violations))
	}
}

func TestPlaceholderForward(t *testing.T) {
	d := NewPlaceholder(config.Default())

	result := d.Forward(analysis.FromText("Contact [insert name here] at [your email] soon."))
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].Match != "[insert name here]" {
		t.Fatalf("first match = %q", result.Violations[0].Match)
	}

	result = d.Forward(analysis.FromText("The array [1, 2, 3] sorts in place."))
	if len(result.Violations) != 0 {
		t.Fatalf("plain brackets fired: %+v", result.Violations)
	}
}

func TestLexicalFitKeepsPenaltySign(t *testing.T) {
	samples := []string{
		"The cat sat on the mat and purred quietly.",
		"Rain fell all afternoon while we read.",
		"We delve into a rich tapestry of seamless synergy.",
		"It's worth noting that this groundbreaking journey delivers.",
	}
	labels := []int{1, 1, 0, 0}

	word := NewSlopWord(config.Default())
	if err := word.Fit(samples, labels); err != nil {
		t.Fatalf("SlopWord.Fit: %v", err)
	}
	if word.cfg.Penalty >= 0 {
		t.Fatalf("slop word penalty = %d, want negative", word.cfg.Penalty)
	}

	phrase := NewSlopPhrase(config.Default())
	if err := phrase.Fit(samples, labels); err != nil {
		t.Fatalf("SlopPhrase.Fit: %v", err)
	}
	if phrase.cfg.Penalty >= 0 {
		t.Fatalf("slop phrase penalty = %d, want negative", phrase.cfg.Penalty)
	}
	if err := phrase.cfg.Validate(); err != nil {
		t.Fatalf("fitted config invalid: %v", err)
	}
}

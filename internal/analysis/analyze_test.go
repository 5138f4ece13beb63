package analysis_test

import (
	"strings"
	"testing"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/detectors"
)

func TestAnalyzeShortTextScoresClean(t *testing.T) {
	hp := config.Default()
	pipeline := detectors.DefaultPipeline(hp)

	report := analysis.Analyze("Delve into this tapestry.", hp, pipeline)
	if report.Score != 100 {
		t.Errorf("short text score = %d, want 100", report.Score)
	}
	if report.Band != "clean" {
		t.Errorf("short text band = %q, want clean", report.Band)
	}
	if report.Violations == nil || len(report.Violations) != 0 {
		t.Errorf("short text violations = %v, want empty non-nil", report.Violations)
	}
}

func TestAnalyzeCleanProse(t *testing.T) {
	hp := config.Default()
	pipeline := detectors.DefaultPipeline(hp)

	text := "The cat slept on the mat all afternoon while rain fell outside the window. " +
		"Nobody bothered him until dinner."
	report := analysis.Analyze(text, hp, pipeline)
	if report.Band != "clean" {
		t.Errorf("band = %q (score %d), want clean; violations: %v",
			report.Band, report.Score, report.Violations)
	}
}

func TestAnalyzeSloppedProse(t *testing.T) {
	hp := config.Default()
	pipeline := detectors.DefaultPipeline(hp)

	// Stock phrases and hype words packed into a short passage.
	chunk := "It's worth noting that this groundbreaking journey will delve into a rich tapestry. "
	text := strings.Repeat(chunk+"Furthermore, the seamless landscape reflects a pivotal paradigm. ", 8)
	report := analysis.Analyze(text, hp, pipeline)

	if len(report.Violations) == 0 {
		t.Fatal("expected violations on slop-heavy text")
	}
	if report.Counts["slop_words"] == 0 {
		t.Error("expected slop_words counter to fire")
	}
	if report.Counts["slop_phrases"] == 0 {
		t.Error("expected slop_phrases counter to fire")
	}
	if report.Band == "clean" {
		t.Errorf("band = clean (score %d), want below clean", report.Score)
	}
	if report.TotalPenalty >= 0 {
		t.Errorf("total penalty = %d, want negative", report.TotalPenalty)
	}
}

func TestAnalyzeAdviceDeduplicated(t *testing.T) {
	hp := config.Default()
	pipeline := detectors.DefaultPipeline(hp)

	text := strings.Repeat("This groundbreaking product is groundbreaking in a groundbreaking way for everyone involved today. ", 4)
	report := analysis.Analyze(text, hp, pipeline)

	seen := map[string]bool{}
	for _, a := range report.Advice {
		if seen[a] {
			t.Fatalf("duplicate advice %q", a)
		}
		seen[a] = true
	}
}

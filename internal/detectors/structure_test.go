package detectors

import (
	"strings"
	"testing"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
)

func violationMatches(violations []analysis.Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Match
	}
	return out
}

func TestStructuralBoldHeaders(t *testing.T) {
	d := NewStructural(config.Default())

	text := "**First.** Explanation of the first point.\n" +
		"**Second.** Explanation of the second point.\n" +
		"**Third.** Explanation of the third point.\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 1 || result.Violations[0].Match != "bold_header_explanation" {
		t.Fatalf("violations = %v", violationMatches(result.Violations))
	}

	// Two blocks stay under the default minimum of three.
	text = "**First.** Explanation.\n**Second.** Explanation.\n"
	result = d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("two blocks fired: %v", violationMatches(result.Violations))
	}
}

func TestStructuralBulletRun(t *testing.T) {
	d := NewStructural(config.Default())

	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString("- item on the list\n")
	}
	result := d.Forward(analysis.FromText(b.String()))
	if len(result.Violations) != 1 || result.Violations[0].Match != "excessive_bullets" {
		t.Fatalf("violations = %v", violationMatches(result.Violations))
	}

	// A prose break resets the run.
	text := "- one\n- two\n- three\nprose in between\n- four\n- five\n- six\n"
	result = d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("broken run fired: %v", violationMatches(result.Violations))
	}
}

func TestStructuralTriadic(t *testing.T) {
	d := NewStructural(config.Default())

	text := "The tool is fast, simple, and cheap. It stays small, sharp, and focused. " +
		"Releases are boring, frequent, and safe."
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(result.Violations), violationMatches(result.Violations))
	}
	if len(result.Advice) != 1 {
		t.Fatalf("got %d advice entries, want the triadic summary", len(result.Advice))
	}
	if result.CountDeltas["structural"] != 3 {
		t.Fatalf("count deltas = %v", result.CountDeltas)
	}
}

func TestBulletDensityForward(t *testing.T) {
	d := NewBulletDensity(config.Default())

	text := "- alpha\n- beta\n- gamma\nsome prose here\nmore prose here\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(result.Violations), result.Violations)
	}
	if !strings.Contains(result.Violations[0].Context, "3 of 5") {
		t.Fatalf("context = %q", result.Violations[0].Context)
	}

	text = "- alpha\nprose\nprose\nprose\nprose\n"
	result = d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("low density fired: %+v", result.Violations)
	}
}

func TestBlockquoteDensityForward(t *testing.T) {
	d := NewBlockquoteDensity(config.Default())

	text := "> first pull quote\n> second pull quote\n> third pull quote\n> fourth pull quote\nprose follows\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(result.Violations), result.Violations)
	}
	// Four quotes minus two free lines at the default step of -3.
	if result.Violations[0].Penalty != -6 {
		t.Fatalf("penalty = %d, want -6", result.Violations[0].Penalty)
	}
}

func TestBlockquoteDensityIgnoresFencedCode(t *testing.T) {
	d := NewBlockquoteDensity(config.Default())

	text := "```\n> not a quote\n> not a quote\n> not a quote\n```\n> real quote\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("fenced content fired: %+v", result.Violations)
	}
}

func TestBoldBulletRunForward(t *testing.T) {
	d := NewBoldBulletRun(config.Default())

	text := "- **Speed:** the hot path is allocation free.\n" +
		"- **Safety:** every input is validated.\n" +
		"- **Scale:** shards rebalance on their own.\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 1 || result.Violations[0].Match != "bold_bullet_list" {
		t.Fatalf("violations = %+v", result.Violations)
	}
	if result.CountDeltas["bold_bullet_list"] != 1 {
		t.Fatalf("count deltas = %v", result.CountDeltas)
	}

	text = "- **Speed:** fast.\n- plain bullet\n- **Safety:** careful.\n"
	result = d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("broken run fired: %+v", result.Violations)
	}
}

func TestHorizontalRulesForward(t *testing.T) {
	d := NewHorizontalRules(config.Default())

	text := "Intro.\n---\nPart one.\n---\nPart two.\n***\nPart three.\n___\nOutro.\n"
	result := d.Forward(analysis.FromText(text))
	if len(result.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(result.Violations), result.Violations)
	}

	text = "Intro.\n---\nPart one.\n---\nOutro.\n"
	result = d.Forward(analysis.FromText(text))
	if len(result.Violations) != 0 {
		t.Fatalf("two dividers fired: %+v", result.Violations)
	}
}

func TestStructuralFitProducesValidConfig(t *testing.T) {
	d := NewStructural(config.Default())

	slop := "**A.** Point one.\n**B.** Point two.\n**C.** Point three.\n**D.** Point four.\n" +
		"The tool is fast, simple, and cheap. It is small, sharp, and focused.\n"
	samples := []string{
		"The cat sat on the mat.\n\nRain fell all afternoon while we read by the window.",
		"A plain paragraph with nothing remarkable about its structure at all.",
		slop,
		slop + "- one\n- two\n- three\n- four\n- five\n- six\n- seven\n",
	}
	labels := []int{1, 1, 0, 0}

	if err := d.Fit(samples, labels); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if err := d.cfg.Validate(); err != nil {
		t.Fatalf("fitted config invalid: %v", err)
	}
	for _, p := range []int{d.cfg.BoldHeaderPenalty, d.cfg.BulletRunPenalty, d.cfg.TriadicPenalty} {
		if p >= 0 {
			t.Fatalf("fitted penalty %d, want negative", p)
		}
	}
}

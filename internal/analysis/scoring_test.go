package analysis

import (
	"testing"

	"github.com/slopguard/slopguard/internal/config"
)

func violationsWithPenalty(category string, penalty, n int) []Violation {
	out := make([]Violation, n)
	for i := range out {
		out[i] = Violation{Rule: "r", Category: category, Match: "m", Penalty: penalty}
	}
	return out
}

func TestWeightedSumUsesMagnitude(t *testing.T) {
	hp := config.Default()
	vs := violationsWithPenalty("slop_words", -2, 3)
	got := WeightedSum(vs, map[string]int{"slop_words": 3}, hp)
	if got != 6 {
		t.Errorf("WeightedSum = %g, want 6", got)
	}
}

func TestWeightedSumConcentrationAmplification(t *testing.T) {
	hp := config.Default()
	counts := map[string]int{"contrast_pairs": 3}
	vs := violationsWithPenalty("contrast_pairs", -1, 3)

	// Each violation is scaled by 1 + alpha*(count-1).
	want := 3 * 1 * (1 + hp.ConcentrationAlpha*2)
	if got := WeightedSum(vs, counts, hp); got != want {
		t.Errorf("WeightedSum = %g, want %g", got, want)
	}

	// A single hit gets no amplification.
	single := violationsWithPenalty("contrast_pairs", -1, 1)
	if got := WeightedSum(single, map[string]int{"contrast_pairs": 1}, hp); got != 1 {
		t.Errorf("single hit WeightedSum = %g, want 1", got)
	}

	// Non-concentration categories never amplify.
	words := violationsWithPenalty("slop_words", -1, 3)
	if got := WeightedSum(words, map[string]int{"slop_words": 3}, hp); got != 3 {
		t.Errorf("slop_words WeightedSum = %g, want 3", got)
	}
}

func TestDensity(t *testing.T) {
	hp := config.Default()
	if got := Density(5, 500, hp); got != 10 {
		t.Errorf("Density = %g, want 10", got)
	}
	if got := Density(5, 0, hp); got != 0 {
		t.Errorf("Density with zero words = %g, want 0", got)
	}
}

func TestScoreFromDensityMonotonic(t *testing.T) {
	hp := config.Default()
	if got := ScoreFromDensity(0, hp); got != 100 {
		t.Errorf("zero density score = %d, want 100", got)
	}
	prev := 101
	for _, density := range []float64{0, 1, 5, 10, 25, 50, 100, 500} {
		score := ScoreFromDensity(density, hp)
		if score > prev {
			t.Errorf("score must not increase with density: %d after %d at density %g", score, prev, density)
		}
		if score < ScoreMin || score > ScoreMax {
			t.Errorf("score %d out of range at density %g", score, density)
		}
		prev = score
	}
}

func TestBandForScore(t *testing.T) {
	hp := config.Default()
	tests := []struct {
		score int
		want  string
	}{
		{100, "clean"},
		{80, "clean"},
		{79, "light"},
		{60, "light"},
		{59, "moderate"},
		{40, "moderate"},
		{39, "heavy"},
		{20, "heavy"},
		{19, "saturated"},
		{0, "saturated"},
	}
	for _, tt := range tests {
		if got := BandForScore(tt.score, hp); got != tt.want {
			t.Errorf("BandForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestDeduplicateAdvice(t *testing.T) {
	got := DeduplicateAdvice([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("advice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

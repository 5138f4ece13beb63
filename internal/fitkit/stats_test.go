package fitkit

import (
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		quantile float64
		want     float64
	}{
		{"median interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"min", []float64{3, 1, 2}, 0, 1},
		{"max", []float64{3, 1, 2}, 1, 3},
		{"single value", []float64{7}, 0.9, 7},
		{"quarter", []float64{0, 10}, 0.25, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentile(tt.values, tt.quantile)
			if err != nil {
				t.Fatalf("Percentile: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Percentile(%v, %v) = %v, want %v", tt.values, tt.quantile, got, tt.want)
			}
		})
	}
}

func TestPercentileErrors(t *testing.T) {
	if _, err := Percentile(nil, 0.5); !errors.Is(err, ErrEmptyValues) {
		t.Fatalf("empty values: got %v, want ErrEmptyValues", err)
	}
	if _, err := Percentile([]float64{1}, -0.1); err == nil {
		t.Fatal("negative quantile: expected an error")
	}
	if _, err := Percentile([]float64{1}, 1.1); err == nil {
		t.Fatal("quantile above 1: expected an error")
	}
}

func TestPercentileCeilFloor(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	ceil, err := PercentileCeil(values, 0.5)
	if err != nil {
		t.Fatalf("PercentileCeil: %v", err)
	}
	if ceil != 3 {
		t.Fatalf("PercentileCeil = %d, want 3", ceil)
	}
	floor, err := PercentileFloor(values, 0.5)
	if err != nil {
		t.Fatalf("PercentileFloor: %v", err)
	}
	if floor != 2 {
		t.Fatalf("PercentileFloor = %d, want 2", floor)
	}
}

func TestFitPenalty(t *testing.T) {
	// No documents matched: scale tops out at 1.5.
	if got := FitPenalty(-2, 0, 10); got != -3 {
		t.Fatalf("rare pattern: got %d, want -3", got)
	}
	// Every document matched: scale bottoms out at 0.5.
	if got := FitPenalty(-4, 10, 10); got != -2 {
		t.Fatalf("ubiquitous pattern: got %d, want -2", got)
	}
	// No corpus: unchanged.
	if got := FitPenalty(-3, 0, 0); got != -3 {
		t.Fatalf("empty corpus: got %d, want -3", got)
	}
	// Magnitude never drops below 1.
	if got := FitPenalty(-1, 10, 10); got != -1 {
		t.Fatalf("magnitude floor: got %d, want -1", got)
	}
	// Sign is preserved for positive bases.
	if got := FitPenalty(2, 0, 10); got != 3 {
		t.Fatalf("positive base: got %d, want 3", got)
	}
}

func TestClampInt(t *testing.T) {
	got, err := ClampInt(15, 0, 10)
	if err != nil {
		t.Fatalf("ClampInt: %v", err)
	}
	if got != 10 {
		t.Fatalf("ClampInt(15, 0, 10) = %d, want 10", got)
	}
	got, err = ClampInt(-5, 0, 10)
	if err != nil {
		t.Fatalf("ClampInt: %v", err)
	}
	if got != 0 {
		t.Fatalf("ClampInt(-5, 0, 10) = %d, want 0", got)
	}
	if _, err := ClampInt(5, 10, 0); err == nil {
		t.Fatal("inverted bounds: expected an error")
	}
}

func TestClampFloat(t *testing.T) {
	got, err := ClampFloat(0.7, 0, 0.5)
	if err != nil {
		t.Fatalf("ClampFloat: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("ClampFloat(0.7, 0, 0.5) = %v, want 0.5", got)
	}
	if _, err := ClampFloat(0.5, 1, 0); err == nil {
		t.Fatal("inverted bounds: expected an error")
	}
}

func TestBlendTowardDefault(t *testing.T) {
	// No support falls back to the default entirely.
	if got := BlendTowardDefault(10, 99, 0, DefaultBlendPivot); got != 10 {
		t.Fatalf("no support: got %v, want 10", got)
	}
	// Support equal to the pivot lands halfway.
	if got := BlendTowardDefault(10, 20, 12, 12); math.Abs(got-15) > 1e-9 {
		t.Fatalf("pivot support: got %v, want 15", got)
	}
	// Heavy support leans toward the candidate.
	got := BlendTowardDefault(10, 20, 120, 12)
	if got <= 15 || got >= 20 {
		t.Fatalf("heavy support: got %v, want in (15, 20)", got)
	}
}

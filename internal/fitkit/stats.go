// Package fitkit holds the shared numeric routines behind detector
// fitting: percentiles, clamps, shrinkage blending, and the
// contrastive threshold, cap, and penalty searches.
package fitkit

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrEmptyValues = errors.New("values must be non-empty")

// Percentile returns the linear-interpolated percentile of values for
// a quantile in [0, 1]. The input is copied, never reordered.
func Percentile(values []float64, quantile float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyValues
	}
	if quantile < 0 || quantile > 1 {
		return 0, fmt.Errorf("quantile must be in [0, 1], got %g", quantile)
	}
	return percentileSorted(sortedCopy(values), quantile), nil
}

func sortedCopy(values []float64) []float64 {
	ordered := make([]float64, len(values))
	copy(ordered, values)
	sort.Float64s(ordered)
	return ordered
}

// percentileSorted assumes a nonempty sorted input and a valid quantile.
func percentileSorted(ordered []float64, quantile float64) float64 {
	if len(ordered) == 1 {
		return ordered[0]
	}
	position := quantile * float64(len(ordered)-1)
	lower := int(position)
	upper := lower + 1
	if upper > len(ordered)-1 {
		upper = len(ordered) - 1
	}
	fraction := position - float64(lower)
	return ordered[lower] + (ordered[upper]-ordered[lower])*fraction
}

// PercentileCeil returns ceil(Percentile(values, quantile)).
func PercentileCeil(values []float64, quantile float64) (int, error) {
	p, err := Percentile(values, quantile)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(p)), nil
}

// PercentileFloor returns floor(Percentile(values, quantile)).
func PercentileFloor(values []float64, quantile float64) (int, error) {
	p, err := Percentile(values, quantile)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(p)), nil
}

// FitPenalty scales penalty magnitude by document support: rare
// patterns become stricter and common patterns more permissive. With
// no documents the base penalty is returned unchanged.
func FitPenalty(basePenalty, matchedDocuments, totalDocuments int) int {
	if totalDocuments <= 0 {
		return basePenalty
	}
	support := float64(matchedDocuments) / float64(totalDocuments)
	scale := clampFloat(1.5-support, 0.5, 1.75)
	magnitude := int(math.Round(math.Abs(float64(basePenalty)) * scale))
	if magnitude < 1 {
		magnitude = 1
	}
	if basePenalty < 0 {
		return -magnitude
	}
	return magnitude
}

// ClampInt clamps value into the inclusive range [lower, upper].
func ClampInt(value, lower, upper int) (int, error) {
	if lower > upper {
		return 0, fmt.Errorf("clamp bounds inverted: lower %d > upper %d", lower, upper)
	}
	if value < lower {
		return lower, nil
	}
	if value > upper {
		return upper, nil
	}
	return value, nil
}

// ClampFloat clamps value into the inclusive range [lower, upper].
func ClampFloat(value, lower, upper float64) (float64, error) {
	if lower > upper {
		return 0, fmt.Errorf("clamp bounds inverted: lower %g > upper %g", lower, upper)
	}
	if value < lower {
		return lower, nil
	}
	if value > upper {
		return upper, nil
	}
	return value, nil
}

func clampFloat(value, lower, upper float64) float64 {
	return math.Min(math.Max(value, lower), upper)
}

// BlendTowardDefault shrinks a fitted candidate back toward its
// default by sample support: weight = support / (support + pivot).
// Zero support returns the default unchanged. Pivot must be positive.
func BlendTowardDefault(defaultValue, candidate float64, support int, pivot float64) float64 {
	if support <= 0 {
		return defaultValue
	}
	weight := float64(support) / (float64(support) + pivot)
	return defaultValue*(1-weight) + candidate*weight
}

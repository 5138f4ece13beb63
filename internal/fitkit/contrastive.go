package fitkit

import "math"

// DefaultBlendPivot is the shrinkage pivot used when a spec leaves
// BlendPivot unset.
const DefaultBlendPivot = 12.0

// ThresholdSpec describes one contrastive threshold search. Positive
// holds the per-document observed values from label-1 samples,
// Negative from label-0 samples. Lower and Upper bound the result.
type ThresholdSpec struct {
	Default    float64
	Positive   []float64
	Negative   []float64
	Lower      float64
	Upper      float64
	BlendPivot float64
}

func (s ThresholdSpec) pivot() float64 {
	if s.BlendPivot > 0 {
		return s.BlendPivot
	}
	return DefaultBlendPivot
}

// FitThresholdHighContrastive fits a threshold for detectors that
// trigger on x > t. Candidates are swept from the default, the range
// bounds, dense percentiles of the combined distribution, and targeted
// percentiles of each label; each candidate is scored by how cleanly
// it separates negative from positive trigger rates. The winner is
// blended toward the default and clamped.
func FitThresholdHighContrastive(spec ThresholdSpec) float64 {
	return fitThresholdContrastive(spec, true)
}

// FitThresholdLowContrastive is the x < t counterpart.
func FitThresholdLowContrastive(spec ThresholdSpec) float64 {
	return fitThresholdContrastive(spec, false)
}

func fitThresholdContrastive(spec ThresholdSpec, high bool) float64 {
	if len(spec.Positive) == 0 {
		return clampFloat(spec.Default, spec.Lower, spec.Upper)
	}

	candidates := thresholdCandidates(spec, high)

	best := candidates[0]
	bestScore := math.Inf(-1)
	bestSeparation := math.Inf(-1)
	bestPosRate := math.Inf(1)
	bestNegRate := math.Inf(-1)
	for _, t := range candidates {
		posRate := triggerRate(spec.Positive, t, high)
		negRate := triggerRate(spec.Negative, t, high)
		separation := negRate - posRate

		score := separation - 0.40*posRate
		if posRate <= 0.20 {
			score += 0.05
		}
		if len(spec.Negative) > 0 && negRate <= posRate {
			score -= 0.25
		}

		better := score > bestScore
		if score == bestScore {
			switch {
			case separation != bestSeparation:
				better = separation > bestSeparation
			case posRate != bestPosRate:
				better = posRate < bestPosRate
			default:
				better = negRate > bestNegRate
			}
		}
		if better {
			best, bestScore = t, score
			bestSeparation, bestPosRate, bestNegRate = separation, posRate, negRate
		}
	}

	// Refuse to fit a discriminator that cannot separate the classes.
	if len(spec.Negative) > 0 && bestSeparation <= 0 {
		return clampFloat(spec.Default, spec.Lower, spec.Upper)
	}

	support := len(spec.Positive) + len(spec.Negative)
	blended := BlendTowardDefault(spec.Default, best, support, spec.pivot())
	return clampFloat(blended, spec.Lower, spec.Upper)
}

func thresholdCandidates(spec ThresholdSpec, high bool) []float64 {
	combined := make([]float64, 0, len(spec.Positive)+len(spec.Negative))
	combined = append(combined, spec.Positive...)
	combined = append(combined, spec.Negative...)
	sortedCombined := sortedCopy(combined)

	candidates := []float64{spec.Default, spec.Lower, spec.Upper}
	for q := 0.0; q <= 1.0001; q += 0.05 {
		candidates = append(candidates, percentileSorted(sortedCombined, math.Min(q, 1)))
	}

	sortedPos := sortedCopy(spec.Positive)
	var targetedPos, targetedNeg []float64
	if high {
		targetedPos = []float64{0.75, 0.90, 0.95}
		targetedNeg = []float64{0.05, 0.10, 0.25}
	} else {
		targetedPos = []float64{0.05, 0.10, 0.25}
		targetedNeg = []float64{0.75, 0.90, 0.95}
	}
	for _, q := range targetedPos {
		candidates = append(candidates, percentileSorted(sortedPos, q))
	}
	if len(spec.Negative) > 0 {
		sortedNeg := sortedCopy(spec.Negative)
		for _, q := range targetedNeg {
			candidates = append(candidates, percentileSorted(sortedNeg, q))
		}
	}

	unique := candidates[:0]
	seen := make(map[float64]struct{}, len(candidates))
	for _, c := range candidates {
		c = clampFloat(c, spec.Lower, spec.Upper)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

func triggerRate(values []float64, threshold float64, high bool) float64 {
	if len(values) == 0 {
		return 0
	}
	fired := 0
	for _, v := range values {
		if (high && v > threshold) || (!high && v < threshold) {
			fired++
		}
	}
	return float64(fired) / float64(len(values))
}

// CapSpec describes one contrastive integer-cap search.
type CapSpec struct {
	Default    int
	Positive   []float64
	Negative   []float64
	Lower      int
	Upper      int
	BlendPivot float64
}

func (s CapSpec) pivot() float64 {
	if s.BlendPivot > 0 {
		return s.BlendPivot
	}
	return DefaultBlendPivot
}

// FitCountCapContrastive fits an integer cap by the same sweep as the
// threshold search, but candidates are scored on clipped means: the
// per-label average of min(value, cap), normalized by the cap. The cap
// reflects how much excess a typical example carries, not merely
// whether it crosses zero.
func FitCountCapContrastive(spec CapSpec) int {
	clampCap := func(v int) int {
		if v < spec.Lower {
			return spec.Lower
		}
		if v > spec.Upper {
			return spec.Upper
		}
		return v
	}
	if len(spec.Positive) == 0 {
		return clampCap(spec.Default)
	}

	candidates := capCandidates(spec)

	best := candidates[0]
	bestScore := math.Inf(-1)
	bestSeparation := math.Inf(-1)
	for _, c := range candidates {
		posMean := clippedMean(spec.Positive, c)
		negMean := clippedMean(spec.Negative, c)
		basis := math.Max(float64(c), 1)
		posRate := posMean / basis
		negRate := negMean / basis
		separation := negRate - posRate

		score := separation - 0.40*posRate
		if posRate <= 0.20 {
			score += 0.05
		}
		if len(spec.Negative) > 0 && negRate <= posRate {
			score -= 0.25
		}

		if score > bestScore || (score == bestScore && separation > bestSeparation) {
			best, bestScore, bestSeparation = c, score, separation
		}
	}

	if len(spec.Negative) > 0 && bestSeparation <= 0 {
		return clampCap(spec.Default)
	}

	support := len(spec.Positive) + len(spec.Negative)
	blended := BlendTowardDefault(float64(spec.Default), float64(best), support, spec.pivot())
	return clampCap(int(math.Round(blended)))
}

func capCandidates(spec CapSpec) []int {
	combined := make([]float64, 0, len(spec.Positive)+len(spec.Negative))
	combined = append(combined, spec.Positive...)
	combined = append(combined, spec.Negative...)
	sortedCombined := sortedCopy(combined)

	raw := []int{spec.Default, spec.Lower, spec.Upper}
	for q := 0.0; q <= 1.0001; q += 0.05 {
		raw = append(raw, int(math.Ceil(percentileSorted(sortedCombined, math.Min(q, 1)))))
	}
	sortedPos := sortedCopy(spec.Positive)
	for _, q := range []float64{0.75, 0.90} {
		raw = append(raw, int(math.Ceil(percentileSorted(sortedPos, q))))
	}
	if len(spec.Negative) > 0 {
		sortedNeg := sortedCopy(spec.Negative)
		for _, q := range []float64{0.50, 0.75} {
			raw = append(raw, int(math.Ceil(percentileSorted(sortedNeg, q))))
		}
	}

	unique := raw[:0]
	seen := make(map[int]struct{}, len(raw))
	for _, c := range raw {
		if c < spec.Lower {
			c = spec.Lower
		}
		if c > spec.Upper {
			c = spec.Upper
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

func clippedMean(values []float64, limit int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Min(v, float64(limit))
	}
	return sum / float64(len(values))
}

// FitPenaltyContrastive rescales a penalty by positive-vs-negative
// prevalence. The baseline magnitude is scaled by positive support
// (rare patterns up to 1.75x, common ones down to 0.5x); with negative
// data present it is scaled again by a separation-times-confidence
// multiplier bounded to [0.5, 2.5]. The sign of basePenalty is
// preserved and the magnitude never drops below 1.
func FitPenaltyContrastive(basePenalty, posMatches, posTotal, negMatches, negTotal int) int {
	if posTotal <= 0 {
		return basePenalty
	}

	posRate := float64(posMatches) / float64(posTotal)
	baseScale := clampFloat(1.5-posRate, 0.5, 1.75)
	magnitude := math.Abs(float64(basePenalty)) * baseScale

	if negTotal > 0 {
		negRate := float64(negMatches) / float64(negTotal)
		contrast := clampFloat(negRate-posRate, -1, 1)
		confidence := float64(negTotal) / (float64(negTotal) + 5)
		scale := clampFloat(1+contrast*confidence*1.5, 0.5, 2.5)
		magnitude *= scale
	}

	out := int(math.Round(magnitude))
	if out < 1 {
		out = 1
	}
	if basePenalty < 0 {
		return -out
	}
	return out
}

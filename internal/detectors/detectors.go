// Package detectors holds every built-in rule: its config, forward
// pass, and fit pass. Detector kinds are assembled into the canonical
// pipeline by DefaultRegistry.
package detectors

import "math"

func clampInt(v, lower, upper int) int {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func countPositive(values []int) int {
	n := 0
	for _, v := range values {
		if v > 0 {
			n++
		}
	}
	return n
}

func countAtLeast(values []int, min int) int {
	n := 0
	for _, v := range values {
		if v >= min {
			n++
		}
	}
	return n
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []int) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean = float64(sum) / float64(len(values))
	var variance float64
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func nonzero(values []int) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

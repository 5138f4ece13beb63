package analysis

import (
	"math"

	"github.com/slopguard/slopguard/internal/config"
)

// ScoreMin and ScoreMax bound every score the engine emits.
const (
	ScoreMin = 0
	ScoreMax = 100
)

// WeightedSum computes total weighted penalties with concentration
// amplification: when a violation's category is one of the configured
// concentration categories and that counter exceeds one, the penalty
// magnitude grows super-linearly with the count.
func WeightedSum(violations []Violation, counts map[string]int, hp *config.Hyperparameters) float64 {
	sum := 0.0
	for _, v := range violations {
		penalty := math.Abs(float64(v.Penalty))
		catCount := counts[v.Category]
		if hp.IsConcentrationKey(v.Category) && catCount > 1 {
			penalty *= 1 + hp.ConcentrationAlpha*float64(catCount-1)
		}
		sum += penalty
	}
	return sum
}

// Density normalizes a weighted sum to penalty per basis words.
// Zero-word documents yield zero density.
func Density(weightedSum float64, wordCount int, hp *config.Hyperparameters) float64 {
	if wordCount == 0 {
		return 0
	}
	return weightedSum / (float64(wordCount) / hp.DensityWordsBasis)
}

// ScoreFromDensity maps weighted density to a bounded integer score
// via exponential decay. Density zero is the maximum score; the score
// approaches the floor as density grows.
func ScoreFromDensity(density float64, hp *config.Hyperparameters) int {
	raw := float64(ScoreMax) * math.Exp(-hp.DecayLambda*density)
	score := int(math.Round(raw))
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// BandForScore maps a score into its severity band, inclusive on the
// lower bound of each band.
func BandForScore(score int, hp *config.Hyperparameters) string {
	switch {
	case score >= hp.BandCleanMin:
		return "clean"
	case score >= hp.BandLightMin:
		return "light"
	case score >= hp.BandModerateMin:
		return "moderate"
	case score >= hp.BandHeavyMin:
		return "heavy"
	default:
		return "saturated"
	}
}

// DeduplicateAdvice removes duplicate advice entries, keeping the
// first occurrence of each.
func DeduplicateAdvice(advice []string) []string {
	seen := make(map[string]struct{}, len(advice))
	unique := make([]string, 0, len(advice))
	for _, item := range advice {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

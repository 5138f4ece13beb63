// Package rules defines the detector contract and the pipeline that
// runs, fits, calibrates, and serializes a set of detectors.
package rules

import (
	"errors"
	"fmt"

	"github.com/slopguard/slopguard/internal/analysis"
)

// Level groups detectors by the granularity they inspect. It is
// organizational metadata only and never drives control flow.
type Level string

const (
	LevelWord      Level = "word"
	LevelSentence  Level = "sentence"
	LevelParagraph Level = "paragraph"
	LevelPassage   Level = "passage"
)

// ErrInvalidArgument marks malformed fit inputs.
var ErrInvalidArgument = errors.New("invalid argument")

// PenaltyField exposes one penalty-shaped config field to calibration.
// Get and Set operate on the live config value.
type PenaltyField struct {
	Name string
	Get  func() int
	Set  func(int)
}

// Config is the per-detector value record that fitting mutates and
// serialization round-trips.
type Config interface {
	// PenaltyFields enumerates the penalty-shaped fields calibration
	// may rescale. Detectors with no penalties return nil.
	PenaltyFields() []PenaltyField
	Validate() error
}

// Detector is the uniform contract every rule implements: a pure,
// total forward pass and an optional statistical fit pass.
type Detector interface {
	// Name is the stable rule name used in violation records.
	Name() string
	// CountKey is the counter this detector contributes to, and the
	// category used for concentration amplification.
	CountKey() string
	Level() Level
	Config() Config
	Forward(doc *analysis.Document) analysis.RuleResult
	// Fit updates the detector's config from a labeled corpus. A
	// detector with nothing to learn validates and returns nil.
	Fit(samples []string, labels []int) error
}

// ValidateFitInputs rejects mismatched sample/label sets and labels
// outside {0, 1}.
func ValidateFitInputs(samples []string, labels []int) error {
	if len(samples) != len(labels) {
		return fmt.Errorf("%w: %d samples but %d labels", ErrInvalidArgument, len(samples), len(labels))
	}
	for i, label := range labels {
		if label != 0 && label != 1 {
			return fmt.Errorf("%w: label at index %d must be 0 or 1, got %d", ErrInvalidArgument, i, label)
		}
	}
	return nil
}

// SplitByLabel partitions samples into positives (label 1) and
// negatives (label 0).
func SplitByLabel(samples []string, labels []int) (positive, negative []string) {
	for i, sample := range samples {
		if labels[i] == 1 {
			positive = append(positive, sample)
		} else {
			negative = append(negative, sample)
		}
	}
	return positive, negative
}

package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
)

type fakeConfig struct {
	Penalty int `json:"penalty"`
}

func (c *fakeConfig) PenaltyFields() []PenaltyField {
	return []PenaltyField{{
		Name: "penalty",
		Get:  func() int { return c.Penalty },
		Set:  func(v int) { c.Penalty = v },
	}}
}

func (c *fakeConfig) Validate() error {
	if c.Penalty > 0 {
		return errors.New("penalty must be negative or zero")
	}
	return nil
}

// markerDetector fires once per occurrence of a literal marker. It
// gives calibration a detector whose firing pattern the test controls
// exactly.
type markerDetector struct {
	name      string
	marker    string
	cfg       *fakeConfig
	fitLabels []int
}

func newMarkerDetector(name, marker string, penalty int) *markerDetector {
	return &markerDetector{name: name, marker: marker, cfg: &fakeConfig{Penalty: penalty}}
}

func (d *markerDetector) Name() string     { return d.name }
func (d *markerDetector) CountKey() string { return d.name }
func (d *markerDetector) Level() Level     { return LevelWord }
func (d *markerDetector) Config() Config   { return d.cfg }

func (d *markerDetector) Forward(doc *analysis.Document) analysis.RuleResult {
	n := strings.Count(doc.LowerText, d.marker)
	if n == 0 || d.cfg.Penalty == 0 {
		return analysis.RuleResult{}
	}
	violations := make([]analysis.Violation, n)
	for i := range violations {
		violations[i] = analysis.Violation{
			Rule:     d.name,
			Category: d.name,
			Match:    d.marker,
			Penalty:  d.cfg.Penalty,
		}
	}
	return analysis.RuleResult{
		Violations:  violations,
		CountDeltas: map[string]int{d.name: n},
	}
}

func (d *markerDetector) Fit(samples []string, labels []int) error {
	d.fitLabels = append([]int(nil), labels...)
	return ValidateFitInputs(samples, labels)
}

func markerRegistry(detectors ...*markerDetector) *Registry {
	r := NewRegistry()
	for _, d := range detectors {
		r.Register(d.name, Entry{
			New: func(hp *config.Hyperparameters) Detector { return d },
			Decode: func(raw json.RawMessage) (Detector, error) {
				cfg := &fakeConfig{}
				if err := json.Unmarshal(raw, cfg); err != nil {
					return nil, err
				}
				return &markerDetector{name: d.name, marker: d.marker, cfg: cfg}, nil
			},
		})
	}
	return r
}

func TestPipelineForwardMergesInOrder(t *testing.T) {
	first := newMarkerDetector("first", "alpha", -2)
	second := newMarkerDetector("second", "beta", -3)
	p := NewPipeline(markerRegistry(first, second), config.Default())

	doc := analysis.FromText("alpha then beta then alpha again")
	state := p.Forward(doc)

	if len(state.Violations) != 3 {
		t.Fatalf("got %d violations, want 3", len(state.Violations))
	}
	if state.Violations[0].Rule != "first" || state.Violations[2].Rule != "second" {
		t.Fatalf("violations out of pipeline order: %+v", state.Violations)
	}
	if state.Counts["first"] != 2 || state.Counts["second"] != 1 {
		t.Fatalf("counts = %v", state.Counts)
	}
}

func TestPipelineFitValidatesInputs(t *testing.T) {
	p := NewPipeline(markerRegistry(newMarkerDetector("m", "x", -1)), config.Default())

	err := p.Fit([]string{"a", "b"}, []int{1}, false)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("mismatched lengths: got %v, want ErrInvalidArgument", err)
	}
	err = p.Fit([]string{"a"}, []int{2}, false)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("label out of range: got %v, want ErrInvalidArgument", err)
	}
}

func TestPipelineFitNilLabelsDefaultPositive(t *testing.T) {
	d := newMarkerDetector("m", "x", -1)
	p := NewPipeline(markerRegistry(d), config.Default())

	if err := p.Fit([]string{"a", "b", "c"}, nil, false); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i, l := range d.fitLabels {
		if l != 1 {
			t.Fatalf("label %d = %d, want 1", i, l)
		}
	}
	if len(d.fitLabels) != 3 {
		t.Fatalf("detector saw %d labels, want 3", len(d.fitLabels))
	}
}

func TestCalibrateDisablesDetectorFiringOnPositives(t *testing.T) {
	d := newMarkerDetector("m", "zzz", -4)
	p := NewPipeline(markerRegistry(d), config.Default())

	samples := []string{"zzz here", "zzz again", "clean text", "more clean text"}
	labels := []int{1, 1, 0, 0}
	if err := p.Fit(samples, labels, true); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if d.cfg.Penalty != 0 {
		t.Fatalf("penalty = %d, want 0 for a detector firing only on the target style", d.cfg.Penalty)
	}
}

func TestCalibrateKeepsDetectorFiringOnNegatives(t *testing.T) {
	d := newMarkerDetector("m", "zzz", -4)
	p := NewPipeline(markerRegistry(d), config.Default())

	samples := []string{"clean text", "more clean text", "zzz here", "zzz again"}
	labels := []int{1, 1, 0, 0}
	if err := p.Fit(samples, labels, true); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if d.cfg.Penalty != -4 {
		t.Fatalf("penalty = %d, want -4 preserved", d.cfg.Penalty)
	}
}

func TestCalibrateHalvesOverbroadDetector(t *testing.T) {
	d := newMarkerDetector("m", "qqq", -4)
	p := NewPipeline(markerRegistry(d), config.Default())

	// Fires on every document but more heavily on the slop side.
	samples := []string{"qqq once", "qqq once more", "qqq and qqq", "qqq then qqq"}
	labels := []int{1, 1, 0, 0}
	if err := p.Fit(samples, labels, true); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if d.cfg.Penalty != -2 {
		t.Fatalf("penalty = %d, want -2 after halving", d.cfg.Penalty)
	}
}

func TestCalibrateSkippedWithoutBothLabels(t *testing.T) {
	d := newMarkerDetector("m", "zzz", -4)
	p := NewPipeline(markerRegistry(d), config.Default())

	if err := p.Fit([]string{"zzz here", "zzz again"}, []int{1, 1}, true); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if d.cfg.Penalty != -4 {
		t.Fatalf("penalty = %d, want -4 untouched without negatives", d.cfg.Penalty)
	}
}

func TestWriteConfigLoadPipelineRoundTrip(t *testing.T) {
	first := newMarkerDetector("first", "alpha", -2)
	second := newMarkerDetector("second", "beta", -7)
	registry := markerRegistry(first, second)
	p := NewPipeline(registry, config.Default())

	var buf bytes.Buffer
	if err := p.WriteConfig(&buf); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	loaded, err := LoadPipeline(&buf, registry, config.Default())
	if err != nil {
		t.Fatalf("LoadPipeline: %v", err)
	}
	kinds := loaded.Kinds()
	if len(kinds) != 2 || kinds[0] != "first" || kinds[1] != "second" {
		t.Fatalf("kinds = %v", kinds)
	}
	cfg, ok := loaded.Detectors()[1].Config().(*fakeConfig)
	if !ok {
		t.Fatalf("unexpected config type %T", loaded.Detectors()[1].Config())
	}
	if cfg.Penalty != -7 {
		t.Fatalf("round-tripped penalty = %d, want -7", cfg.Penalty)
	}
}

func TestLoadPipelineErrors(t *testing.T) {
	registry := markerRegistry(newMarkerDetector("m", "x", -1))
	hp := config.Default()

	_, err := LoadPipeline(strings.NewReader(""), registry, hp)
	if !errors.Is(err, ErrEmptyConfig) {
		t.Fatalf("empty input: got %v, want ErrEmptyConfig", err)
	}

	unknown := `{"kind":"nope","config":{"penalty":-1}}` + "\n"
	_, err = LoadPipeline(strings.NewReader(unknown), registry, hp)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind: got %v, want ErrUnknownKind", err)
	}

	missingKind := `{"config":{"penalty":-1}}` + "\n"
	if _, err := LoadPipeline(strings.NewReader(missingKind), registry, hp); err == nil {
		t.Fatal("missing kind: expected an error")
	}

	invalid := `{"kind":"m","config":{"penalty":3}}` + "\n"
	if _, err := LoadPipeline(strings.NewReader(invalid), registry, hp); err == nil {
		t.Fatal("invalid config: expected a validation error")
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on duplicate registration")
		}
	}()
	r := NewRegistry()
	r.Register("dup", Entry{})
	r.Register("dup", Entry{})
}

func TestRegistryGetUnknown(t *testing.T) {
	if _, err := NewRegistry().Get("missing"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
}

func TestSplitByLabel(t *testing.T) {
	pos, neg := SplitByLabel([]string{"a", "b", "c"}, []int{1, 0, 1})
	if len(pos) != 2 || pos[0] != "a" || pos[1] != "c" {
		t.Fatalf("pos = %v", pos)
	}
	if len(neg) != 1 || neg[0] != "b" {
		t.Fatalf("neg = %v", neg)
	}
}

package rules

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
)

// ErrEmptyConfig marks a serialized pipeline with no detector records.
var ErrEmptyConfig = errors.New("pipeline config is empty")

// Pipeline is an ordered list of configured detectors sharing one set
// of hyperparameters. Forward is safe for concurrent use; Fit is not.
type Pipeline struct {
	hp        *config.Hyperparameters
	kinds     []string
	detectors []Detector
}

// NewPipeline builds a pipeline from the registry's full detector set
// in registration order, using default configs derived from hp.
func NewPipeline(registry *Registry, hp *config.Hyperparameters) *Pipeline {
	p := &Pipeline{hp: hp}
	for _, kind := range registry.Kinds() {
		entry, _ := registry.Get(kind)
		p.kinds = append(p.kinds, kind)
		p.detectors = append(p.detectors, entry.New(hp))
	}
	return p
}

// Kinds returns the detector kinds in pipeline order.
func (p *Pipeline) Kinds() []string {
	out := make([]string, len(p.kinds))
	copy(out, p.kinds)
	return out
}

// Detectors returns the live detectors in pipeline order.
func (p *Pipeline) Detectors() []Detector {
	out := make([]Detector, len(p.detectors))
	copy(out, p.detectors)
	return out
}

// Forward folds the initial state through every detector in order.
func (p *Pipeline) Forward(doc *analysis.Document) analysis.State {
	state := analysis.InitialState()
	for _, d := range p.detectors {
		state = state.Merge(d.Forward(doc))
	}
	return state
}

// Fit fits every detector against the labeled corpus, then, when
// calibrate is set and both labels are present, rescales each
// detector's penalty fields by how well its firing discriminates
// negatives from positives. A nil labels slice treats every sample as
// label 1.
func (p *Pipeline) Fit(samples []string, labels []int, calibrate bool) error {
	if labels == nil {
		labels = make([]int, len(samples))
		for i := range labels {
			labels[i] = 1
		}
	}
	if err := ValidateFitInputs(samples, labels); err != nil {
		return err
	}

	for i, d := range p.detectors {
		if err := d.Fit(samples, labels); err != nil {
			return fmt.Errorf("fitting %s: %w", p.kinds[i], err)
		}
	}

	if !calibrate || !hasBothLabels(labels) {
		return nil
	}
	return p.calibrate(samples, labels)
}

func hasBothLabels(labels []int) bool {
	var seen0, seen1 bool
	for _, l := range labels {
		if l == 0 {
			seen0 = true
		} else {
			seen1 = true
		}
	}
	return seen0 && seen1
}

// calibrate runs each fitted detector over every sample in isolation
// and compares its contribution across labels. Detectors that score
// positives at least as hard as negatives are disabled; detectors
// that fire too broadly on positives are halved.
func (p *Pipeline) calibrate(samples []string, labels []int) error {
	docs, err := buildDocuments(samples)
	if err != nil {
		return err
	}

	for _, d := range p.detectors {
		fields := d.Config().PenaltyFields()
		if len(fields) == 0 {
			continue
		}

		contributions, err := p.detectorContributions(d, docs)
		if err != nil {
			return err
		}

		var posSum, negSum float64
		var posFired, negFired, posTotal, negTotal int
		for i, c := range contributions {
			if labels[i] == 1 {
				posTotal++
				posSum += c
				if c != 0 {
					posFired++
				}
			} else {
				negTotal++
				negSum += c
				if c != 0 {
					negFired++
				}
			}
		}
		posMean := posSum / float64(posTotal)
		negMean := negSum / float64(negTotal)
		posRate := float64(posFired) / float64(posTotal)
		negRate := float64(negFired) / float64(negTotal)

		var scale float64
		switch {
		case negMean <= posMean:
			scale = 0
		case negRate <= posRate || posRate > 0.80:
			scale = 0.5
		default:
			scale = 1
		}

		applyPenaltyScale(fields, scale)
	}
	return nil
}

// detectorContributions maps samples to this detector's isolated
// weighted-sum contribution, in parallel. Each sample is independent,
// so ordering does not affect results.
func (p *Pipeline) detectorContributions(d Detector, docs []*analysis.Document) ([]float64, error) {
	contributions := make([]float64, len(docs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		g.Go(func() error {
			result := d.Forward(doc)
			counts := make(map[string]int, len(result.CountDeltas))
			for k, v := range result.CountDeltas {
				if v > 0 {
					counts[k] = v
				}
			}
			contributions[i] = analysis.WeightedSum(result.Violations, counts, p.hp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contributions, nil
}

func buildDocuments(samples []string) ([]*analysis.Document, error) {
	docs := make([]*analysis.Document, len(samples))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sample := range samples {
		g.Go(func() error {
			docs[i] = analysis.FromText(sample)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// applyPenaltyScale rescales every nonzero penalty field. Scale 0
// snaps the field to exactly 0; any other scale keeps a magnitude of
// at least 1 and preserves the sign.
func applyPenaltyScale(fields []PenaltyField, scale float64) {
	for _, f := range fields {
		orig := f.Get()
		if orig == 0 {
			continue
		}
		if scale == 0 {
			f.Set(0)
			continue
		}
		magnitude := int(math.Round(math.Abs(float64(orig)) * scale))
		if magnitude < 1 {
			magnitude = 1
		}
		if orig < 0 {
			f.Set(-magnitude)
		} else {
			f.Set(magnitude)
		}
	}
}

type configRecord struct {
	Kind   string          `json:"kind"`
	Config json.RawMessage `json:"config"`
}

// WriteConfig serializes the pipeline as one JSON record per line,
// preserving detector order.
func (p *Pipeline) WriteConfig(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, d := range p.detectors {
		raw, err := json.Marshal(d.Config())
		if err != nil {
			return fmt.Errorf("encoding %s config: %w", p.kinds[i], err)
		}
		line, err := json.Marshal(configRecord{Kind: p.kinds[i], Config: raw})
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", p.kinds[i], err)
		}
		if _, err := bw.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteConfigFile writes the serialized pipeline to path.
func (p *Pipeline) WriteConfigFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating pipeline config %s: %w", path, err)
	}
	if err := p.WriteConfig(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadPipeline reads a line-oriented pipeline config. Blank lines are
// skipped; an unknown kind or an empty file is an error. Detector
// order follows the file exactly.
func LoadPipeline(r io.Reader, registry *Registry, hp *config.Hyperparameters) (*Pipeline, error) {
	p := &Pipeline{hp: hp}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record configRecord
		dec := json.NewDecoder(bytes.NewReader([]byte(line)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("pipeline config line %d: %w", lineNo, err)
		}
		if record.Kind == "" {
			return nil, fmt.Errorf("pipeline config line %d: missing kind", lineNo)
		}
		if len(record.Config) == 0 {
			return nil, fmt.Errorf("pipeline config line %d: missing config for %q", lineNo, record.Kind)
		}

		entry, err := registry.Get(record.Kind)
		if err != nil {
			return nil, fmt.Errorf("pipeline config line %d: %w", lineNo, err)
		}
		detector, err := entry.Decode(record.Config)
		if err != nil {
			return nil, fmt.Errorf("pipeline config line %d: decoding %q: %w", lineNo, record.Kind, err)
		}
		if err := detector.Config().Validate(); err != nil {
			return nil, fmt.Errorf("pipeline config line %d: invalid %q config: %w", lineNo, record.Kind, err)
		}

		p.kinds = append(p.kinds, record.Kind)
		p.detectors = append(p.detectors, detector)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pipeline config: %w", err)
	}
	if len(p.detectors) == 0 {
		return nil, ErrEmptyConfig
	}
	return p, nil
}

// LoadPipelineFile reads a serialized pipeline from path.
func LoadPipelineFile(path string, registry *Registry, hp *config.Hyperparameters) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pipeline config %s: %w", path, err)
	}
	defer f.Close()
	return LoadPipeline(f, registry, hp)
}

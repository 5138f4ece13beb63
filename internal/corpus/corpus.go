// Package corpus loads labeled text samples for fitting. Samples come
// from JSONL files with {"text": ..., "label": ...} records or from
// plain .txt/.md files holding one sample each.
package corpus

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrEmptyDataset marks a load that produced no samples.
var ErrEmptyDataset = errors.New("dataset is empty")

// Sample is one labeled document. Label 1 marks the target style,
// label 0 marks text the detectors should fire on.
type Sample struct {
	Text  string `json:"text"`
	Label int    `json:"label"`
}

// Dataset holds loaded samples in file order.
type Dataset struct {
	Samples []Sample
}

// Split returns parallel text and label slices for Pipeline.Fit.
func (d *Dataset) Split() (texts []string, labels []int) {
	texts = make([]string, len(d.Samples))
	labels = make([]int, len(d.Samples))
	for i, s := range d.Samples {
		texts[i] = s.Text
		labels[i] = s.Label
	}
	return texts, labels
}

// ExpandGlobs resolves doublestar patterns to file paths. A pattern
// with no metacharacters must name an existing file.
func ExpandGlobs(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr != nil {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			matches = []string{pattern}
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

type jsonlRecord struct {
	Text  *string `json:"text"`
	Label *int    `json:"label"`
}

// loadJSONL reads one sample per line. A record without a label gets
// defaultLabel; forceLabel overrides whatever the record says.
func loadJSONL(path string, defaultLabel int, forceLabel bool) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if rec.Text == nil {
			return nil, fmt.Errorf("%s:%d: record has no text field", path, lineNo)
		}
		label := defaultLabel
		if !forceLabel && rec.Label != nil {
			label = *rec.Label
		}
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("%s:%d: label must be 0 or 1, got %d", path, lineNo, label)
		}
		samples = append(samples, Sample{Text: *rec.Text, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	return samples, nil
}

func loadPlain(path string, label int) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	return []Sample{{Text: string(data), Label: label}}, nil
}

func loadFile(path string, defaultLabel int, forceLabel bool) ([]Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return loadJSONL(path, defaultLabel, forceLabel)
	case ".txt", ".md":
		return loadPlain(path, defaultLabel)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q (want .jsonl, .txt, or .md)", path)
	}
}

// Load builds a dataset from positive and negative glob patterns.
// Positive JSONL records may carry their own labels and default to 1;
// negative files are always label 0.
func Load(positive, negative []string) (*Dataset, error) {
	ds := &Dataset{}

	posPaths, err := ExpandGlobs(positive)
	if err != nil {
		return nil, err
	}
	for _, path := range posPaths {
		samples, err := loadFile(path, 1, false)
		if err != nil {
			return nil, err
		}
		ds.Samples = append(ds.Samples, samples...)
	}

	negPaths, err := ExpandGlobs(negative)
	if err != nil {
		return nil, err
	}
	for _, path := range negPaths {
		samples, err := loadFile(path, 0, true)
		if err != nil {
			return nil, err
		}
		ds.Samples = append(ds.Samples, samples...)
	}

	if len(ds.Samples) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadJSONLLabels(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pos.jsonl",
		`{"text":"labeled human prose","label":1}`+"\n"+
			`{"text":"unlabeled prose"}`+"\n"+
			"\n"+
			`{"text":"explicit slop","label":0}`+"\n")

	ds, err := Load([]string{path}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(ds.Samples))
	}
	// Positive files default to label 1 but keep explicit labels.
	wantLabels := []int{1, 1, 0}
	for i, want := range wantLabels {
		if ds.Samples[i].Label != want {
			t.Fatalf("sample %d label = %d, want %d", i, ds.Samples[i].Label, want)
		}
	}
}

func TestLoadNegativeForcesLabelZero(t *testing.T) {
	dir := t.TempDir()
	neg := writeFile(t, dir, "neg.jsonl", `{"text":"slop sample","label":1}`+"\n")
	pos := writeFile(t, dir, "pos.txt", "a whole file as one sample")

	ds, err := Load([]string{pos}, []string{neg})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(ds.Samples))
	}
	if ds.Samples[0].Label != 1 || ds.Samples[0].Text != "a whole file as one sample" {
		t.Fatalf("positive sample = %+v", ds.Samples[0])
	}
	if ds.Samples[1].Label != 0 {
		t.Fatalf("negative label = %d, want forced 0", ds.Samples[1].Label)
	}
}

func TestLoadJSONLErrors(t *testing.T) {
	dir := t.TempDir()

	badLabel := writeFile(t, dir, "bad_label.jsonl", `{"text":"x","label":7}`+"\n")
	_, err := Load([]string{badLabel}, nil)
	if err == nil || !strings.Contains(err.Error(), "bad_label.jsonl:1") {
		t.Fatalf("bad label: got %v, want line-numbered error", err)
	}

	noText := writeFile(t, dir, "no_text.jsonl", `{"label":1}`+"\n")
	if _, err := Load([]string{noText}, nil); err == nil {
		t.Fatal("missing text: expected an error")
	}

	notJSON := writeFile(t, dir, "broken.jsonl", "not json at all\n")
	if _, err := Load([]string{notJSON}, nil); err == nil {
		t.Fatal("malformed line: expected an error")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "text,label\n")
	if _, err := Load([]string{path}, nil); err == nil {
		t.Fatal("unsupported extension: expected an error")
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.jsonl", "\n\n")
	if _, err := Load([]string{path}, nil); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("got %v, want ErrEmptyDataset", err)
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "c.txt", "c")

	paths, err := ExpandGlobs([]string{filepath.Join(dir, "**", "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3: %v", len(paths), paths)
	}

	if _, err := ExpandGlobs([]string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Fatal("missing literal path: expected an error")
	}
}

func TestDatasetSplit(t *testing.T) {
	ds := &Dataset{Samples: []Sample{
		{Text: "a", Label: 1},
		{Text: "b", Label: 0},
	}}
	texts, labels := ds.Split()
	if len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Fatalf("texts = %v", texts)
	}
	if labels[0] != 1 || labels[1] != 0 {
		t.Fatalf("labels = %v", labels)
	}
}

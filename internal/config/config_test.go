package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default hyperparameters invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hp.yaml")
	yaml := "decay_lambda: 0.08\nslop_word_penalty: -4\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	hp, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hp.DecayLambda != 0.08 {
		t.Fatalf("decay_lambda = %g, want 0.08", hp.DecayLambda)
	}
	if hp.SlopWordPenalty != -4 {
		t.Fatalf("slop_word_penalty = %d, want -4", hp.SlopWordPenalty)
	}
	// Untouched fields keep their defaults.
	if hp.BandCleanMin != Default().BandCleanMin {
		t.Fatalf("band_clean_min = %d, want default %d", hp.BandCleanMin, Default().BandCleanMin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file: expected an error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hp.yaml")
	if err := os.WriteFile(path, []byte("decay_lambda: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("negative decay_lambda: expected an error")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(hp *Hyperparameters)
	}{
		{"zero decay lambda", func(hp *Hyperparameters) { hp.DecayLambda = 0 }},
		{"zero words basis", func(hp *Hyperparameters) { hp.DensityWordsBasis = 0 }},
		{"negative alpha", func(hp *Hyperparameters) { hp.ConcentrationAlpha = -1 }},
		{"inverted ngram bounds", func(hp *Hyperparameters) { hp.RepeatedNgramMaxN = hp.RepeatedNgramMinN - 1 }},
		{"bands out of order", func(hp *Hyperparameters) { hp.BandLightMin = hp.BandCleanMin }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp := Default()
			tt.mutate(hp)
			if err := hp.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestIsConcentrationKey(t *testing.T) {
	hp := Default()
	if !hp.IsConcentrationKey("contrast_pairs") {
		t.Fatal("contrast_pairs should amplify")
	}
	if hp.IsConcentrationKey("slop_words") {
		t.Fatal("slop_words should not amplify")
	}
}

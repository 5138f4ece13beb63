package detectors

import (
	"encoding/json"
	"testing"

	"github.com/slopguard/slopguard/internal/config"
)

var wantKinds = []string{
	"slop_word", "slop_phrase", "tone", "weasel", "ai_disclosure",
	"placeholder", "contrast_pair", "setup_resolution", "pithy_fragment",
	"structural", "bullet_density", "blockquote_density", "bold_bullet_run",
	"horizontal_rules", "rhythm", "em_dash", "colon_density", "phrase_reuse",
	"extreme_sentence", "copula_chain", "closing_aphorism",
	"paragraph_balance", "paragraph_cv",
}

func TestDefaultRegistryKinds(t *testing.T) {
	kinds := DefaultRegistry().Kinds()
	if len(kinds) != len(wantKinds) {
		t.Fatalf("got %d kinds, want %d", len(kinds), len(wantKinds))
	}
	for i, kind := range kinds {
		if kind != wantKinds[i] {
			t.Fatalf("kind %d = %q, want %q", i, kind, wantKinds[i])
		}
	}
}

func TestDefaultPipelineConfigsValidate(t *testing.T) {
	p := DefaultPipeline(config.Default())
	if got := len(p.Detectors()); got != len(wantKinds) {
		t.Fatalf("got %d detectors, want %d", got, len(wantKinds))
	}
	for i, d := range p.Detectors() {
		if err := d.Config().Validate(); err != nil {
			t.Fatalf("default config for %s invalid: %v", p.Kinds()[i], err)
		}
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	entry, err := DefaultRegistry().Get("slop_word")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	raw := json.RawMessage(`{"penalty":-2,"context_window_chars":60,"bogus":true}`)
	if _, err := entry.Decode(raw); err == nil {
		t.Fatal("unknown field: expected a decode error")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	entry, err := DefaultRegistry().Get("em_dash")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	raw := json.RawMessage(`{"words_basis":150,"density_threshold":0.8,"penalty":-4}`)
	d, err := entry.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	cfg, ok := d.Config().(*EmDashConfig)
	if !ok {
		t.Fatalf("unexpected config type %T", d.Config())
	}
	if cfg.Penalty != -4 || cfg.DensityThreshold != 0.8 {
		t.Fatalf("decoded config = %+v", cfg)
	}
}

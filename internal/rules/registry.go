package rules

import (
	"encoding/json"
	"fmt"

	"github.com/slopguard/slopguard/internal/config"
)

// ErrUnknownKind marks a reference to an unregistered detector kind.
var ErrUnknownKind = fmt.Errorf("unknown detector kind")

// Entry pairs a detector kind with its constructor and its config
// decoder. Each kind owns exactly one config type; decoding never
// relies on runtime introspection.
type Entry struct {
	New    func(hp *config.Hyperparameters) Detector
	Decode func(raw json.RawMessage) (Detector, error)
}

// Registry maps stable kind strings to detector entries. Registration
// order is the canonical pipeline order.
type Registry struct {
	order   []string
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a kind. Registering the same kind twice is a
// programming error and panics at startup.
func (r *Registry) Register(kind string, entry Entry) {
	if _, dup := r.entries[kind]; dup {
		panic(fmt.Sprintf("detector kind %q registered twice", kind))
	}
	r.order = append(r.order, kind)
	r.entries[kind] = entry
}

// Get looks up a kind.
func (r *Registry) Get(kind string) (Entry, error) {
	entry, ok := r.entries[kind]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return entry, nil
}

// Kinds returns every registered kind in registration order.
func (r *Registry) Kinds() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

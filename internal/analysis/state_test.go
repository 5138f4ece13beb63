package analysis

import "testing"

func TestInitialStateHasAllCounters(t *testing.T) {
	state := InitialState()
	if len(state.Counts) != len(CountKeys) {
		t.Fatalf("got %d counters, want %d", len(state.Counts), len(CountKeys))
	}
	for _, key := range CountKeys {
		if v, ok := state.Counts[key]; !ok || v != 0 {
			t.Errorf("counter %q = %d, %v; want 0, present", key, v, ok)
		}
	}
}

func TestMergeAccumulates(t *testing.T) {
	state := InitialState()
	state = state.Merge(RuleResult{
		Violations:  []Violation{{Rule: "a", Category: "slop_words", Penalty: -2}},
		Advice:      []string{"first"},
		CountDeltas: map[string]int{"slop_words": 1},
	})
	state = state.Merge(RuleResult{
		Violations:  []Violation{{Rule: "b", Category: "tone", Penalty: -3}},
		Advice:      []string{"second"},
		CountDeltas: map[string]int{"tone": 2},
	})

	if len(state.Violations) != 2 || state.Violations[0].Rule != "a" || state.Violations[1].Rule != "b" {
		t.Errorf("violations out of order: %v", state.Violations)
	}
	if state.Counts["slop_words"] != 1 || state.Counts["tone"] != 2 {
		t.Errorf("counts = %v", state.Counts)
	}
	if len(state.Advice) != 2 || state.Advice[0] != "first" {
		t.Errorf("advice = %v", state.Advice)
	}
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := InitialState()
	_ = base.Merge(RuleResult{CountDeltas: map[string]int{"tone": 5}})
	if base.Counts["tone"] != 0 {
		t.Errorf("receiver mutated: tone = %d", base.Counts["tone"])
	}
}

func TestMergeFloorsCountersAtZero(t *testing.T) {
	state := InitialState()
	state = state.Merge(RuleResult{CountDeltas: map[string]int{"tone": -3}})
	if state.Counts["tone"] != 0 {
		t.Errorf("tone = %d, want 0", state.Counts["tone"])
	}
}

package analysis

// Violation is the canonical record emitted by a detector. Category is
// the counter key the violation contributes to; the scorer uses it to
// decide whether concentration amplification applies.
type Violation struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Match    string `json:"match"`
	Context  string `json:"context"`
	Penalty  int    `json:"penalty"`
}

// RuleResult is the output of a single detector invocation.
type RuleResult struct {
	Violations  []Violation
	Advice      []string
	CountDeltas map[string]int
}

// State accumulates merged detector output across a forward pass.
// Merge returns a new value; the receiver is never mutated.
type State struct {
	Violations []Violation
	Advice     []string
	Counts     map[string]int
}

// CountKeys lists the canonical per-detector counters in report order.
var CountKeys = []string{
	"slop_words",
	"slop_phrases",
	"structural",
	"tone",
	"weasel",
	"ai_disclosure",
	"placeholder",
	"rhythm",
	"em_dash",
	"contrast_pairs",
	"colon_density",
	"pithy_fragment",
	"setup_resolution",
	"bullet_density",
	"blockquote_density",
	"bold_bullet_list",
	"horizontal_rules",
	"phrase_reuse",
	"extreme_sentence",
	"copula_chain",
	"closing_aphorism",
	"paragraph_balance",
	"paragraph_cv",
}

// InitialState constructs an empty state with canonical counters at zero.
func InitialState() State {
	counts := make(map[string]int, len(CountKeys))
	for _, key := range CountKeys {
		counts[key] = 0
	}
	return State{Counts: counts}
}

// Merge folds one detector result into a new state instance.
func (s State) Merge(result RuleResult) State {
	counts := make(map[string]int, len(s.Counts))
	for k, v := range s.Counts {
		counts[k] = v
	}
	for key, delta := range result.CountDeltas {
		if delta == 0 {
			continue
		}
		// Counter totals never go negative.
		if v := counts[key] + delta; v > 0 {
			counts[key] = v
		} else {
			counts[key] = 0
		}
	}

	violations := make([]Violation, 0, len(s.Violations)+len(result.Violations))
	violations = append(violations, s.Violations...)
	violations = append(violations, result.Violations...)

	advice := make([]string, 0, len(s.Advice)+len(result.Advice))
	advice = append(advice, s.Advice...)
	advice = append(advice, result.Advice...)

	return State{Violations: violations, Advice: advice, Counts: counts}
}

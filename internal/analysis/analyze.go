package analysis

import "github.com/slopguard/slopguard/internal/config"

// Forwarder runs every configured detector over a document and returns
// the accumulated state. Implemented by the rules pipeline.
type Forwarder interface {
	Forward(doc *Document) State
}

// Report is the full analysis result returned by tools and the CLI.
type Report struct {
	Score        int            `json:"score"`
	Band         string         `json:"band"`
	WordCount    int            `json:"word_count"`
	Violations   []Violation    `json:"violations"`
	Counts       map[string]int `json:"counts"`
	TotalPenalty int            `json:"total_penalty"`
	WeightedSum  float64        `json:"weighted_sum"`
	Density      float64        `json:"density"`
	Advice       []string       `json:"advice"`
	Source       string         `json:"source,omitempty"`
}

// Analyze scores one text blob with the given forwarder. Texts below
// the short-text word count are not analyzed and score clean.
func Analyze(text string, hp *config.Hyperparameters, f Forwarder) Report {
	doc := FromText(text)
	if doc.WordCount < hp.ShortTextWordCount {
		return shortTextReport(doc.WordCount)
	}

	state := f.Forward(doc)

	totalPenalty := 0
	for _, v := range state.Violations {
		totalPenalty += v.Penalty
	}

	ws := WeightedSum(state.Violations, state.Counts, hp)
	density := Density(ws, doc.WordCount, hp)
	score := ScoreFromDensity(density, hp)

	violations := state.Violations
	if violations == nil {
		violations = []Violation{}
	}

	return Report{
		Score:        score,
		Band:         BandForScore(score, hp),
		WordCount:    doc.WordCount,
		Violations:   violations,
		Counts:       state.Counts,
		TotalPenalty: totalPenalty,
		WeightedSum:  ws,
		Density:      density,
		Advice:       DeduplicateAdvice(state.Advice),
	}
}

func shortTextReport(wordCount int) Report {
	return Report{
		Score:      ScoreMax,
		Band:       "clean",
		WordCount:  wordCount,
		Violations: []Violation{},
		Counts:     InitialState().Counts,
		Advice:     []string{},
	}
}

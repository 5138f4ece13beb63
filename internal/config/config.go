package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hyperparameters holds every tunable knob of the analysis: detector
// thresholds, per-violation penalties, and the document-level scoring
// constants. A zero value is not usable; start from Default.
type Hyperparameters struct {
	// Document-level scoring.
	ConcentrationAlpha float64  `yaml:"concentration_alpha"`
	DecayLambda        float64  `yaml:"decay_lambda"`
	ConcentrationKeys  []string `yaml:"concentration_keys"`
	ContextWindowChars int      `yaml:"context_window_chars"`
	ShortTextWordCount int      `yaml:"short_text_word_count"`
	DensityWordsBasis  float64  `yaml:"density_words_basis"`
	BandCleanMin       int      `yaml:"band_clean_min"`
	BandLightMin       int      `yaml:"band_light_min"`
	BandModerateMin    int      `yaml:"band_moderate_min"`
	BandHeavyMin       int      `yaml:"band_heavy_min"`

	// Repeated n-gram search bounds shared by phrase-level detectors.
	RepeatedNgramMinN     int `yaml:"repeated_ngram_min_n"`
	RepeatedNgramMaxN     int `yaml:"repeated_ngram_max_n"`
	RepeatedNgramMinCount int `yaml:"repeated_ngram_min_count"`

	// Lexical detectors.
	SlopWordPenalty       int `yaml:"slop_word_penalty"`
	SlopPhrasePenalty     int `yaml:"slop_phrase_penalty"`
	TonePenalty           int `yaml:"tone_penalty"`
	SentenceOpenerPenalty int `yaml:"sentence_opener_penalty"`
	WeaselPenalty         int `yaml:"weasel_penalty"`
	AIDisclosurePenalty   int `yaml:"ai_disclosure_penalty"`
	PlaceholderPenalty    int `yaml:"placeholder_penalty"`

	// Structural detectors.
	StructuralBoldHeaderMin int     `yaml:"structural_bold_header_min"`
	StructuralBoldPenalty   int     `yaml:"structural_bold_penalty"`
	StructuralBulletRunMin  int     `yaml:"structural_bullet_run_min"`
	StructuralBulletPenalty int     `yaml:"structural_bullet_penalty"`
	TriadicRecordCap        int     `yaml:"triadic_record_cap"`
	TriadicPenalty          int     `yaml:"triadic_penalty"`
	TriadicAdviceMin        int     `yaml:"triadic_advice_min"`
	BulletDensityThreshold  float64 `yaml:"bullet_density_threshold"`
	BulletDensityPenalty    int     `yaml:"bullet_density_penalty"`
	BlockquoteMinLines      int     `yaml:"blockquote_min_lines"`
	BlockquoteFreeLines     int     `yaml:"blockquote_free_lines"`
	BlockquoteCap           int     `yaml:"blockquote_cap"`
	BlockquotePenaltyStep   int     `yaml:"blockquote_penalty_step"`
	BoldBulletRunMin        int     `yaml:"bold_bullet_run_min"`
	BoldBulletPenalty       int     `yaml:"bold_bullet_penalty"`
	HorizontalRuleMin       int     `yaml:"horizontal_rule_min"`
	HorizontalRulePenalty   int     `yaml:"horizontal_rule_penalty"`

	// Rhythm and punctuation detectors.
	RhythmMinSentences int     `yaml:"rhythm_min_sentences"`
	RhythmCVThreshold  float64 `yaml:"rhythm_cv_threshold"`
	RhythmPenalty      int     `yaml:"rhythm_penalty"`
	EmDashWordsBasis   float64 `yaml:"em_dash_words_basis"`
	EmDashThreshold    float64 `yaml:"em_dash_threshold"`
	EmDashPenalty      int     `yaml:"em_dash_penalty"`
	ColonWordsBasis    float64 `yaml:"colon_words_basis"`
	ColonThreshold     float64 `yaml:"colon_threshold"`
	ColonPenalty       int     `yaml:"colon_penalty"`

	// Pattern detectors.
	ContrastRecordCap      int `yaml:"contrast_record_cap"`
	ContrastPenalty        int `yaml:"contrast_penalty"`
	ContrastAdviceMin      int `yaml:"contrast_advice_min"`
	SetupResolutionCap     int `yaml:"setup_resolution_record_cap"`
	SetupResolutionPenalty int `yaml:"setup_resolution_penalty"`
	PithyMaxSentenceWords  int `yaml:"pithy_max_sentence_words"`
	PithyRecordCap         int `yaml:"pithy_record_cap"`
	PithyPenalty           int `yaml:"pithy_penalty"`
	PhraseReuseRecordCap   int `yaml:"phrase_reuse_record_cap"`
	PhraseReusePenalty     int `yaml:"phrase_reuse_penalty"`

	// Sentence- and paragraph-shape detectors.
	ExtremeSentenceMinWords   int     `yaml:"extreme_sentence_min_words"`
	ExtremeSentencePenalty    int     `yaml:"extreme_sentence_penalty"`
	CopulaChainMinSentences   int     `yaml:"copula_chain_min_sentences"`
	CopulaChainThreshold      float64 `yaml:"copula_chain_threshold"`
	CopulaChainPenalty        int     `yaml:"copula_chain_penalty"`
	ClosingAphorismMinSents   int     `yaml:"closing_aphorism_min_sentences"`
	ClosingAphorismPenalty    int     `yaml:"closing_aphorism_penalty"`
	ParagraphBalanceMinBody   int     `yaml:"paragraph_balance_min_body"`
	ParagraphBalanceThreshold float64 `yaml:"paragraph_balance_threshold"`
	ParagraphBalancePenalty   int     `yaml:"paragraph_balance_penalty"`
	ParagraphCVMinParagraphs  int     `yaml:"paragraph_cv_min_paragraphs"`
	ParagraphCVThreshold      float64 `yaml:"paragraph_cv_threshold"`
	ParagraphCVPenalty        int     `yaml:"paragraph_cv_penalty"`
}

// Default returns the hyperparameters the analysis ships with.
func Default() *Hyperparameters {
	return &Hyperparameters{
		ConcentrationAlpha: 2.5,
		DecayLambda:        0.04,
		ConcentrationKeys:  []string{"contrast_pairs", "pithy_fragment", "setup_resolution"},
		ContextWindowChars: 60,
		ShortTextWordCount: 10,
		DensityWordsBasis:  1000,
		BandCleanMin:       80,
		BandLightMin:       60,
		BandModerateMin:    40,
		BandHeavyMin:       20,

		RepeatedNgramMinN:     4,
		RepeatedNgramMaxN:     8,
		RepeatedNgramMinCount: 3,

		SlopWordPenalty:       -2,
		SlopPhrasePenalty:     -3,
		TonePenalty:           -3,
		SentenceOpenerPenalty: -2,
		WeaselPenalty:         -2,
		AIDisclosurePenalty:   -10,
		PlaceholderPenalty:    -5,

		StructuralBoldHeaderMin: 3,
		StructuralBoldPenalty:   -5,
		StructuralBulletRunMin:  6,
		StructuralBulletPenalty: -3,
		TriadicRecordCap:        5,
		TriadicPenalty:          -1,
		TriadicAdviceMin:        3,
		BulletDensityThreshold:  0.40,
		BulletDensityPenalty:    -8,
		BlockquoteMinLines:      3,
		BlockquoteFreeLines:     2,
		BlockquoteCap:           4,
		BlockquotePenaltyStep:   -3,
		BoldBulletRunMin:        3,
		BoldBulletPenalty:       -5,
		HorizontalRuleMin:       4,
		HorizontalRulePenalty:   -3,

		RhythmMinSentences: 5,
		RhythmCVThreshold:  0.3,
		RhythmPenalty:      -5,
		EmDashWordsBasis:   150,
		EmDashThreshold:    1.0,
		EmDashPenalty:      -3,
		ColonWordsBasis:    150,
		ColonThreshold:     1.5,
		ColonPenalty:       -3,

		ContrastRecordCap:      5,
		ContrastPenalty:        -1,
		ContrastAdviceMin:      2,
		SetupResolutionCap:     5,
		SetupResolutionPenalty: -3,
		PithyMaxSentenceWords:  6,
		PithyRecordCap:         3,
		PithyPenalty:           -2,
		PhraseReuseRecordCap:   5,
		PhraseReusePenalty:     -1,

		ExtremeSentenceMinWords:   75,
		ExtremeSentencePenalty:    -4,
		CopulaChainMinSentences:   6,
		CopulaChainThreshold:      0.5,
		CopulaChainPenalty:        -4,
		ClosingAphorismMinSents:   3,
		ClosingAphorismPenalty:    -2,
		ParagraphBalanceMinBody:   3,
		ParagraphBalanceThreshold: 0.6,
		ParagraphBalancePenalty:   -3,
		ParagraphCVMinParagraphs:  4,
		ParagraphCVThreshold:      0.25,
		ParagraphCVPenalty:        -3,
	}
}

// Load reads hyperparameters from a YAML file.
// Missing fields keep their defaults.
func Load(path string) (*Hyperparameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hyperparameters %s: %w", path, err)
	}

	hp := Default()
	if err := yaml.Unmarshal(data, hp); err != nil {
		return nil, fmt.Errorf("parsing hyperparameters %s: %w", path, err)
	}

	if err := hp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hyperparameters %s: %w", path, err)
	}
	return hp, nil
}

// Validate rejects values the scoring math cannot work with.
func (h *Hyperparameters) Validate() error {
	if h.DecayLambda <= 0 {
		return fmt.Errorf("decay_lambda must be positive, got %g", h.DecayLambda)
	}
	if h.DensityWordsBasis <= 0 {
		return fmt.Errorf("density_words_basis must be positive, got %g", h.DensityWordsBasis)
	}
	if h.ConcentrationAlpha < 0 {
		return fmt.Errorf("concentration_alpha must not be negative, got %g", h.ConcentrationAlpha)
	}
	if h.RepeatedNgramMinN < 1 || h.RepeatedNgramMaxN < h.RepeatedNgramMinN {
		return fmt.Errorf("repeated n-gram bounds are inverted: min %d, max %d",
			h.RepeatedNgramMinN, h.RepeatedNgramMaxN)
	}
	if !(h.BandCleanMin > h.BandLightMin && h.BandLightMin > h.BandModerateMin &&
		h.BandModerateMin > h.BandHeavyMin && h.BandHeavyMin > 0) {
		return fmt.Errorf("score bands must be strictly decreasing: %d/%d/%d/%d",
			h.BandCleanMin, h.BandLightMin, h.BandModerateMin, h.BandHeavyMin)
	}
	return nil
}

// IsConcentrationKey reports whether the named counter participates in
// concentration amplification.
func (h *Hyperparameters) IsConcentrationKey(key string) bool {
	for _, k := range h.ConcentrationKeys {
		if k == key {
			return true
		}
	}
	return false
}

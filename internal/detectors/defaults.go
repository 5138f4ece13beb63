package detectors

import (
	"bytes"
	"encoding/json"

	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/rules"
)

func decodeStrict[T any](raw json.RawMessage, out *T) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func entry[C any](newDetector func(hp *config.Hyperparameters) rules.Detector, fromConfig func(cfg C) rules.Detector) rules.Entry {
	return rules.Entry{
		New: newDetector,
		Decode: func(raw json.RawMessage) (rules.Detector, error) {
			var cfg C
			if err := decodeStrict(raw, &cfg); err != nil {
				return nil, err
			}
			return fromConfig(cfg), nil
		},
	}
}

// DefaultRegistry returns the built-in detector kinds in canonical
// pipeline order.
func DefaultRegistry() *rules.Registry {
	r := rules.NewRegistry()
	r.Register("slop_word", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewSlopWord(hp) },
		func(cfg SlopWordConfig) rules.Detector { return &SlopWord{cfg: cfg} }))
	r.Register("slop_phrase", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewSlopPhrase(hp) },
		func(cfg SlopPhraseConfig) rules.Detector { return &SlopPhrase{cfg: cfg} }))
	r.Register("tone", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewTone(hp) },
		func(cfg ToneConfig) rules.Detector { return &Tone{cfg: cfg} }))
	r.Register("weasel", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewWeasel(hp) },
		func(cfg WeaselConfig) rules.Detector { return &Weasel{cfg: cfg} }))
	r.Register("ai_disclosure", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewAIDisclosure(hp) },
		func(cfg AIDisclosureConfig) rules.Detector { return &AIDisclosure{cfg: cfg} }))
	r.Register("placeholder", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewPlaceholder(hp) },
		func(cfg PlaceholderConfig) rules.Detector { return &Placeholder{cfg: cfg} }))
	r.Register("contrast_pair", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewContrastPair(hp) },
		func(cfg ContrastPairConfig) rules.Detector { return &ContrastPair{cfg: cfg} }))
	r.Register("setup_resolution", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewSetupResolution(hp) },
		func(cfg SetupResolutionConfig) rules.Detector { return &SetupResolution{cfg: cfg} }))
	r.Register("pithy_fragment", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewPithyFragment(hp) },
		func(cfg PithyFragmentConfig) rules.Detector { return &PithyFragment{cfg: cfg} }))
	r.Register("structural", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewStructural(hp) },
		func(cfg StructuralConfig) rules.Detector { return &Structural{cfg: cfg} }))
	r.Register("bullet_density", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewBulletDensity(hp) },
		func(cfg BulletDensityConfig) rules.Detector { return &BulletDensity{cfg: cfg} }))
	r.Register("blockquote_density", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewBlockquoteDensity(hp) },
		func(cfg BlockquoteDensityConfig) rules.Detector { return &BlockquoteDensity{cfg: cfg} }))
	r.Register("bold_bullet_run", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewBoldBulletRun(hp) },
		func(cfg BoldBulletRunConfig) rules.Detector { return &BoldBulletRun{cfg: cfg} }))
	r.Register("horizontal_rules", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewHorizontalRules(hp) },
		func(cfg HorizontalRulesConfig) rules.Detector { return &HorizontalRules{cfg: cfg} }))
	r.Register("rhythm", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewRhythm(hp) },
		func(cfg RhythmConfig) rules.Detector { return &Rhythm{cfg: cfg} }))
	r.Register("em_dash", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewEmDash(hp) },
		func(cfg EmDashConfig) rules.Detector { return &EmDash{cfg: cfg} }))
	r.Register("colon_density", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewColonDensity(hp) },
		func(cfg ColonDensityConfig) rules.Detector { return &ColonDensity{cfg: cfg} }))
	r.Register("phrase_reuse", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewPhraseReuse(hp) },
		func(cfg PhraseReuseConfig) rules.Detector { return &PhraseReuse{cfg: cfg} }))
	r.Register("extreme_sentence", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewExtremeSentence(hp) },
		func(cfg ExtremeSentenceConfig) rules.Detector { return &ExtremeSentence{cfg: cfg} }))
	r.Register("copula_chain", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewCopulaChain(hp) },
		func(cfg CopulaChainConfig) rules.Detector { return &CopulaChain{cfg: cfg} }))
	r.Register("closing_aphorism", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewClosingAphorism(hp) },
		func(cfg ClosingAphorismConfig) rules.Detector { return &ClosingAphorism{cfg: cfg} }))
	r.Register("paragraph_balance", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewParagraphBalance(hp) },
		func(cfg ParagraphBalanceConfig) rules.Detector { return &ParagraphBalance{cfg: cfg} }))
	r.Register("paragraph_cv", entry(
		func(hp *config.Hyperparameters) rules.Detector { return NewParagraphCV(hp) },
		func(cfg ParagraphCVConfig) rules.Detector { return &ParagraphCV{cfg: cfg} }))
	return r
}

// DefaultPipeline builds the canonical pipeline from hyperparameters.
func DefaultPipeline(hp *config.Hyperparameters) *rules.Pipeline {
	return rules.NewPipeline(DefaultRegistry(), hp)
}

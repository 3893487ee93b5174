package core

// LanguageTag is an ISO 639-1 language code, e.g. "en" or "es".
type LanguageTag string

// Stage identifies how far a query made it through the pipeline.
type Stage int

const (
	StageStart Stage = iota
	StageNormalized
	StageFAQChecked
	StageRetrieved
	StageSynthesized
	StageFallback
	StageDenormalized
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageNormalized:
		return "normalized"
	case StageFAQChecked:
		return "faq_checked"
	case StageRetrieved:
		return "retrieved"
	case StageSynthesized:
		return "synthesized"
	case StageFallback:
		return "fallback"
	case StageDenormalized:
		return "denormalized"
	default:
		return "unknown"
	}
}

// QueryContext carries the per-request state of one pipeline invocation. It
// is created at entry, never persisted, and never shared across requests.
type QueryContext struct {
	OriginalText     string
	DetectedLanguage LanguageTag
	// DetectionAdvisory is set when language detection was unreliable and the
	// canonical language was assumed, so that path is observable rather than
	// indistinguishable from a genuine canonical-language query.
	DetectionAdvisory bool
	CanonicalText     string
	Stage             Stage
}

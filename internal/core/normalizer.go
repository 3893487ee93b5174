package core

import (
	"context"
	"fmt"

	"github.com/abadojack/whatlanggo"
)

// Normalizer detects a query's language and translates it to the canonical
// language for matching and retrieval, then reverses the transform on the
// final answer. Detection is advisory: when the detector is unsure the query
// is assumed to already be canonical rather than failing the request.
type Normalizer struct {
	translator Translator
	canonical  LanguageTag

	// detect is swappable in tests; defaults to whatlanggo.
	detect func(text string) (LanguageTag, bool)
}

func NewNormalizer(translator Translator, canonical LanguageTag) *Normalizer {
	return &Normalizer{
		translator: translator,
		canonical:  canonical,
		detect:     detectLanguage,
	}
}

// detectLanguage returns the ISO 639-1 code of text and whether the detection
// is trustworthy.
func detectLanguage(text string) (LanguageTag, bool) {
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", false
	}
	return LanguageTag(code), info.IsReliable()
}

// Normalize returns the canonical form of query together with the detected
// language and an advisory flag marking an unreliable detection. It only
// returns an error when a genuinely needed translation fails.
func (n *Normalizer) Normalize(ctx context.Context, query string) (canonical string, lang LanguageTag, advisory bool, err error) {
	lang, reliable := n.detect(query)
	if !reliable {
		return query, n.canonical, true, nil
	}
	if lang == n.canonical {
		return query, lang, false, nil
	}

	translated, err := n.translator.Translate(ctx, query, n.canonical)
	if err != nil {
		return "", lang, false, fmt.Errorf("failed to translate query to %s: %w", n.canonical, err)
	}
	return translated, lang, false, nil
}

// Denormalize translates text back into lang. It is the identity when the
// original language was canonical, avoiding a needless translation round
// trip.
func (n *Normalizer) Denormalize(ctx context.Context, text string, lang LanguageTag) (string, error) {
	if lang == n.canonical {
		return text, nil
	}
	translated, err := n.translator.Translate(ctx, text, lang)
	if err != nil {
		return "", fmt.Errorf("failed to translate answer to %s: %w", lang, err)
	}
	return translated, nil
}

// Canonical returns the pipeline's internal language.
func (n *Normalizer) Canonical() LanguageTag { return n.canonical }

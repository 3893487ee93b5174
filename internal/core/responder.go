package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// FallbackAnswer is the fixed, context-free response returned when neither
// the FAQ set nor the corpus can ground an answer.
const FallbackAnswer = "Sorry, I don't have that information. Contact support@company.com."

// Responder sequences the pipeline stages into one deterministic flow with
// short-circuit and fallback semantics. It is the immutable pipeline context:
// constructed once at startup and shared by all requests.
type Responder struct {
	normalizer  *Normalizer
	faq         *FAQMatcher
	retriever   *Retriever
	synthesizer *Synthesizer
	history     HistoryRecorder
}

func NewResponder(normalizer *Normalizer, faq *FAQMatcher, retriever *Retriever, synthesizer *Synthesizer, history HistoryRecorder) *Responder {
	return &Responder{
		normalizer:  normalizer,
		faq:         faq,
		retriever:   retriever,
		synthesizer: synthesizer,
		history:     history,
	}
}

// Respond runs the full pipeline for one query and always returns an answer
// string, never an error: every external-capability failure is absorbed into
// the static fallback. userID is an opaque correlation token forwarded to the
// history recorder.
func (r *Responder) Respond(ctx context.Context, userID int64, rawQuery string) string {
	qc := &QueryContext{OriginalText: rawQuery, Stage: StageStart}

	canonical, lang, advisory, err := r.normalizer.Normalize(ctx, rawQuery)
	qc.DetectedLanguage = lang
	qc.DetectionAdvisory = advisory
	if err != nil {
		log.Error().Err(err).Msg("Query normalization failed, serving fallback")
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}
	qc.CanonicalText = canonical
	qc.Stage = StageNormalized

	answer, matched, err := r.faq.Match(ctx, canonical)
	if err != nil {
		log.Error().Err(err).Msg("FAQ matching failed, serving fallback")
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}
	qc.Stage = StageFAQChecked
	if matched {
		return r.finish(ctx, qc, userID, answer)
	}

	grounding, err := r.retriever.Retrieve(ctx, canonical)
	if err != nil {
		log.Error().Err(err).Msg("Retrieval failed, serving fallback")
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}
	qc.Stage = StageRetrieved
	if grounding == "" {
		log.Debug().Msg("No grounding context, serving fallback")
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}

	answer, err = r.synthesizer.Synthesize(ctx, grounding, canonical)
	if err != nil {
		log.Error().Err(err).Msg("Answer synthesis failed, serving fallback")
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}
	if answer == "" {
		qc.Stage = StageFallback
		return r.finish(ctx, qc, userID, FallbackAnswer)
	}
	qc.Stage = StageSynthesized
	return r.finish(ctx, qc, userID, answer)
}

// finish denormalizes the produced answer into the query's language, records
// the exchange, and returns the final text. A failed reverse translation
// degrades to the canonical-language answer rather than failing the request.
func (r *Responder) finish(ctx context.Context, qc *QueryContext, userID int64, answer string) string {
	final, err := r.normalizer.Denormalize(ctx, answer, qc.DetectedLanguage)
	if err != nil {
		log.Error().Err(err).Str("language", string(qc.DetectedLanguage)).Msg("Reverse translation failed, returning canonical answer")
		final = answer
	}
	stage := qc.Stage
	qc.Stage = StageDenormalized

	log.Info().
		Stringer("reached", stage).
		Str("language", string(qc.DetectedLanguage)).
		Bool("detection_advisory", qc.DetectionAdvisory).
		Msg("Query answered")

	if r.history != nil {
		go r.recordExchange(userID, qc.OriginalText, final)
	}
	return final
}

// recordExchange is a pure notification: its failure is logged and never
// blocks or fails the response.
func (r *Responder) recordExchange(userID int64, message, response string) {
	// Detached from the request context on purpose; the caller has already
	// been answered.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.history.RecordExchange(ctx, userID, message, response); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record chat history")
	}
}

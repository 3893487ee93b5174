// Package core implements the query-response pipeline: language
// normalization, FAQ matching, vector retrieval, answer synthesis and the
// orchestration tying them together. Everything here is built once at startup
// and read-only afterwards, so one Responder serves concurrent requests.
package core

import "context"

// Embedder encodes text into the shared embedding space. Implementations are
// external model capabilities; the core treats them as black boxes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a prompt with bounded output and deterministic
// decoding.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Translator translates text into the target language. Output is accepted
// as-is; a bad translation degrades answer quality without raising an error.
type Translator interface {
	Translate(ctx context.Context, text string, target LanguageTag) (string, error)
}

// VectorSearcher is the read-only nearest-neighbor index over corpus chunks.
// Search returns k distances and positions, padding short result sets with
// the no-neighbor sentinel; ChunkText maps a position back to passage text.
type VectorSearcher interface {
	Search(query []float32, k int) (distances []float32, positions []int)
	ChunkText(position int) (string, bool)
	Len() int
}

// HistoryRecorder durably records a completed exchange. Calls are
// fire-and-forget from the pipeline's point of view.
type HistoryRecorder interface {
	RecordExchange(ctx context.Context, userID int64, message, response string) error
}

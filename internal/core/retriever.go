package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Retriever performs vector-similarity retrieval over the corpus index.
// It retrieves topK passages but only the first contextChunks of them form
// the grounding context, leaving room for re-ranking without re-querying.
type Retriever struct {
	embedder      Embedder
	index         VectorSearcher
	topK          int
	contextChunks int
}

func NewRetriever(embedder Embedder, index VectorSearcher, topK, contextChunks int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	if contextChunks <= 0 || contextChunks > topK {
		contextChunks = 2
	}
	return &Retriever{
		embedder:      embedder,
		index:         index,
		topK:          topK,
		contextChunks: contextChunks,
	}
}

// Retrieve returns the grounding context for canonicalQuery: the nearest
// passages space-joined, capped to the context budget. An empty string means
// no grounding is available and the caller should fall back.
func (r *Retriever) Retrieve(ctx context.Context, canonicalQuery string) (string, error) {
	if r.index.Len() == 0 {
		return "", nil
	}

	queryEmbedding, err := r.embedder.Embed(ctx, canonicalQuery)
	if err != nil {
		return "", fmt.Errorf("failed to embed query for retrieval: %w", err)
	}

	_, positions := r.index.Search(queryEmbedding, r.topK)

	passages := make([]string, 0, len(positions))
	for _, pos := range positions {
		// Sentinel positions pad short result sets and must never be
		// dereferenced.
		if pos < 0 {
			continue
		}
		text, ok := r.index.ChunkText(pos)
		if !ok {
			log.Warn().Int("position", pos).Msg("Neighbor position has no chunk text")
			continue
		}
		passages = append(passages, text)
	}
	if len(passages) == 0 {
		return "", nil
	}

	if len(passages) > r.contextChunks {
		passages = passages[:r.contextChunks]
	}
	log.Debug().Int("passages", len(passages)).Msg("Built grounding context")
	return strings.Join(passages, " "), nil
}

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Vanshika218/customer-support-bot/internal/core"
	"github.com/Vanshika218/customer-support-bot/internal/index"
)

// embedBatchSize keeps embedding requests under the provider batch limits.
const embedBatchSize = 64

// Builder assembles the vector index from corpus files.
type Builder struct {
	embedder core.Embedder
	splitter Splitter
}

func NewBuilder(embedder core.Embedder, splitter Splitter) *Builder {
	return &Builder{embedder: embedder, splitter: splitter}
}

// BuildFromDir reads every .txt file under dir in lexical order, splits each
// into chunks, embeds them and returns the populated index.
func (b *Builder) BuildFromDir(ctx context.Context, dir string) (*index.Flat, error) {
	files, err := listCorpusFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt files found in %s", dir)
	}

	var chunks []string
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
		}
		pieces, err := b.splitter.Split(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", path, err)
		}
		log.Info().Str("file", path).Int("chunks", len(pieces)).Msg("Split corpus file")
		chunks = append(chunks, pieces...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("corpus in %s produced no chunks", dir)
	}

	return b.buildIndex(ctx, chunks)
}

// BuildAndSave builds the index from dir and writes the artifact to path.
func (b *Builder) BuildAndSave(ctx context.Context, dir, path string) error {
	idx, err := b.BuildFromDir(ctx, dir)
	if err != nil {
		return err
	}
	if err := idx.Save(path); err != nil {
		return fmt.Errorf("failed to save index artifact: %w", err)
	}
	log.Info().Str("path", path).Int("vectors", idx.Len()).Int("dim", idx.Dim()).Msg("Index artifact written")
	return nil
}

func (b *Builder) buildIndex(ctx context.Context, chunks []string) (*index.Flat, error) {
	var idx *index.Flat
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := b.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		if idx == nil {
			idx, err = index.NewFlat(len(vectors[0]))
			if err != nil {
				return nil, fmt.Errorf("failed to create index: %w", err)
			}
		}
		for i, vec := range vectors {
			if err := idx.Add(vec, batch[i]); err != nil {
				return nil, fmt.Errorf("failed to add chunk %d to index: %w", start+i, err)
			}
		}
	}
	return idx, nil
}

func listCorpusFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

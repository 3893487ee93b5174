package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vanshika218/customer-support-bot/internal/config"
)

func newCharacterSplitter(t *testing.T, size, overlap int) Splitter {
	t.Helper()
	s, err := NewSplitter(config.SplitterConfig{Provider: "character", ChunkSize: size, ChunkOverlap: overlap})
	require.NoError(t, err)
	return s
}

func TestSplitterShortTextIsSingleChunk(t *testing.T) {
	s := newCharacterSplitter(t, 100, 10)

	chunks, err := s.Split("Our store opens at 9am.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Our store opens at 9am.", chunks[0])
}

func TestSplitterEmptyTextProducesNoChunks(t *testing.T) {
	s := newCharacterSplitter(t, 100, 10)

	chunks, err := s.Split("   \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitterRespectsChunkSize(t *testing.T) {
	s := newCharacterSplitter(t, 40, 0)

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "word%02d ", i)
	}

	chunks, err := s.Split(sb.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 40)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitterPrefersParagraphBoundaries(t *testing.T) {
	s := newCharacterSplitter(t, 30, 0)

	text := "First paragraph here.\n\nSecond paragraph here."
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph here.", chunks[0])
	assert.Equal(t, "Second paragraph here.", chunks[1])
}

func TestSplitterOverlapCarriesTailForward(t *testing.T) {
	s := newCharacterSplitter(t, 20, 8)

	chunks, err := s.Split("alpha bravo charlie delta echo foxtrot golf")
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first starts with text already seen at the end of
	// the previous one.
	for i := 1; i < len(chunks); i++ {
		head := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], head)
	}
}

func TestSplitterHardSplitsUnbrokenText(t *testing.T) {
	s := newCharacterSplitter(t, 10, 0)

	chunks, err := s.Split(strings.Repeat("x", 25))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0])
	assert.Equal(t, strings.Repeat("x", 5), chunks[2])
}

func TestNewSplitterRejectsUnknownProvider(t *testing.T) {
	_, err := NewSplitter(config.SplitterConfig{Provider: "sentence", ChunkSize: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown splitter provider")
}

type stubEmbedder struct {
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, _ := s.Embed(ctx, t)
		out[i] = vec
	}
	return out, nil
}

func TestBuilderIndexesCorpusInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_returns.txt"), []byte("Returns take 5 days."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_shipping.txt"), []byte("Shipping is free over $50."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	b := NewBuilder(&stubEmbedder{}, newCharacterSplitter(t, 100, 0))
	idx, err := b.BuildFromDir(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, 2, idx.Len())
	first, ok := idx.ChunkText(0)
	require.True(t, ok)
	assert.Equal(t, "Shipping is free over $50.", first)
	second, ok := idx.ChunkText(1)
	require.True(t, ok)
	assert.Equal(t, "Returns take 5 days.", second)
}

func TestBuilderEmptyCorpusFails(t *testing.T) {
	b := NewBuilder(&stubEmbedder{}, newCharacterSplitter(t, 100, 0))

	_, err := b.BuildFromDir(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestBuilderSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faq.txt"), []byte("We ship worldwide."), 0o644))

	path := filepath.Join(t.TempDir(), "index.bin")
	b := NewBuilder(&stubEmbedder{}, newCharacterSplitter(t, 100, 0))
	require.NoError(t, b.BuildAndSave(context.Background(), dir, path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

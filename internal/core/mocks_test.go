package core

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// mockEmbedder returns canned vectors per (case-folded) text, or a default
// vector for anything unknown.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func newMockEmbedder(vectors map[string][]float32) *mockEmbedder {
	// the fallback vector is orthogonal to the canned FAQ vectors so unknown
	// text never accidentally clears the similarity threshold
	return &mockEmbedder{vectors: vectors, fallback: []float32{0, 0.01, 0}}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[strings.ToLower(text)]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type mockGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastTokens int
	calls      int
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastTokens = maxTokens
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockTranslator prefixes text with the target language so tests can observe
// both direction and call count.
type mockTranslator struct {
	err   error
	calls int
}

func (m *mockTranslator) Translate(_ context.Context, text string, target LanguageTag) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return string(target) + ":" + text, nil
}

// mockIndex is a trivial VectorSearcher returning preset positions.
type mockIndex struct {
	chunks    []string
	positions []int
}

func (m *mockIndex) Len() int { return len(m.chunks) }

func (m *mockIndex) Search(_ []float32, k int) ([]float32, []int) {
	distances := make([]float32, k)
	positions := make([]int, k)
	for i := 0; i < k; i++ {
		if i < len(m.positions) {
			positions[i] = m.positions[i]
		} else {
			positions[i] = -1
		}
	}
	return distances, positions
}

func (m *mockIndex) ChunkText(pos int) (string, bool) {
	if pos < 0 || pos >= len(m.chunks) {
		return "", false
	}
	return m.chunks[pos], true
}

// mockRecorder synchronizes on a channel so tests can wait for the
// fire-and-forget write.
type mockRecorder struct {
	mu       sync.Mutex
	userIDs  []int64
	messages []string
	replies  []string
	fail     bool
	done     chan struct{}
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{done: make(chan struct{}, 8)}
}

func (m *mockRecorder) RecordExchange(_ context.Context, userID int64, message, response string) error {
	m.mu.Lock()
	m.userIDs = append(m.userIDs, userID)
	m.messages = append(m.messages, message)
	m.replies = append(m.replies, response)
	fail := m.fail
	m.mu.Unlock()
	m.done <- struct{}{}
	if fail {
		return errors.New("history store unavailable")
	}
	return nil
}

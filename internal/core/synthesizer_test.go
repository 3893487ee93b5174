package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizePromptConstrainsToContext(t *testing.T) {
	gen := &mockGenerator{response: "Shipping takes 3 days."}
	s := NewSynthesizer(gen, 128)

	answer, err := s.Synthesize(context.Background(), "We ship within 3 days.", "how long does shipping take")
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes 3 days.", answer)

	assert.Contains(t, gen.lastPrompt, "ONLY the context")
	assert.Contains(t, gen.lastPrompt, "We ship within 3 days.")
	assert.Contains(t, gen.lastPrompt, "how long does shipping take")
	assert.Contains(t, gen.lastPrompt, InsufficientInfoPhrase)
	assert.Equal(t, 128, gen.lastTokens)
}

func TestSynthesizeTrimsWhitespace(t *testing.T) {
	gen := &mockGenerator{response: "  answer \n"}
	s := NewSynthesizer(gen, 64)

	answer, err := s.Synthesize(context.Background(), "ctx", "q")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
}

func TestSynthesizeGenerationErrorPropagates(t *testing.T) {
	gen := &mockGenerator{err: assert.AnError}
	s := NewSynthesizer(gen, 64)

	_, err := s.Synthesize(context.Background(), "ctx", "q")
	assert.Error(t, err)
}

func TestSynthesizeDeterministicForSameInputs(t *testing.T) {
	gen := &mockGenerator{response: "same answer"}
	s := NewSynthesizer(gen, 64)

	first, err := s.Synthesize(context.Background(), "ctx", "q")
	require.NoError(t, err)
	second, err := s.Synthesize(context.Background(), "ctx", "q")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, gen.lastPrompt, buildAnswerPrompt("ctx", "q"))
}

package core

import (
	"context"
	"fmt"
	"strings"
)

// InsufficientInfoPhrase is the fixed phrase the generator is instructed to
// emit when the context does not contain the answer.
const InsufficientInfoPhrase = "Sorry, I don't have that information."

// Synthesizer turns retrieved context and the canonical query into a grounded
// natural-language answer via the generation capability. Decoding is bounded
// and deterministic, so identical inputs are expected to produce identical
// answers.
type Synthesizer struct {
	generator Generator
	maxTokens int
}

func NewSynthesizer(generator Generator, maxTokens int) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &Synthesizer{generator: generator, maxTokens: maxTokens}
}

// Synthesize answers canonicalQuery using only contextText. Generation
// failures propagate to the orchestrator; there are no retries here.
func (s *Synthesizer) Synthesize(ctx context.Context, contextText, canonicalQuery string) (string, error) {
	prompt := buildAnswerPrompt(contextText, canonicalQuery)
	answer, err := s.generator.Generate(ctx, prompt, s.maxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func buildAnswerPrompt(contextText, query string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful support agent.\n")
	sb.WriteString("Answer clearly using ONLY the context.\n")
	sb.WriteString(fmt.Sprintf("If not in context, say %q.\n\n", InsufficientInfoPhrase))
	sb.WriteString("Context:\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(query)
	sb.WriteString("\nAnswer:")
	return sb.String()
}

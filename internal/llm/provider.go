// Package llm provides the external model capabilities (embedding,
// generation, translation) behind the interfaces the pipeline consumes.
// The provider is selected by configuration.
package llm

import (
	"context"
	"fmt"

	"github.com/Vanshika218/customer-support-bot/internal/config"
	"github.com/Vanshika218/customer-support-bot/internal/core"
)

// Provider bundles the three model capabilities one backend offers.
type Provider interface {
	core.Embedder
	core.Generator
	core.Translator
	Close() error
}

// NewProvider constructs the configured backend.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Pipeline.ChatModel, cfg.Pipeline.EmbeddingModel)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Pipeline.ChatModel, cfg.Pipeline.EmbeddingModel)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// translationPrompt builds the instruction for prompt-based translation.
// Any output is accepted as-is, per the translation contract.
func translationPrompt(text string, target core.LanguageTag) string {
	return fmt.Sprintf(
		"Translate the following text into the language with ISO 639-1 code %q. "+
			"Reply with the translation only, nothing else.\n\n%s",
		string(target), text)
}

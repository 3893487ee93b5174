package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vanshika218/customer-support-bot/internal/core"
)

const defaultOpenAIChatModel = openai.GPT3Dot5Turbo

// An exact zero is dropped from the request body by the client's omitempty
// tag, which would fall back to the server's sampling default. The smallest
// nonzero float is the client's convention for an effective zero.
const deterministicTemperature float32 = math.SmallestNonzeroFloat32

// openAIEmbeddingModels maps configured model names onto the client's
// embedding-model enum.
var openAIEmbeddingModels = map[string]openai.EmbeddingModel{
	"text-embedding-ada-002": openai.AdaEmbeddingV2,
}

// OpenAIProvider implements the model capabilities on the OpenAI API.
type OpenAIProvider struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
}

func NewOpenAIProvider(apiKey, chatModel, embeddingModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}
	if chatModel == "" {
		chatModel = defaultOpenAIChatModel
	}
	em := openai.AdaEmbeddingV2
	if embeddingModel != "" {
		var ok bool
		em, ok = openAIEmbeddingModels[embeddingModel]
		if !ok {
			return nil, fmt.Errorf("unsupported openai embedding model %q", embeddingModel)
		}
	}
	return &OpenAIProvider{
		client:         openai.NewClient(apiKey),
		chatModel:      chatModel,
		embeddingModel: em,
	}, nil
}

func (p *OpenAIProvider) Close() error { return nil }

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return p.complete(ctx, prompt, maxTokens)
}

func (p *OpenAIProvider) Translate(ctx context.Context, text string, target core.LanguageTag) (string, error) {
	return p.complete(ctx, translationPrompt(text, target), 0)
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, newChatRequest(p.chatModel, prompt, maxTokens))
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response had no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func newChatRequest(model, prompt string, maxTokens int) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: deterministicTemperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}
	return req
}

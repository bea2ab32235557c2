package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"clarity/internal/config"
)

// ErrEmptyAnswer is returned when the model replies without any content.
var ErrEmptyAnswer = errors.New("empty answer from model")

// Backend is a text-completion capability. Implementations must honour ctx cancellation.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIConfig describes an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIBackend talks to any OpenAI-compatible chat completion API
// (Gemini's compatibility endpoint, OpenAI itself, or Ollama's /v1).
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

var _ Backend = (*OpenAIBackend)(nil)

// NewOpenAIBackend creates a backend for cfg.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Complete sends prompt as a single user message and returns the first choice.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	return resp.Choices[0].Message.Content, nil
}

// BackendFor builds the backend selected by cfg. It returns nil when no
// credential or host is configured, which disables suggestions.
func BackendFor(cfg *config.Config) Backend {
	if !cfg.CategorizerConfigured() {
		return nil
	}
	if cfg.CategorizerProvider == config.ProviderOllama {
		return NewOpenAIBackend(OpenAIConfig{
			APIKey:  "ollama",
			BaseURL: cfg.OllamaURL + "/v1",
			Model:   cfg.CategorizerModel,
		})
	}
	return NewOpenAIBackend(OpenAIConfig{
		APIKey:  cfg.CategorizerAPIKey,
		BaseURL: cfg.CategorizerBaseURL,
		Model:   cfg.CategorizerModel,
	})
}

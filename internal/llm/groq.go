package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/prompts"
)

// GroqProvider generates captions through Groq's OpenAI-compatible chat API.
type GroqProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGroqProvider creates a Groq provider. A provider without an API key is
// still returned; Caption reports a ConfigError.
func NewGroqProvider(cfg config.ProviderConfig) *GroqProvider {
	p := &GroqProvider{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	if !cfg.HasAPIKey() {
		return p
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	p.client = openai.NewClientWithConfig(clientCfg)
	return p
}

// Name returns domain.ProviderGroq.
func (p *GroqProvider) Name() domain.Provider {
	return domain.ProviderGroq
}

// Caption asks the model for a caption. An empty completion yields "".
func (p *GroqProvider) Caption(ctx context.Context, topic string) (string, error) {
	if p.client == nil {
		return "", &ConfigError{Provider: domain.ProviderGroq, Message: groqKeyMissing}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompts.CaptionPrompt(topic)},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

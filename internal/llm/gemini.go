package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/prompts"
)

// GeminiProvider generates captions through the Gemini generateContent API.
type GeminiProvider struct {
	client      *resty.Client
	apiKey      string
	endpoint    string
	temperature float32
	maxTokens   int
}

// Gemini generateContent request/response structures
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiProvider creates a Gemini provider.
// Parameters:
//   - cfg: provider configuration; an empty APIKey defers failure to Caption.
//
// Returns:
//   - *GeminiProvider: initialized client wrapper.
func NewGeminiProvider(cfg config.ProviderConfig) *GeminiProvider {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model)

	return &GeminiProvider{
		client:      client,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Name returns domain.ProviderGemini.
func (p *GeminiProvider) Name() domain.Provider {
	return domain.ProviderGemini
}

// Caption asks Gemini for a caption and joins the text parts of the first
// candidate. A response without candidates yields "".
func (p *GeminiProvider) Caption(ctx context.Context, topic string) (string, error) {
	if p.apiKey == "" {
		return "", &ConfigError{Provider: domain.ProviderGemini, Message: geminiKeyMissing}
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompts.CaptionPrompt(topic)}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	}

	var resp geminiResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if httpResp.IsError() {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", fmt.Errorf("Gemini API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("Gemini API returned error: HTTP %d", httpResp.StatusCode())
	}

	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

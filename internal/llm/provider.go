// Package llm implements the caption providers behind the meme generator.
package llm

import (
	"context"
	"fmt"

	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/domain"
)

// CaptionProvider produces a raw, unsanitized caption for a topic.
type CaptionProvider interface {
	Name() domain.Provider
	Caption(ctx context.Context, topic string) (string, error)
}

// ConfigError reports a provider that cannot run because of local
// configuration, typically a missing API key. No network call is made.
type ConfigError struct {
	Provider domain.Provider
	Message  string
}

func (e *ConfigError) Error() string {
	return e.Message
}

const (
	groqKeyMissing   = "Groq API key missing. Provide provider=gemini or configure GROQ_API_KEY."
	geminiKeyMissing = "Missing GEMINI_API_KEY / GOOGLE_API_KEY"
)

// NewProvider builds the provider named in cfg.
func NewProvider(cfg config.ProviderConfig) (CaptionProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch domain.Provider(cfg.Name) {
	case domain.ProviderGroq:
		return NewGroqProvider(cfg), nil
	case domain.ProviderGemini:
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported caption provider: %s", cfg.Name)
	}
}

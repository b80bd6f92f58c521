package config

import (
	"fmt"
	"strings"
	"time"
)

// ProviderConfig defines configuration for a single caption provider.
type ProviderConfig struct {
	Name        string        `mapstructure:"name"`        // Provider identifier: "groq", "gemini"
	Model       string        `mapstructure:"model"`       // Model name/ID
	APIKey      string        `mapstructure:"api_key"`     // API key, usually bound from the environment
	BaseURL     string        `mapstructure:"base_url"`    // API root, without the operation path
	Temperature float32       `mapstructure:"temperature"` // Sampling temperature
	MaxTokens   int           `mapstructure:"max_tokens"`  // Completion budget
	Timeout     time.Duration `mapstructure:"timeout"`     // Per-call timeout
}

// HasAPIKey reports whether a credential is configured.
// A missing key is a request-time error, not a startup failure.
func (c *ProviderConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Validate checks the non-secret fields of the provider configuration.
// Returns an error describing the first validation failure, or nil if valid.
func (c *ProviderConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("provider config: name is required")
	}

	switch c.Name {
	case "groq", "gemini":
		// Valid providers
	default:
		return fmt.Errorf("provider %q: unknown provider", c.Name)
	}

	if c.Model == "" {
		return fmt.Errorf("provider %q: model is required", c.Name)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("provider %q: base_url is required", c.Name)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("provider %q: max_tokens must be positive", c.Name)
	}
	return nil
}

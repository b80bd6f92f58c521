package llm

import (
	"fmt"
	"sync"

	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/logger"
)

// Registry holds the configured caption providers by name.
type Registry struct {
	providers map[domain.Provider]CaptionProvider
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[domain.Provider]CaptionProvider)}
}

// NewRegistryFromConfig registers every provider in cfg.
// Providers without an API key are still registered so that requests get a
// ConfigError naming the missing key instead of an unknown-provider error.
func NewRegistryFromConfig(cfg *config.ProvidersConfig) (*Registry, error) {
	r := NewRegistry()
	for _, pc := range []config.ProviderConfig{cfg.Groq, cfg.Gemini} {
		p, err := NewProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("caption provider %q: %w", pc.Name, err)
		}
		r.Register(p)

		if !pc.HasAPIKey() {
			logger.Warn("Caption provider has no API key: name=%s", pc.Name)
			continue
		}
		logger.Info("Registered caption provider: name=%s, model=%s", pc.Name, pc.Model)
	}
	return r, nil
}

// Register adds or replaces a provider under its own name.
func (r *Registry) Register(p CaptionProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider for name.
func (r *Registry) Get(name domain.Provider) (CaptionProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names.
func (r *Registry) Names() []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.Provider, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

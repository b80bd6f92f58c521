package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/trendmeme/internal/caption"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/llm"
	"github.com/timmy/trendmeme/internal/logger"
	"github.com/timmy/trendmeme/internal/template"
)

// CatalogSource supplies the current template catalog.
type CatalogSource interface {
	Get(ctx context.Context) template.Catalog
}

// ProviderLookup finds a caption provider by name.
type ProviderLookup interface {
	Get(name domain.Provider) (llm.CaptionProvider, bool)
}

// MemeConfig holds configuration for the meme service.
type MemeConfig struct {
	ImageBaseURL string // memegen image host, e.g. https://api.memegen.link
}

// MemeService turns a topic into a captioned meme.
type MemeService struct {
	catalog      CatalogSource
	resolver     *template.Resolver
	providers    ProviderLookup
	imageBaseURL string
}

// NewMemeService creates a new meme service.
// Parameters:
//   - catalog: source of the live template catalog.
//   - resolver: maps requested template names onto the catalog.
//   - providers: caption provider lookup.
//   - cfg: meme configuration settings.
//
// Returns:
//   - *MemeService: initialized meme service.
func NewMemeService(
	catalog CatalogSource,
	resolver *template.Resolver,
	providers ProviderLookup,
	cfg *MemeConfig,
) *MemeService {
	base := "https://api.memegen.link"
	if cfg != nil && cfg.ImageBaseURL != "" {
		base = cfg.ImageBaseURL
	}
	return &MemeService{
		catalog:      catalog,
		resolver:     resolver,
		providers:    providers,
		imageBaseURL: base,
	}
}

// Generate validates the request, resolves a template, asks the provider for
// a caption and builds the image URL unless the request is caption-only.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: the caption request.
//
// Returns:
//   - *domain.ResolvedMeme: the caption, template and optional image URL.
//   - error: ErrTopicRequired, *llm.ConfigError or *UpstreamError.
func (s *MemeService) Generate(ctx context.Context, req *domain.CaptionRequest) (*domain.ResolvedMeme, error) {
	if req == nil || !req.HasTopic() {
		return nil, ErrTopicRequired
	}

	catalog := s.catalog.Get(ctx)
	tmpl := s.resolver.Resolve(req.Template, catalog)

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "meme",
		logger.FieldProvider:  string(req.Provider),
		logger.FieldTemplate:  tmpl,
	})

	provider, ok := s.providers.Get(req.Provider)
	if !ok {
		return nil, &llm.ConfigError{
			Provider: req.Provider,
			Message:  fmt.Sprintf("caption provider %q is not configured", req.Provider),
		}
	}

	start := time.Now()
	raw, err := provider.Caption(ctx, req.Topic)
	if err != nil {
		var cfgErr *llm.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		logger.CtxWarn(ctx, "Caption provider failed: topic=%q, error=%v", req.Topic, err)
		return nil, &UpstreamError{Provider: provider.Name(), Err: err}
	}

	meme := &domain.ResolvedMeme{
		Caption:   caption.Sanitize(raw),
		Template:  tmpl,
		Templates: catalog.IDs(),
		Provider:  provider.Name(),
	}
	if req.Mode != domain.ModeCaption {
		meme.ImageURL = caption.ImageURL(s.imageBaseURL, tmpl, meme.Caption)
	}

	logger.With(logger.Fields{logger.FieldSize: len([]rune(meme.Caption))}).
		WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "Generated meme caption: requested_template=%q, mode=%s", req.Template, req.Mode)

	return meme, nil
}

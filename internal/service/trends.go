package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/logger"
)

// TrendsService fetches trending searches from SerpAPI.
type TrendsService struct {
	client *resty.Client
	apiKey string
	engine string
}

type trendsResponse struct {
	TrendingSearches json.RawMessage `json:"trending_searches"`
	Error            string          `json:"error,omitempty"`
}

// NewTrendsService creates a trends service from configuration.
func NewTrendsService(cfg *config.TrendsConfig) *TrendsService {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	engine := cfg.Engine
	if engine == "" {
		engine = "google_trends_trending_now"
	}

	return &TrendsService{
		client: client,
		apiKey: strings.TrimSpace(cfg.APIKey),
		engine: engine,
	}
}

// Trending returns the upstream trending_searches array verbatim.
// A response without the field yields an empty array.
func (s *TrendsService) Trending(ctx context.Context) (json.RawMessage, error) {
	if s.apiKey == "" {
		return nil, ErrTrendsKeyMissing
	}

	start := time.Now()
	var out trendsResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  s.engine,
			"api_key": s.apiKey,
		}).
		ForceContentType("application/json").
		SetResult(&out).
		SetError(&out).
		Get("/search.json")
	if err != nil {
		return nil, fmt.Errorf("failed to call trends API: %w", err)
	}

	if resp.IsError() {
		if out.Error != "" {
			return nil, fmt.Errorf("trends API returned error: HTTP %d: %s", resp.StatusCode(), out.Error)
		}
		return nil, fmt.Errorf("trends API returned error: HTTP %d", resp.StatusCode())
	}
	if out.Error != "" {
		return nil, fmt.Errorf("trends API error: %s", out.Error)
	}

	trending := out.TrendingSearches
	if len(trending) == 0 || string(trending) == "null" {
		trending = json.RawMessage("[]")
	}

	logger.With(logger.Fields{logger.FieldSize: len(trending)}).
		WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "Fetched trending searches")

	return trending, nil
}

package service

import (
	"errors"
	"fmt"

	"github.com/timmy/trendmeme/internal/domain"
)

var (
	// ErrTopicRequired is returned when a request has no usable topic.
	ErrTopicRequired = errors.New("topic is required")
	// ErrTrendsKeyMissing is returned when no SerpAPI key is configured.
	ErrTrendsKeyMissing = errors.New("trends api key missing: configure SERPAPI_KEY or VITE_SERPAPI_KEY")
)

// UpstreamError wraps a failed call to a caption provider.
type UpstreamError struct {
	Provider domain.Provider
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("caption provider %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

package template

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/timmy/trendmeme/internal/logger"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched catalog is served before a refresh.
const DefaultTTL = time.Hour

var errEmptyCatalog = errors.New("template list is empty")

// Fetcher lists the canonical template ids known to the image service.
type Fetcher interface {
	TemplateIDs(ctx context.Context) ([]string, error)
}

// TemplateCatalog is the process-wide template catalog cache.
//
// A refresh is attempted when the cache is empty or older than the TTL.
// Concurrent refreshes share one upstream call. Failed refreshes keep the
// previous ids, or the built-in fallback list when nothing was ever fetched.
type TemplateCatalog struct {
	fetcher Fetcher
	store   SnapshotStore
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	ids       []string
	fetchedAt time.Time

	group singleflight.Group
}

// CatalogOption customizes a TemplateCatalog.
type CatalogOption func(*TemplateCatalog)

// WithStore adds a shared snapshot tier consulted before the fetcher.
func WithStore(store SnapshotStore) CatalogOption {
	return func(c *TemplateCatalog) { c.store = store }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *TemplateCatalog) { c.now = now }
}

// NewTemplateCatalog creates an empty catalog cache backed by fetcher.
// A non-positive ttl uses DefaultTTL.
func NewTemplateCatalog(fetcher Fetcher, ttl time.Duration, opts ...CatalogOption) *TemplateCatalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TemplateCatalog{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current catalog, refreshing it first when stale.
// It never fails and never returns an empty catalog.
func (c *TemplateCatalog) Get(ctx context.Context) Catalog {
	if ids, ok := c.fresh(); ok {
		return NewCatalog(ids)
	}

	// The refresh outlives a single caller's cancellation since its result
	// is shared with every waiting request.
	shared := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.refresh(shared), nil
	})
	return NewCatalog(v.([]string))
}

// Refresh fetches from the fetcher even when the cached or shared snapshot is
// fresh, and writes a successful result back to the shared store. Failures
// behave as in Get.
func (c *TemplateCatalog) Refresh(ctx context.Context) Catalog {
	shared := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do("fetch", func() (interface{}, error) {
		return c.fetch(shared), nil
	})
	return NewCatalog(v.([]string))
}

// Invalidate drops the in-process snapshot so the next Get refreshes.
func (c *TemplateCatalog) Invalidate() {
	c.mu.Lock()
	c.ids = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// FetchedAt returns when the cached ids were fetched, zero if never.
func (c *TemplateCatalog) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func (c *TemplateCatalog) fresh() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.ids) == 0 || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.ids, true
}

func (c *TemplateCatalog) cached() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ids
}

func (c *TemplateCatalog) set(ids []string, fetchedAt time.Time) {
	c.mu.Lock()
	c.ids = ids
	c.fetchedAt = fetchedAt
	c.mu.Unlock()
}

func (c *TemplateCatalog) refresh(ctx context.Context) []string {
	if ids, ok := c.fresh(); ok {
		return ids
	}

	if snap := c.loadShared(ctx); snap != nil {
		c.set(snap.IDs, snap.FetchedAt)
		return snap.IDs
	}

	return c.fetch(ctx)
}

func (c *TemplateCatalog) fetch(ctx context.Context) []string {
	start := c.now()
	ids, err := c.fetcher.TemplateIDs(ctx)
	if err == nil && len(ids) == 0 {
		err = errEmptyCatalog
	}
	if err != nil {
		if prev := c.cached(); len(prev) > 0 {
			logger.FromContext(ctx).WithError(err).Warn("Failed to refresh meme template list, keeping previous list")
			return prev
		}
		logger.FromContext(ctx).WithError(err).Warn("Failed to refresh meme template list, using fallback")
		return FallbackTemplates()
	}

	fetchedAt := c.now()
	c.set(ids, fetchedAt)
	c.saveShared(ctx, &Snapshot{IDs: ids, FetchedAt: fetchedAt})

	logger.With(nil).
		WithDuration(fetchedAt.Sub(start).Milliseconds()).
		WithCount(len(ids)).
		Info(ctx, "Template catalog refreshed")

	return ids
}

func (c *TemplateCatalog) loadShared(ctx context.Context) *Snapshot {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Shared template snapshot unavailable")
		return nil
	}
	if snap == nil || len(snap.IDs) == 0 || c.now().Sub(snap.FetchedAt) >= c.ttl {
		return nil
	}
	return snap
}

func (c *TemplateCatalog) saveShared(ctx context.Context, snap *Snapshot) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, snap, c.ttl); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to store shared template snapshot")
	}
}

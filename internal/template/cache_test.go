package template

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	ids   []string
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *stubFetcher) TemplateIDs(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids, f.err
}

func (f *stubFetcher) respond(ids []string, err error) {
	f.mu.Lock()
	f.ids, f.err = ids, err
	f.mu.Unlock()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memoryStore struct {
	snap    *Snapshot
	loadErr error
	saves   int
}

func (s *memoryStore) Load(context.Context) (*Snapshot, error) {
	return s.snap, s.loadErr
}

func (s *memoryStore) Save(_ context.Context, snap *Snapshot, _ time.Duration) error {
	s.snap = snap
	s.saves++
	return nil
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCatalogFetchesLazily(t *testing.T) {
	f := &stubFetcher{ids: []string{"drake", "gru"}}
	c := NewTemplateCatalog(f, time.Hour)

	assert.Zero(t, f.calls.Load())
	assert.True(t, c.FetchedAt().IsZero())

	got := c.Get(context.Background())
	assert.Equal(t, []string{"drake", "gru"}, got.IDs())
	assert.EqualValues(t, 1, f.calls.Load())
	assert.False(t, c.FetchedAt().IsZero())
}

func TestCatalogServesCacheWithinTTL(t *testing.T) {
	clock := newClock()
	f := &stubFetcher{ids: []string{"drake"}}
	c := NewTemplateCatalog(f, time.Hour, WithClock(clock.Now))

	c.Get(context.Background())
	clock.Advance(59 * time.Minute)
	c.Get(context.Background())
	assert.EqualValues(t, 1, f.calls.Load())

	clock.Advance(2 * time.Minute)
	f.respond([]string{"drake", "fry"}, nil)
	got := c.Get(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
	assert.Equal(t, []string{"drake", "fry"}, got.IDs())
}

func TestCatalogFallbackWhenNeverFetched(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		err  error
	}{
		{"network error", nil, errors.New("connection refused")},
		{"empty list", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{ids: tt.ids, err: tt.err}
			c := NewTemplateCatalog(f, time.Hour)

			got := c.Get(context.Background())
			assert.Equal(t, FallbackTemplates(), got.IDs())
			assert.True(t, got.Contains(DefaultTemplate))
			assert.True(t, c.FetchedAt().IsZero())
		})
	}
}

func TestCatalogKeepsPreviousOnFailure(t *testing.T) {
	clock := newClock()
	f := &stubFetcher{ids: []string{"gru", "db"}}
	c := NewTemplateCatalog(f, time.Hour, WithClock(clock.Now))

	c.Get(context.Background())
	clock.Advance(2 * time.Hour)
	f.respond(nil, errors.New("HTTP 503"))

	got := c.Get(context.Background())
	assert.Equal(t, []string{"gru", "db"}, got.IDs())

	// Still stale, so the next call retries upstream.
	c.Get(context.Background())
	assert.EqualValues(t, 3, f.calls.Load())
}

func TestCatalogInvalidate(t *testing.T) {
	f := &stubFetcher{ids: []string{"drake"}}
	c := NewTemplateCatalog(f, time.Hour)

	c.Get(context.Background())
	c.Invalidate()
	c.Get(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestCatalogCollapsesConcurrentRefreshes(t *testing.T) {
	f := &stubFetcher{ids: []string{"drake", "gru"}, gate: make(chan struct{})}
	c := NewTemplateCatalog(f, time.Hour)

	const callers = 20
	var wg sync.WaitGroup
	results := make(chan Catalog, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Get(context.Background())
		}()
	}

	// Let the callers pile up behind the first refresh.
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()
	close(results)

	for got := range results {
		assert.True(t, got.Contains("gru"))
	}
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, []string{"drake", "gru"}, c.Get(context.Background()).IDs())
}

func TestCatalogCancelledCallerStillRefreshes(t *testing.T) {
	f := &stubFetcher{ids: []string{"gru"}}
	c := NewTemplateCatalog(f, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := c.Get(ctx)
	assert.Equal(t, []string{"gru"}, got.IDs())
}

func TestCatalogUsesSharedSnapshot(t *testing.T) {
	clock := newClock()
	store := &memoryStore{snap: &Snapshot{IDs: []string{"shared"}, FetchedAt: clock.Now().Add(-10 * time.Minute)}}
	f := &stubFetcher{ids: []string{"upstream"}}
	c := NewTemplateCatalog(f, time.Hour, WithClock(clock.Now), WithStore(store))

	got := c.Get(context.Background())
	assert.Equal(t, []string{"shared"}, got.IDs())
	assert.Zero(t, f.calls.Load())
}

func TestCatalogIgnoresStaleSharedSnapshot(t *testing.T) {
	clock := newClock()
	store := &memoryStore{snap: &Snapshot{IDs: []string{"shared"}, FetchedAt: clock.Now().Add(-3 * time.Hour)}}
	f := &stubFetcher{ids: []string{"upstream"}}
	c := NewTemplateCatalog(f, time.Hour, WithClock(clock.Now), WithStore(store))

	got := c.Get(context.Background())
	assert.Equal(t, []string{"upstream"}, got.IDs())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"upstream"}, store.snap.IDs)
}

func TestCatalogSharedStoreErrorIsAMiss(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("redis down")}
	f := &stubFetcher{ids: []string{"upstream"}}
	c := NewTemplateCatalog(f, time.Hour, WithStore(store))

	got := c.Get(context.Background())
	assert.Equal(t, []string{"upstream"}, got.IDs())
}

func TestCatalogRefreshBypassesFreshSnapshots(t *testing.T) {
	clock := newClock()
	store := &memoryStore{snap: &Snapshot{IDs: []string{"shared"}, FetchedAt: clock.Now()}}
	f := &stubFetcher{ids: []string{"upstream"}}
	c := NewTemplateCatalog(f, time.Hour, WithClock(clock.Now), WithStore(store))

	assert.Equal(t, []string{"shared"}, c.Get(context.Background()).IDs())

	got := c.Refresh(context.Background())
	assert.Equal(t, []string{"upstream"}, got.IDs())
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, []string{"upstream"}, store.snap.IDs)
	assert.Equal(t, []string{"upstream"}, c.Get(context.Background()).IDs())
}

func TestCatalogRefreshFailureKeepsPrevious(t *testing.T) {
	f := &stubFetcher{ids: []string{"drake", "gru"}}
	c := NewTemplateCatalog(f, time.Hour)
	c.Get(context.Background())

	f.respond(nil, errors.New("HTTP 500"))
	got := c.Refresh(context.Background())
	assert.Equal(t, []string{"drake", "gru"}, got.IDs())
}

func TestNewTemplateCatalogDefaultTTL(t *testing.T) {
	c := NewTemplateCatalog(&stubFetcher{}, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

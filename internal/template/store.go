package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is a fetched catalog and the time it was fetched.
type Snapshot struct {
	IDs       []string  `json:"ids"`
	FetchedAt time.Time `json:"fetched_at"`
}

// SnapshotStore shares catalog snapshots between server instances.
type SnapshotStore interface {
	// Load returns the stored snapshot, or (nil, nil) when there is none.
	Load(ctx context.Context) (*Snapshot, error)

	// Save stores snap for at most ttl.
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
}

const snapshotKey = "memegen:templates"

// RedisStore keeps the catalog snapshot in Redis as JSON.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects to url and verifies connectivity.
// prefix namespaces the snapshot key.
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb, key: prefix + snapshotKey}, nil
}

// Load implements SnapshotStore.
func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	val, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		// Corrupt snapshot -- treat as miss.
		return nil, nil //nolint:nilerr
	}
	return &snap, nil
}

// Save implements SnapshotStore.
func (s *RedisStore) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling template snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("writing template snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

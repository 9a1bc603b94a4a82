// Package redis provides Redis-backed snapshot storage and distributed
// chart locks.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/sonisync/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "sonisync:"

// Store implements ports.SnapshotStore using Redis.
// Each snapshot lives under prefix+chartID; a sorted set at prefix+"index"
// tracks chart IDs scored by expiry (0 when no TTL is set).
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL expires snapshots after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying client.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(chartID string) string { return s.prefix + chartID }
func (s *Store) index() string { return s.prefix + "index" }

// Save persists the fingerprint and indexes the chart ID.
func (s *Store) Save(ctx context.Context, chartID string, snap domain.Snapshot) error {
	var score float64
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).UnixMilli())
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.key(chartID), snap.Bytes(), s.ttl)
		pipe.ZAdd(ctx, s.index(), backend.Z{Score: score, Member: chartID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", chartID, err)
	}
	return nil
}

// Load retrieves the fingerprint.
func (s *Store) Load(ctx context.Context, chartID string) (domain.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key(chartID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to load snapshot for %s: %w", chartID, err)
	}
	return domain.SnapshotFromBytes(raw), nil
}

// Delete removes the fingerprint and its index entry.
func (s *Store) Delete(ctx context.Context, chartID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.key(chartID))
		pipe.ZRem(ctx, s.index(), chartID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot for %s: %w", chartID, err)
	}
	return nil
}

// List returns the stored chart IDs, sorted. Expired entries are pruned
// from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		now := strconv.FormatInt(time.Now().UnixMilli(), 10)
		if err := s.client.ZRemRangeByScore(ctx, s.index(), "(0", now).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune snapshot index: %w", err)
		}
	}

	ids, err := s.client.ZRange(ctx, s.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed chart lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Serializer runs work for one chart at a time.
// It uses reference counting to garbage collect unused locks.
type Serializer struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Serializer.
type Option func(*Serializer)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Serializer) {
		s.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Serializer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger configures a logger for deferred unlock failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// NewSerializer creates a Serializer.
func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{
		locks:  make(map[string]*lockEntry),
		ttl:    DefaultLockTTL,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release after unlocking.
func (s *Serializer) acquire(chartID string) *lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[chartID]
	if !ok {
		entry = &lockEntry{}
		s.locks[chartID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (s *Serializer) release(chartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[chartID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(s.locks, chartID)
	}
}

// Do runs fn while holding the chart's lock.
func (s *Serializer) Do(ctx context.Context, chartID string, fn func(context.Context) error) error {
	entry := s.acquire(chartID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		s.release(chartID)
	}()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, chartID, s.ttl)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"chart_id", chartID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Held returns the number of charts with a live lock entry.
func (s *Serializer) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

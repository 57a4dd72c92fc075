package fx

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateSource supplies the current EUR-per-USD quote from the daily feed.
type RateSource interface {
	CurrentRate(ctx context.Context) (float64, error)
}

// FallbackCounter is notified whenever the feed is unavailable and a stale
// or static rate is served instead.
type FallbackCounter interface {
	AddFxFallback()
}

const snapshotKey = "fx:eur_per_usd:last"

// RateCache memoises the feed quote with a TTL. Reads are safe for
// concurrent use; the value refreshes lazily on expiry. Feed unavailability
// never surfaces to callers: the cache degrades to the last redis snapshot,
// then to the static fallback rate.
type RateCache struct {
	source   RateSource
	snapshot *redis.Client
	fallback float64
	ttl      time.Duration
	logger   *slog.Logger
	counter  FallbackCounter
	now      func() time.Time

	mu        sync.RWMutex
	value     float64
	fetchedAt time.Time
}

// CacheOption customises a RateCache.
type CacheOption func(*RateCache)

// WithSnapshot shares the last good quote through redis so the web and
// worker processes serve the same rate across restarts.
func WithSnapshot(client *redis.Client) CacheOption {
	return func(c *RateCache) { c.snapshot = client }
}

// WithFallbackCounter wires the observability counter.
func WithFallbackCounter(counter FallbackCounter) CacheOption {
	return func(c *RateCache) { c.counter = counter }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *RateCache) { c.now = now }
}

// NewRateCache constructs the cache. fallback must be a positive rate.
func NewRateCache(source RateSource, fallback float64, ttl time.Duration, logger *slog.Logger, opts ...CacheOption) *RateCache {
	c := &RateCache{
		source:   source,
		fallback: fallback,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the current EUR-per-USD rate. It never fails and never
// blocks beyond one feed fetch.
func (c *RateCache) Rate(ctx context.Context) float64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	value, fetchedAt := c.value, c.fetchedAt
	c.mu.RUnlock()
	if value > 0 && c.now().Sub(fetchedAt) < c.ttl {
		return value
	}
	return c.refresh(ctx)
}

// Refresh forces a feed fetch regardless of TTL, returning the rate now in
// effect. Used by the background refresh job.
func (c *RateCache) Refresh(ctx context.Context) float64 {
	if c == nil {
		return 0
	}
	return c.refresh(ctx)
}

func (c *RateCache) refresh(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have refreshed while we waited on the lock.
	if c.value > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value
	}

	rate, err := c.source.CurrentRate(ctx)
	if err == nil && rate > 0 {
		c.value = rate
		c.fetchedAt = c.now()
		c.storeSnapshot(ctx, rate)
		return rate
	}

	if c.logger != nil {
		c.logger.Warn("fx feed unavailable, serving degraded rate", slog.Any("error", err))
	}
	if c.counter != nil {
		c.counter.AddFxFallback()
	}
	if snap, ok := c.loadSnapshot(ctx); ok {
		c.value = snap
		c.fetchedAt = c.now()
		return snap
	}
	c.value = c.fallback
	c.fetchedAt = c.now()
	return c.fallback
}

func (c *RateCache) storeSnapshot(ctx context.Context, rate float64) {
	if c.snapshot == nil {
		return
	}
	err := c.snapshot.Set(ctx, snapshotKey, strconv.FormatFloat(rate, 'f', -1, 64), 24*time.Hour).Err()
	if err != nil && c.logger != nil {
		c.logger.Warn("fx snapshot write failed", slog.Any("error", err))
	}
}

func (c *RateCache) loadSnapshot(ctx context.Context) (float64, bool) {
	if c.snapshot == nil {
		return 0, false
	}
	raw, err := c.snapshot.Get(ctx, snapshotKey).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

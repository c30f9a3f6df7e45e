// Package cache holds the read caches for featured listings and property detail.
// Entries are evicted wholesale on every catalog mutation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Cache names
const (
	Featured       = "featured"
	PropertyDetail = "propertyDetail"

	// FeaturedKey is the single key of the featured cache
	FeaturedKey = "all"
)

// Names lists every cache evicted by EvictAll
var Names = []string{Featured, PropertyDetail}

// evictRetryInterval throttles eviction retries after a backend failure
const evictRetryInterval = 5 * time.Second

// Store is a cache backend
type Store interface {
	Get(ctx context.Context, cache, key string) ([]byte, bool, error)
	Put(ctx context.Context, cache, key string, value []byte) error
	EvictAll(ctx context.Context) error
}

// Layer wraps a Store with an eviction epoch. A value loaded before an
// eviction is never written back after it. After a failed eviction the
// layer is dirty: reads skip the store until an eviction succeeds.
type Layer struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	epoch     uint64
	dirty     bool
	lastRetry time.Time
}

func NewLayer(store Store, logger *slog.Logger) *Layer {
	return &Layer{store: store, logger: logger, now: time.Now}
}

// Epoch returns the current eviction epoch
func (l *Layer) Epoch() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.epoch
}

// EvictAll clears both caches. Backend failures are logged, never returned.
func (l *Layer) EvictAll(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.epoch++
	if err := l.store.EvictAll(ctx); err != nil {
		l.dirty = true
		l.lastRetry = l.now()
		l.logger.Error("cache eviction failed, bypassing cache until it succeeds", "error", err)
		return
	}
	l.dirty = false
	l.logger.Debug("caches evicted", "epoch", l.epoch)
}

// Dirty reports whether a failed eviction may have left stale entries behind
func (l *Layer) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// bypass reports whether reads must skip the store. While dirty it retries
// the eviction at most once per evictRetryInterval.
func (l *Layer) bypass(ctx context.Context) bool {
	l.mu.RLock()
	dirty := l.dirty
	l.mu.RUnlock()
	if !dirty {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return false
	}
	if now := l.now(); now.Sub(l.lastRetry) >= evictRetryInterval {
		l.lastRetry = now
		if err := l.store.EvictAll(ctx); err != nil {
			l.logger.Warn("cache eviction retry failed", "error", err)
			return true
		}
		l.dirty = false
		l.logger.Info("cache eviction recovered", "epoch", l.epoch)
		return false
	}
	return true
}

// putIfCurrent stores value unless an eviction happened since epoch
func (l *Layer) putIfCurrent(ctx context.Context, epoch uint64, cache, key string, value []byte) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.epoch != epoch {
		l.logger.Debug("dropping stale cache fill", "cache", cache, "key", key)
		return
	}
	if err := l.store.Put(ctx, cache, key, value); err != nil {
		l.logger.Warn("cache put failed", "cache", cache, "key", key, "error", err)
	}
}

// ReadThrough returns the cached value for key or loads and caches it.
// Values for which skip returns true are returned but not cached.
func ReadThrough[T any](ctx context.Context, l *Layer, cache, key string, skip func(T) bool, load func(context.Context) (T, error)) (T, error) {
	if l.bypass(ctx) {
		return load(ctx)
	}

	raw, ok, err := l.store.Get(ctx, cache, key)
	if err != nil {
		l.logger.Warn("cache read failed", "cache", cache, "key", key, "error", err)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		l.logger.Warn("discarding undecodable cache entry", "cache", cache, "key", key)
	}

	epoch := l.Epoch()
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if skip != nil && skip(value) {
		return value, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache encode failed", "cache", cache, "error", err)
		return value, nil
	}
	l.putIfCurrent(ctx, epoch, cache, key, encoded)
	return value, nil
}

package geolocate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

type fix struct {
	position geo.Coordinate
	at       time.Time
}

// fixCache remembers the last fix per accuracy class.
type fixCache struct {
	mu    sync.RWMutex
	items map[bool]fix
	now   func() time.Time
}

func newFixCache(now func() time.Time) *fixCache {
	return &fixCache{items: make(map[bool]fix), now: now}
}

// get returns the fix for key if it is younger than maxAge.
func (c *fixCache) get(key bool, maxAge time.Duration) (geo.Coordinate, bool) {
	if maxAge <= 0 {
		return geo.Coordinate{}, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return geo.Coordinate{}, false
	}
	if c.now().Sub(item.at) > maxAge {
		c.expire(key, item.at)
		return geo.Coordinate{}, false
	}
	return item.position, true
}

// expire drops the fix for key only if it is still the one taken at at;
// a fix stored since then is kept.
func (c *fixCache) expire(key bool, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[key]; ok && item.at.Equal(at) {
		delete(c.items, key)
	}
}

func (c *fixCache) set(key bool, position geo.Coordinate) {
	c.mu.Lock()
	c.items[key] = fix{position: position, at: c.now()}
	c.mu.Unlock()
}

func (c *fixCache) clear() {
	c.mu.Lock()
	c.items = make(map[bool]fix)
	c.mu.Unlock()
}

// Cached wraps a Provider, reusing recent fixes and enforcing the request
// timeout. A high accuracy fix also satisfies a low accuracy request.
type Cached struct {
	next  Provider
	cache *fixCache
}

// NewCached wraps next.
func NewCached(next Provider) *Cached {
	return newCachedWithClock(next, time.Now)
}

func newCachedWithClock(next Provider, now func() time.Time) *Cached {
	return &Cached{next: next, cache: newFixCache(now)}
}

// CurrentPosition implements Provider.
func (c *Cached) CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error) {
	logger := slog.Default().With("component", "geolocate")

	if p, ok := c.cache.get(true, opts.MaxCacheAge); ok {
		logger.Debug("using cached fix", "accuracy", "high")
		return p, nil
	}
	if !opts.HighAccuracy {
		if p, ok := c.cache.get(false, opts.MaxCacheAge); ok {
			logger.Debug("using cached fix", "accuracy", "low")
			return p, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	p, err := c.next.CurrentPosition(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var perr *PositionError
			if !errors.As(err, &perr) || perr.Code != Timeout {
				err = &PositionError{Code: Timeout, Err: err}
			}
		}
		logger.Debug("position request failed", "error", err)
		return geo.Coordinate{}, err
	}
	if !p.Valid() {
		return geo.Coordinate{}, &PositionError{Code: PositionUnavailable}
	}

	c.cache.set(opts.HighAccuracy, p)
	return p, nil
}

// Forget drops any cached fix.
func (c *Cached) Forget() {
	c.cache.clear()
}

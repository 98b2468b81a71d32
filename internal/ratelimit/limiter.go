// Package ratelimit wraps golang.org/x/time/rate with a per-source
// registry so every catalog client shares one limiter per source name.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is a named rate limiter for one external source.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

var (
	registry   = map[string]*Limiter{}
	registryMu sync.Mutex
)

// ForSource returns the shared limiter for the given source, creating it
// with the given rate on first use. Later calls ignore requestsPerSecond.
func ForSource(name string, requestsPerSecond int) *Limiter {
	registryMu.Lock()
	defer registryMu.Unlock()

	if l, ok := registry[name]; ok {
		return l
	}
	l := &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
	registry[name] = l
	return l
}

// Wait blocks until the limiter allows a request, or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request may proceed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the source name this limiter throttles.
func (l *Limiter) Name() string {
	return l.name
}

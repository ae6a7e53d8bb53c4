package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Resource identifies a group of odds-API endpoints that share a
// client-side rate budget. The backend reserves HTTP 429 for rate
// limiting; the local limiter keeps the per-event odds fan-out from
// tripping it in the first place.
type Resource string

const (
	// ResourceSports covers GET /sports
	ResourceSports Resource = "sports"
	// ResourceEvents covers GET /events
	ResourceEvents Resource = "events"
	// ResourceOdds covers GET /odds and GET /odds/event/{id}/history
	ResourceOdds Resource = "odds"
	// ResourceAlerts covers GET /alerts and the read mutations
	ResourceAlerts Resource = "alerts"
	// ResourcePolymarket covers GET /polymarket/markets
	ResourcePolymarket Resource = "polymarket"
)

// Limiter manages per-resource rate limits for the odds API.
type Limiter struct {
	limiters map[Resource]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter admitting up to rps requests per second per
// resource group. A non-positive rps disables limiting.
func New(rps float64) *Limiter {
	l := &Limiter{limiters: make(map[Resource]*rate.Limiter)}

	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}

	for _, r := range []Resource{
		ResourceSports,
		ResourceEvents,
		ResourceOdds,
		ResourceAlerts,
		ResourcePolymarket,
	} {
		// Burst matches one full odds fan-out so a pass starts without stalling.
		l.limiters[r] = rate.NewLimiter(limit, 10)
	}

	return l
}

// Wait blocks until the limiter permits a request for the given
// resource. It returns an error if the context is canceled before the
// request can proceed.
func (l *Limiter) Wait(ctx context.Context, resource Resource) error {
	l.mu.RLock()
	limiter, exists := l.limiters[resource]
	l.mu.RUnlock()

	if !exists {
		// Unknown resources are admitted without limiting.
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether a request for the given resource may happen now.
func (l *Limiter) Allow(resource Resource) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[resource]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}

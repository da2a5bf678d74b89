// Package ratelimit provides per-host request pacing so concurrent site
// scrapes never hammer one storefront, plus a simple shared bucket for the
// oracle API.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces requests keyed by host using token buckets
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	perHost rate.Limit
	burst   int
}

// NewPerHost creates a limiter allowing rps requests per second per host
func NewPerHost(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1.0
	}
	if burst <= 0 {
		burst = 2
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		perHost: rate.Limit(rps),
		burst:   burst,
	}
}

// Wait blocks until a request to urlStr may proceed, or ctx is done
func (l *Limiter) Wait(ctx context.Context, urlStr string) error {
	host := hostOf(urlStr)
	if host == "" {
		return nil
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request to urlStr may proceed immediately
func (l *Limiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return l.bucket(host).Allow()
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[host]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[host]; ok {
		return b
	}
	b = rate.NewLimiter(l.perHost, l.burst)
	l.buckets[host] = b
	return b
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

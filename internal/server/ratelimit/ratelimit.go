// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed bool
	// Endpoint is the matched config path, or "default"
	Endpoint   string
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per client, endpoint and method.
type Limiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	config        *Config
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	limiter := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blocklist[clientID] {
		return false, Info{Allowed: false, Endpoint: "blocklist"}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	name := "default"
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	} else {
		name = endpointConfig.Path
	}

	if endpointConfig.Limit <= 0 {
		return true, Info{Allowed: true, Endpoint: name}
	}

	// Buckets are keyed by the matched config so pattern routes share one bucket
	key := clientID + ":" + name + ":" + method
	now := l.now()
	lim := l.getLimiter(key, endpointConfig, now)

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)
	perSecond := float64(lim.Limit())
	burst := float64(lim.Burst())

	info := Info{
		Allowed:   allowed,
		Endpoint:  name,
		Limit:     endpointConfig.Limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(secondsToDuration((burst - tokens) / perSecond)),
	}
	if !allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / perSecond)
	}
	return allowed, info
}

func (l *Limiter) getLimiter(key string, cfg *EndpointConfig, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		b.lastAccess = now
		return b.limiter
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Limit
	}
	every := cfg.Window / time.Duration(cfg.Limit)
	b := &bucket{
		limiter:    rate.NewLimiter(rate.Every(every), burst),
		lastAccess: now,
	}
	// new buckets start full
	l.buckets[key] = b
	return b.limiter
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(s * float64(time.Second)))
}

// cleanup removes old unused buckets to prevent memory leaks.
func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets(l.now().Add(-time.Hour))
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets not used since cutoff
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}

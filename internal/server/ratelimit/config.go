package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/config"
)

// EndpointConfig is the limit of one endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, path.Match pattern, or prefix ending in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds the limiter configuration from the service settings,
// using DefaultEndpointConfigs for per-route limits.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Allowlist:       clientSet(s.Allowlist),
		Blocklist:       clientSet(s.Blocklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Routes that call the
// LLM several times per request get the strictest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	hourly := func(path, method string, limit, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: limit, Window: time.Hour, Burst: burst}
	}
	perMinute := func(path, method string, limit, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: limit, Window: time.Minute, Burst: burst}
	}
	return []EndpointConfig{
		// LLM calls
		hourly("/v1/customizations/batch", "POST", 5, 1),
		hourly("/v1/customizations", "POST", 30, 3),
		hourly("/v1/customizations/*/optimize", "POST", 30, 3),
		hourly("/v1/customizations/*/ats", "GET", 30, 3),
		hourly("/v1/resumes", "POST", 20, 3),
		hourly("/v1/jobs", "POST", 60, 5),
		// rendering
		hourly("/v1/customizations/*/files", "POST", 60, 5),
		// credential guessing
		perMinute("/v1/auth/login", "POST", 10, 5),
		perMinute("/v1/auth/register", "POST", 10, 5),
		perMinute("/v1/auth/password", "POST", 10, 5),
		// remaining writes; reads use the default limit
		perMinute("/v1/", "POST", 100, 10),
		perMinute("/v1/", "PATCH", 100, 10),
		perMinute("/v1/", "DELETE", 100, 10),
	}
}

func clientSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}

package ratelimit

import (
	"path"
	"strings"
)

// unlimited is returned for endpoints that are never limited
var unlimited = EndpointConfig{Limit: 0}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over path.Match patterns, which win over prefixes ending in
// "/". Returns nil if nothing matches.
func MatchEndpoint(reqPath string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (reqPath == "/health" || reqPath == "/metrics") {
		cfg := unlimited
		cfg.Path = reqPath
		return &cfg
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Path == reqPath {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method != method || !strings.Contains(config.Path, "*") {
			continue
		}
		if ok, err := path.Match(config.Path, reqPath); err == nil && ok {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(reqPath, config.Path) {
			return config
		}
	}

	return nil
}

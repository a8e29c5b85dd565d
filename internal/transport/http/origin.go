package http

import (
	"net/url"
	"strings"
)

// originHostPatterns converts configured origins into host patterns for the
// websocket accept check. Returns allowAll when the list contains "*".
func originHostPatterns(origins []string) (patterns []string, allowAll bool) {
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if host, ok := originHost(trimmed); ok {
			patterns = append(patterns, host)
		}
	}
	return patterns, allowAll
}

func originHost(origin string) (string, bool) {
	if !strings.Contains(origin, "://") {
		// Already a bare host, possibly with a port.
		return strings.ToLower(origin), origin != ""
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Host), true
}

// normalizeOrigin reduces an origin to lowercase scheme://host for allowlist
// comparison. Invalid origins are rejected rather than silently matched.
func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

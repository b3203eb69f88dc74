package app

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/folio-space/core/internal/config"
	"github.com/gin-contrib/cors"
)

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "Retry-After"},
		AllowCredentials: true,
	}
	patterns := allowedOrigins(cfg)
	if len(patterns) == 0 || cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	c.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range patterns {
			if matchOriginPattern(pattern, host) {
				return true
			}
		}
		return false
	}
	return c
}

// allowedOrigins is the configured list plus the client URL's host.
func allowedOrigins(cfg *config.AppConfig) []string {
	if len(cfg.AllowedOrigins) == 0 {
		return nil
	}
	out := append([]string(nil), cfg.AllowedOrigins...)
	if host := extractOriginHost(cfg.ClientURL); host != "" {
		out = append(out, host)
	}
	return out
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern reports whether host matches the given wildcard pattern.
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[1:]
		return strings.HasSuffix(host, suffix)
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(host, prefix)
	}
	return false
}

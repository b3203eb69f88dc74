package config

import (
	"net/url"
	"strings"
)

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ClientURL = strings.TrimRight(strings.TrimSpace(cfg.ClientURL), "/")
	if cfg.ClientURL == "" {
		cfg.ClientURL = defaultClientURL
	}
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.RedisURL = normalizeRedisRawURL(cfg.RedisURL)
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	cfg.Mongo.URI = strings.TrimSpace(cfg.Mongo.URI)
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = defaultMongoURI
	}
	cfg.Mongo.Database = strings.TrimSpace(cfg.Mongo.Database)
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = databaseFromURI(cfg.Mongo.URI)
	}
	if cfg.Mongo.ServerSelectionTimeout <= 0 {
		cfg.Mongo.ServerSelectionTimeout = defaultServerSelectionTimeout
	}

	cfg.SMTP.Host = strings.TrimSpace(cfg.SMTP.Host)
	cfg.SMTP.User = strings.TrimSpace(cfg.SMTP.User)
	cfg.SMTP.From = strings.TrimSpace(cfg.SMTP.From)
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	cfg.Media.Bucket = strings.TrimSpace(cfg.Media.Bucket)
	cfg.Media.Region = strings.TrimSpace(cfg.Media.Region)
	if cfg.Media.Region == "" {
		cfg.Media.Region = defaultS3Region
	}
	cfg.Media.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Media.Endpoint), "/")
	cfg.Media.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.Media.PublicURL), "/")
	cfg.Media.Prefix = strings.Trim(strings.TrimSpace(cfg.Media.Prefix), "/")
	if cfg.Media.MaxUploadMB == 0 {
		cfg.Media.MaxUploadMB = defaultUploadMaxMB
	}

	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Paths.Uploads = strings.TrimSpace(cfg.Paths.Uploads)
}

// databaseFromURI returns the database named in the URI path, falling back to the default.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// applyEnv overlays environment variables on cfg. Variable names follow the
// deployment's .env conventions.
func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = b
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	str("ENV", &cfg.Env)
	str("NODE_ENV", &cfg.Env)
	str("CLIENT_URL", &cfg.ClientURL)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("REDIS_URL", &cfg.RedisURL)
	str("MONGODB_URI", &cfg.Mongo.URI)
	str("MONGODB_DATABASE", &cfg.Mongo.Database)
	str("SMTP_HOST", &cfg.SMTP.Host)
	str("SMTP_USER", &cfg.SMTP.User)
	str("SMTP_PASS", &cfg.SMTP.Pass)
	str("SMTP_FROM", &cfg.SMTP.From)
	str("S3_BUCKET", &cfg.Media.Bucket)
	str("S3_REGION", &cfg.Media.Region)
	str("S3_ENDPOINT", &cfg.Media.Endpoint)
	str("S3_ACCESS_KEY_ID", &cfg.Media.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.Media.SecretAccessKey)
	str("S3_PUBLIC_URL", &cfg.Media.PublicURL)
	str("S3_PREFIX", &cfg.Media.Prefix)
	str("UPLOADS_DIR", &cfg.Paths.Uploads)
	str("LOG_DIR", &cfg.Paths.Logs)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}

	for _, fn := range []func() error{
		func() error { return num("PORT", &cfg.Port) },
		func() error { return num("SMTP_PORT", &cfg.SMTP.Port) },
		func() error { return num("UPLOAD_MAX_MB", &cfg.Media.MaxUploadMB) },
		func() error { return flag("SMTP_SECURE", &cfg.SMTP.Secure) },
		func() error { return flag("SMTP_SKIP_VERIFY", &cfg.SMTP.SkipVerify) },
		func() error { return dur("TOKEN_TTL", &cfg.TokenTTL) },
		func() error { return dur("MONGODB_SERVER_SELECTION_TIMEOUT", &cfg.Mongo.ServerSelectionTimeout) },
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

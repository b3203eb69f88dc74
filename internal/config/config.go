package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"` // "development" | "production"
	ClientURL      string        `yaml:"client_url"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	RedisURL       string        `yaml:"redis_url"`
	Mongo          MongoConfig   `yaml:"mongo"`
	SMTP           SMTPConfig    `yaml:"smtp"`
	Media          MediaConfig   `yaml:"media"`
	Paths          PathsConfig   `yaml:"paths"`
}

// MongoConfig configures the document store connection.
type MongoConfig struct {
	URI                    string        `yaml:"uri"`
	Database               string        `yaml:"database"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout"`
}

// SMTPConfig configures outbound mail. An empty host/user/pass means broadcasts run dry.
type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Secure     bool   `yaml:"secure"` // implicit TLS (usually port 465)
	User       string `yaml:"user"`
	Pass       string `yaml:"pass"`
	From       string `yaml:"from"`
	SkipVerify bool   `yaml:"skip_verify"`
}

// MediaConfig configures the media host. Without a bucket uploads are stored on local disk.
type MediaConfig struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	Prefix          string `yaml:"prefix"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
}

// PathsConfig holds runtime directories.
type PathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

// Load reads the YAML file at configPath (a missing file is not an error),
// loads a .env file from the working directory when present, and applies
// environment overrides on top.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg, err := parse(content, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func parse(content []byte, lookup func(string) (string, bool)) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	normalize(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return nil, fmt.Errorf("invalid smtp.port %d, expected 1-65535", cfg.SMTP.Port)
	}
	if cfg.Media.MaxUploadMB < 1 {
		return nil, fmt.Errorf("invalid media.max_upload_mb %d, expected >= 1", cfg.Media.MaxUploadMB)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:      defaultPort,
		Env:       defaultEnv,
		ClientURL: defaultClientURL,
		TokenTTL:  defaultTokenTTL,
		Mongo: MongoConfig{
			URI:                    defaultMongoURI,
			ServerSelectionTimeout: defaultServerSelectionTimeout,
		},
		SMTP: SMTPConfig{
			Port: defaultSMTPPort,
		},
		Media: MediaConfig{
			Region:      defaultS3Region,
			MaxUploadMB: defaultUploadMaxMB,
		},
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }

// Addr returns the listen address.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// MailConfigured reports whether SMTP credentials are present.
func (c *AppConfig) MailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Pass != ""
}

// S3Configured reports whether uploads go to object storage.
func (c *AppConfig) S3Configured() bool {
	return c.Media.Bucket != ""
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Media.MaxUploadMB) << 20
}

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string { return ResolveRuntimePath(c.Paths.Logs, defaultLogsDir) }

// UploadsDir returns the resolved local uploads directory.
func (c *AppConfig) UploadsDir() string {
	return ResolveRuntimePath(c.Paths.Uploads, defaultUploadsDir)
}

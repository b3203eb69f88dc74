package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort                   = 5000
	defaultEnv                    = "development"
	defaultMongoURI               = "mongodb://localhost:27017/mernapp"
	defaultMongoDatabase          = "mernapp"
	defaultServerSelectionTimeout = 5 * time.Second
	defaultClientURL              = "http://localhost:3000"
	defaultSMTPPort               = 587
	defaultS3Region               = "auto"
	defaultUploadMaxMB            = 50
	defaultTokenTTL               = 7 * 24 * time.Hour
	defaultUploadsDir             = "uploads"
	defaultLogsDir                = "logs"
)

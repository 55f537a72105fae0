package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Supported DATABASE_DRIVER values
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string
	Environment    string
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	StorageRoot    string
	CORSOrigins    string
	JWKSURL        string // Optional; enables actor attribution from bearer tokens
	LogDir         string // Optional; tees logs into timestamped files
	LogMaxFiles    int
	ConfigFile     string
	Limits         Limits
	// Debug flags
	Debug bool
}

// Limits bounds uploads and search results
type Limits struct {
	MaxUploadBytes      int64
	FolderSearchLimit   int
	DocumentSearchLimit int
}

// fileConfig is the optional YAML overlay
type fileConfig struct {
	Storage struct {
		Root string `yaml:"root"`
	} `yaml:"storage"`
	Limits struct {
		MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	} `yaml:"limits"`
	// Search caps may only lower the built-in ceilings of 50 folders and
	// 100 documents. Zero keeps the ceiling.
	Search struct {
		FolderLimit   int `yaml:"folder_limit"`
		DocumentLimit int `yaml:"document_limit"`
	} `yaml:"search"`
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any), then environment variables. Environment wins.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		StorageRoot: "media",
		Limits: Limits{
			MaxUploadBytes:      MaxUploadBytes,
			FolderSearchLimit:   DefaultFolderSearchLimit,
			DocumentSearchLimit: DefaultDocumentSearchLimit,
		},
	}

	cfg.ConfigFile = getEnv("CONFIG_FILE", "")
	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Environment = env
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", DriverPostgres)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "treelink.db")
	cfg.StorageRoot = getEnv("STORAGE_ROOT", cfg.StorageRoot)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", "http://localhost:3000")
	cfg.JWKSURL = getEnv("JWKS_URL", "")
	cfg.LogDir = getEnv("LOG_DIR", "")
	cfg.LogMaxFiles = getEnvInt("LOG_MAX_FILES", 10)
	cfg.Limits.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.Limits.MaxUploadBytes)))
	// Debug defaults to true in dev/test, false in production
	cfg.Debug = getEnv("DEBUG", getDefaultDebug(env)) == "true"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want postgres or sqlite)", c.DatabaseDriver)
	}

	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if c.Limits.FolderSearchLimit < 1 || c.Limits.FolderSearchLimit > DefaultFolderSearchLimit {
		return fmt.Errorf("search.folder_limit must be between 1 and %d, got %d",
			DefaultFolderSearchLimit, c.Limits.FolderSearchLimit)
	}
	if c.Limits.DocumentSearchLimit < 1 || c.Limits.DocumentSearchLimit > DefaultDocumentSearchLimit {
		return fmt.Errorf("search.document_limit must be between 1 and %d, got %d",
			DefaultDocumentSearchLimit, c.Limits.DocumentSearchLimit)
	}
	return nil
}

// IsProduction reports whether destructive maintenance must be refused
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Storage.Root != "" {
		c.StorageRoot = fc.Storage.Root
	}
	if fc.Limits.MaxUploadBytes > 0 {
		c.Limits.MaxUploadBytes = fc.Limits.MaxUploadBytes
	}
	if fc.Search.FolderLimit != 0 {
		c.Limits.FolderSearchLimit = fc.Search.FolderLimit
	}
	if fc.Search.DocumentLimit != 0 {
		c.Limits.DocumentSearchLimit = fc.Search.DocumentLimit
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

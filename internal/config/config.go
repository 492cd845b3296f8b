package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

// Supported store backends
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	// Filesystem layout
	StorageRoot string `yaml:"storage_root"`
	ArchiveRoot string `yaml:"archive_root"`
	UploadDir   string `yaml:"upload_dir"` // empty = os.TempDir()

	// Store
	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`
	SQLitePath     string `yaml:"sqlite_path"`

	// How long an upload waits for another upload's SQLite write lock
	SQLiteBusyTimeout time.Duration `yaml:"sqlite_busy_timeout"`

	CORSOrigins string `yaml:"cors_origins"`

	// Listing cache, disabled when RedisURL is empty
	RedisURL string        `yaml:"redis_url"`
	RedisTTL time.Duration `yaml:"redis_ttl"`

	// Optional file logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`

	Auth AuthConfig `yaml:"auth"`

	MaxUploadBytes       int64  `yaml:"max_upload_bytes"`
	MaxUncompressedBytes uint64 `yaml:"max_uncompressed_bytes"`
}

// AuthConfig protects write routes. With ShouldSecure set, a request must carry
// either the basic credentials or a bearer token verifiable against JWKSURL.
type AuthConfig struct {
	ShouldSecure bool   `yaml:"should_secure"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	JWKSURL      string `yaml:"jwks_url"`
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:                 "8080",
		Environment:          "dev",
		StorageRoot:          "/data/docs",
		ArchiveRoot:          "/data/archives",
		DatabaseDriver:       DriverSQLite,
		SQLitePath:           "/data/db.sqlite",
		SQLiteBusyTimeout:    DefaultSQLiteBusyTimeout,
		CORSOrigins:          "http://localhost:3000",
		RedisTTL:             DefaultRedisTTL,
		LogMaxFiles:          DefaultLogMaxFiles,
		MaxUploadBytes:       DefaultMaxUploadBytes,
		MaxUncompressedBytes: DefaultMaxUncompressedBytes,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.StorageRoot = getEnv("STORAGE_ROOT", c.StorageRoot)
	c.ArchiveRoot = getEnv("ARCHIVE_ROOT", c.ArchiveRoot)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.DatabaseDriver = getEnv("DATABASE_DRIVER", c.DatabaseDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.Auth.JWKSURL = getEnv("JWKS_URL", c.Auth.JWKSURL)

	var errs []error

	if v := os.Getenv("REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		errs = append(errs, envError("REDIS_TTL", err))
		c.RedisTTL = ttl
	}
	if v := os.Getenv("SQLITE_BUSY_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		errs = append(errs, envError("SQLITE_BUSY_TIMEOUT", err))
		c.SQLiteBusyTimeout = timeout
	}
	if v := os.Getenv("LOG_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, envError("LOG_MAX_FILES", err))
		c.LogMaxFiles = n
	}
	if v := os.Getenv("SHOULD_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		errs = append(errs, envError("SHOULD_SECURE", err))
		c.Auth.ShouldSecure = secure
	}
	if v := os.Getenv("CREDENTIALS"); v != "" {
		username, password, err := ParseCredentials(v)
		errs = append(errs, envError("CREDENTIALS", err))
		c.Auth.Username, c.Auth.Password = username, password
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envError("MAX_UPLOAD_BYTES", err))
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("MAX_UNCOMPRESSED_BYTES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		errs = append(errs, envError("MAX_UNCOMPRESSED_BYTES", err))
		c.MaxUncompressedBytes = n
	}

	return errors.Join(errs...)
}

// Validate checks field consistency
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.StorageRoot, validation.Required),
		validation.Field(&c.ArchiveRoot, validation.Required),
		validation.Field(&c.DatabaseDriver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DatabaseURL, validation.When(c.DatabaseDriver == DriverPostgres, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.DatabaseDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.SQLiteBusyTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxUploadBytes, validation.Min(int64(1))),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
		validation.Field(&c.Auth),
	)
}

// Validate requires a credential source once security is on
func (a AuthConfig) Validate() error {
	if !a.ShouldSecure {
		return nil
	}
	if a.Username == "" && a.JWKSURL == "" {
		return errors.New("should_secure requires credentials or a JWKS URL")
	}
	return nil
}

// AllowedOrigins splits CORSOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// CORSAllowsCredentials is false once any origin is the "*" wildcard. Echoing
// an arbitrary Origin together with credentials would let every site act with
// the caller's basic credentials.
func (c *Config) CORSAllowsCredentials() bool {
	for _, origin := range c.AllowedOrigins() {
		if origin == "*" {
			return false
		}
	}
	return true
}

// PathContext returns the roots used to render listing paths
func (c *Config) PathContext() models.PathContext {
	return models.PathContext{
		StorageRoot: c.StorageRoot,
		ArchiveRoot: c.ArchiveRoot,
	}
}

// ParseCredentials splits "user:pass". The password may itself contain ':'.
func ParseCredentials(raw string) (string, string, error) {
	username, password, ok := strings.Cut(raw, ":")
	if !ok || username == "" || password == "" {
		return "", "", errors.New(`credentials must be formatted as "user:password"`)
	}
	return username, password, nil
}

func envError(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

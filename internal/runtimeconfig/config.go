package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("contentjson config: content directory is required")
var ErrManifestNameInvalid = errors.New("contentjson config: manifest name must be a plain file name")
var ErrDependencyPrefixRequired = errors.New("contentjson config: dependency prefix is required")
var ErrStorageProviderUnknown = errors.New("contentjson config: storage provider is invalid")
var ErrS3EndpointRequired = errors.New("contentjson config: s3 endpoint is required for the s3 storage provider")
var ErrS3BucketRequired = errors.New("contentjson config: s3 bucket is required for the s3 storage provider")
var ErrS3CredentialsRequired = errors.New("contentjson config: s3 access key and secret key are required for the s3 storage provider")
var ErrSQLiteDSNRequired = errors.New("contentjson config: sqlite dsn is required for the sqlite storage provider")
var ErrLoggingProviderUnknown = errors.New("contentjson config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("contentjson config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("contentjson config: logging format is invalid")
var ErrBuildTimeoutInvalid = errors.New("contentjson config: build timeout must be zero or positive")

// Storage providers.
const (
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageSQLite = "sqlite"
)

// Config aggregates everything a build or markdown run needs.
type Config struct {
	ContentDir         string         `yaml:"content_dir"`
	ManifestName       string         `yaml:"manifest_name"`
	ManifestPathPrefix string         `yaml:"manifest_path_prefix"`
	DependencyPrefix   string         `yaml:"dependency_prefix"`
	Scan               ScanConfig     `yaml:"scan"`
	Markdown           MarkdownConfig `yaml:"markdown"`
	Storage            StorageConfig  `yaml:"storage"`
	Build              BuildConfig    `yaml:"build"`
	Logging            LoggingConfig  `yaml:"logging"`
}

// ScanConfig overrides the candidate filter. Empty lists keep the defaults.
type ScanConfig struct {
	IgnoreNames     []string `yaml:"ignore_names"`
	IgnorePatterns  []string `yaml:"ignore_patterns"`
	IncludePatterns []string `yaml:"include_patterns"`
}

// MarkdownConfig configures the Markdown compiler.
type MarkdownConfig struct {
	Template   string   `yaml:"template"`
	Pattern    string   `yaml:"pattern"`
	Exclude    string   `yaml:"exclude"`
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// StorageConfig selects where the manifest is persisted.
type StorageConfig struct {
	Provider string       `yaml:"provider"`
	S3       S3Config     `yaml:"s3"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// S3Config locates the manifest object in an S3 compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// SQLiteConfig locates the manifest row in a sqlite database.
type SQLiteConfig struct {
	DSN  string `yaml:"dsn"`
	Name string `yaml:"name"`
}

// BuildConfig tunes a build run.
type BuildConfig struct {
	Timeout              time.Duration `yaml:"timeout"`
	SkipSchemaValidation bool          `yaml:"skip_schema_validation"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string `yaml:"provider"`
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// DefaultConfig mirrors the layout the front-end loader expects.
func DefaultConfig() Config {
	return Config{
		ContentDir:         "resource/content",
		ManifestName:       "content.json",
		ManifestPathPrefix: "content/",
		DependencyPrefix:   "mydeps",
		Markdown: MarkdownConfig{
			Pattern: "**.md",
			Exclude: "default*md",
		},
		Storage: StorageConfig{
			Provider: StorageFile,
			S3: S3Config{
				Region: "us-east-1",
				Key:    "content.json",
			},
			SQLite: SQLiteConfig{
				Name: "content.json",
			},
		},
		Build: BuildConfig{
			Timeout: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return ErrContentDirRequired
	}
	name := strings.TrimSpace(cfg.ManifestName)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrManifestNameInvalid, cfg.ManifestName)
	}
	if strings.TrimSpace(cfg.DependencyPrefix) == "" {
		return ErrDependencyPrefixRequired
	}
	if cfg.Build.Timeout < 0 {
		return ErrBuildTimeoutInvalid
	}

	switch normalize(cfg.Storage.Provider) {
	case "", StorageFile:
	case StorageS3:
		if strings.TrimSpace(cfg.Storage.S3.Endpoint) == "" {
			return ErrS3EndpointRequired
		}
		if strings.TrimSpace(cfg.Storage.S3.Bucket) == "" {
			return ErrS3BucketRequired
		}
		if strings.TrimSpace(cfg.Storage.S3.AccessKey) == "" || strings.TrimSpace(cfg.Storage.S3.SecretKey) == "" {
			return ErrS3CredentialsRequired
		}
	case StorageSQLite:
		if strings.TrimSpace(cfg.Storage.SQLite.DSN) == "" {
			return ErrSQLiteDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// StorageProvider returns the normalised storage provider, defaulting to file.
func (cfg Config) StorageProvider() string {
	if provider := normalize(cfg.Storage.Provider); provider != "" {
		return provider
	}
	return StorageFile
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

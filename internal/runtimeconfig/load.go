package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "CONTENTJSON_"

var ErrEnvValueInvalid = errors.New("contentjson config: environment value is invalid")

// LoadFile reads a YAML file over DefaultConfig. Keys absent from the file
// keep their default.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("contentjson config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("contentjson config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the effective configuration: defaults, then the optional YAML
// file, then .env files and CONTENTJSON_* variables. The result is validated.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(&cfg, envFiles...); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv loads the given .env files (".env" when none are named) without
// overriding variables already set, then applies CONTENTJSON_* overrides.
// Missing .env files are ignored.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("contentjson config: load %s: %w", file, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	getEnv := func(key string, target *string) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	getBool := func(key string, target *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrEnvValueInvalid, EnvPrefix, key, v)
		}
		*target = parsed
		return nil
	}

	getEnv("CONTENT_DIR", &cfg.ContentDir)
	getEnv("MANIFEST_NAME", &cfg.ManifestName)
	getEnv("MANIFEST_PREFIX", &cfg.ManifestPathPrefix)
	getEnv("DEPENDENCY_PREFIX", &cfg.DependencyPrefix)
	getEnv("MARKDOWN_TEMPLATE", &cfg.Markdown.Template)
	getEnv("STORAGE", &cfg.Storage.Provider)
	getEnv("S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	getEnv("S3_REGION", &cfg.Storage.S3.Region)
	getEnv("S3_ACCESS_KEY", &cfg.Storage.S3.AccessKey)
	getEnv("S3_SECRET_KEY", &cfg.Storage.S3.SecretKey)
	getEnv("S3_BUCKET", &cfg.Storage.S3.Bucket)
	getEnv("S3_KEY", &cfg.Storage.S3.Key)
	getEnv("SQLITE_DSN", &cfg.Storage.SQLite.DSN)
	getEnv("SQLITE_NAME", &cfg.Storage.SQLite.Name)
	getEnv("LOG_PROVIDER", &cfg.Logging.Provider)
	getEnv("LOG_LEVEL", &cfg.Logging.Level)
	getEnv("LOG_FORMAT", &cfg.Logging.Format)

	if err := getBool("S3_USE_SSL", &cfg.Storage.S3.UseSSL); err != nil {
		return err
	}
	if err := getBool("MARKDOWN_SAFE_MODE", &cfg.Markdown.SafeMode); err != nil {
		return err
	}
	if err := getBool("SKIP_SCHEMA_VALIDATION", &cfg.Build.SkipSchemaValidation); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "BUILD_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		timeout, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sBUILD_TIMEOUT=%q", ErrEnvValueInvalid, EnvPrefix, v)
		}
		cfg.Build.Timeout = timeout
	}
	return nil
}

package contentjson

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/internal/logging/console"
	"github.com/goliatone/go-contentjson/internal/logging/gologger"
	"github.com/goliatone/go-contentjson/internal/runtimeconfig"
	"github.com/goliatone/go-contentjson/internal/scan"
	"github.com/goliatone/go-contentjson/internal/storage"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

// openStore returns a nil closer when the store holds no connection.
func openStore(ctx context.Context, cfg runtimeconfig.Config, logger interfaces.Logger) (interfaces.ManifestStore, func() error, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	provider := cfg.StorageProvider()
	logger = logging.WithFields(logger, map[string]any{"storage_provider": provider})
	switch provider {
	case runtimeconfig.StorageS3:
		key := cfg.Storage.S3.Key
		if strings.TrimSpace(key) == "" {
			key = cfg.ManifestName
		}
		store, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Bucket:    cfg.Storage.S3.Bucket,
			Key:       key,
			UseSSL:    cfg.Storage.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("manifest.store.opened", "bucket", cfg.Storage.S3.Bucket, "key", store.Key())
		return store, nil, nil
	case runtimeconfig.StorageSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.SQLite.DSN)
		if err != nil {
			return nil, nil, err
		}
		name := cfg.Storage.SQLite.Name
		if strings.TrimSpace(name) == "" {
			name = cfg.ManifestName
		}
		store := storage.NewBunStore(db, name)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Debug("manifest.store.opened", "name", name)
		return store, db.Close, nil
	default:
		store := storage.NewFileStore(filepath.Join(cfg.ContentDir, cfg.ManifestName))
		logger.Debug("manifest.store.opened", "path", store.Path())
		return store, nil, nil
	}
}

// newFilter keeps the default rules for every list left empty in cfg.Scan.
func newFilter(cfg runtimeconfig.Config) (*scan.Filter, error) {
	filterCfg := scan.DefaultFilterConfig(cfg.ManifestName, cfg.DependencyPrefix)
	if len(cfg.Scan.IgnoreNames) > 0 {
		filterCfg.IgnoreNames = cfg.Scan.IgnoreNames
	}
	if len(cfg.Scan.IgnorePatterns) > 0 {
		filterCfg.IgnorePatterns = cfg.Scan.IgnorePatterns
	}
	if len(cfg.Scan.IncludePatterns) > 0 {
		filterCfg.IncludePatterns = cfg.Scan.IncludePatterns
	}
	return scan.NewFilter(filterCfg)
}

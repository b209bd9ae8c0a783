// Package builder runs the manifest pipeline: load the prior manifest, scan
// the content root, extract every candidate, assemble, validate and persist.
package builder

import (
	"context"
	"io/fs"
	"time"

	"github.com/goliatone/go-contentjson/internal/extract"
	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/internal/manifest"
	"github.com/goliatone/go-contentjson/internal/scan"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
	"github.com/google/uuid"
)

// Config captures the naming rules of a build.
type Config struct {
	// ManifestPrefix is prepended to relative paths in the manifest.
	ManifestPrefix string
	// DependencyPrefix marks dependency files by relative path.
	DependencyPrefix string
	// SkipSchemaValidation disables the JSON Schema check before persisting.
	SkipSchemaValidation bool
}

// Dependencies lists the collaborators required by the builder.
type Dependencies struct {
	// Content is rooted at the content directory.
	Content fs.FS
	Filter  *scan.Filter
	Store   interfaces.ManifestStore
	Logger  interfaces.Logger
}

// Service implements interfaces.ManifestBuilder.
type Service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
	runID  func() string
}

var _ interfaces.ManifestBuilder = (*Service)(nil)

// NewService wires a builder.
func NewService(cfg Config, deps Dependencies) *Service {
	if cfg.ManifestPrefix == "" {
		cfg.ManifestPrefix = extract.DefaultManifestPrefix
	}
	if cfg.DependencyPrefix == "" {
		cfg.DependencyPrefix = scan.DefaultDependencyPrefix
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
		runID:  uuid.NewString,
	}
}

// Build runs the pipeline once. The first file that cannot be classified or
// extracted aborts the run and nothing is written.
func (s *Service) Build(ctx context.Context, opts interfaces.BuildOptions) (*interfaces.BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := s.now()
	runID := s.runID()
	logger := logging.WithRunID(s.logger.WithContext(ctx), runID)
	logger.Info("manifest.build.start", "dry_run", opts.DryRun)

	memory := manifest.LoadMemory(ctx, s.deps.Store, logger)

	scanner := scan.NewScanner(s.deps.Content, s.deps.Filter, scan.WithLogger(logger))
	candidates, err := scanner.Scan(ctx)
	if err != nil {
		logger.Error("manifest.build.scan_failed", "error", err)
		return nil, wrapIOError(err, "scan content directory", codeScanFailed)
	}

	extractor := extract.New(extract.Config{
		ManifestPrefix:   s.cfg.ManifestPrefix,
		DependencyPrefix: s.cfg.DependencyPrefix,
		Memory:           memory,
	})

	result := &interfaces.BuildResult{RunID: runID}
	records := make([]manifest.Record, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, wrapIOError(err, "build interrupted", codeBuildInterrupted)
		}
		extraction, err := extractor.Extract(candidate)
		if err != nil {
			logging.WithContentFile(logger, candidate.Path, "").Error("manifest.build.extract_failed", "error", err)
			return nil, wrapContentError(err, "extract content file")
		}
		if extraction.Record.Kind() == manifest.KindArticle && extraction.LastMod == extract.LastModMemoized {
			result.Memoized++
		}
		logging.WithContentFile(logger, candidate.Path, string(extraction.Record.Kind())).
			Debug("manifest.build.extracted", "last_mod_source", extraction.LastMod.String())
		records = append(records, extraction.Record)
	}

	assembly, err := manifest.Assemble(records)
	if err != nil {
		logger.Error("manifest.build.assemble_failed", "error", err)
		return nil, wrapContentError(err, "assemble manifest")
	}
	data, err := assembly.Document.Marshal()
	if err != nil {
		return nil, wrapContentError(err, "serialize manifest")
	}
	if !s.cfg.SkipSchemaValidation {
		if err := manifest.ValidateDocument(data); err != nil {
			logger.Error("manifest.build.schema_invalid", "error", err)
			return nil, wrapContentError(err, "validate manifest")
		}
	}

	result.Dependencies = len(assembly.Document.Dependencies)
	result.Articles = len(assembly.Document.Articles)
	result.Fragments = len(assembly.Document.Fragments)
	result.Drafts = assembly.Drafts
	result.Document = data

	if !opts.DryRun {
		if s.deps.Store == nil {
			return nil, wrapIOError(errStoreRequired, "persist manifest", codeStoreMissing)
		}
		if err := s.deps.Store.Save(ctx, data); err != nil {
			logger.Error("manifest.build.write_failed", "error", err)
			return nil, wrapIOError(err, "persist manifest", codeWriteFailed)
		}
		result.Written = true
	}

	result.Duration = s.now().Sub(start)
	logger.Info("manifest.build.completed",
		"dependencies", result.Dependencies,
		"articles", result.Articles,
		"fragments", result.Fragments,
		"drafts", result.Drafts,
		"memoized", result.Memoized,
		"written", result.Written,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

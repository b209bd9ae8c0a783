// Package scan walks a content root and returns the files that are candidates
// for the manifest.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// Candidate is a file selected for classification.
type Candidate struct {
	// Path is relative to the content root, slash separated.
	Path    string
	Data    []byte
	ModTime time.Time
}

// Scanner walks an fs.FS rooted at the content directory.
type Scanner struct {
	fsys   fs.FS
	filter *Filter
	logger interfaces.Logger
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner constructs a Scanner. A nil filter falls back to DefaultFilter.
func NewScanner(fsys fs.FS, filter *Filter, opts ...Option) *Scanner {
	if filter == nil {
		filter = DefaultFilter("", "")
	}
	s := &Scanner{fsys: fsys, filter: filter, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns accepted files in lexical walk order. Each file is read once.
func (s *Scanner) Scan(ctx context.Context) ([]Candidate, error) {
	if s.fsys == nil {
		return nil, fmt.Errorf("scan: filesystem not configured")
	}

	var candidates []Candidate
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			s.logger.Debug("scan.entry.skipped", "content_path", path, "reason", "not a regular file")
			return nil
		}
		if !s.filter.Accept(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("scan: stat %s: %w", path, err)
		}
		data, err := fs.ReadFile(s.fsys, path)
		if err != nil {
			return fmt.Errorf("scan: read %s: %w", path, err)
		}
		candidates = append(candidates, Candidate{
			Path:    path,
			Data:    data,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scan.completed", "candidates", len(candidates))
	return candidates, nil
}

package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrManifestNotFound is returned by ManifestStore.Load when no manifest has
// been persisted yet.
var ErrManifestNotFound = errors.New("manifest store: manifest not found")

// ManifestStore persists the serialized manifest document. Save overwrites
// whatever was stored before.
type ManifestStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// ManifestBuilder is the high-level contract exposed to commands and hosts.
type ManifestBuilder interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// BuildOptions tunes a single build run.
type BuildOptions struct {
	// DryRun assembles and validates the manifest without persisting it.
	DryRun bool
}

// BuildResult summarises a build run.
type BuildResult struct {
	RunID        string
	Dependencies int
	Articles     int
	Fragments    int
	Drafts       int
	// Memoized counts articles whose lastMod was reused from the prior manifest.
	Memoized int
	// Written is false for dry runs.
	Written  bool
	Duration time.Duration
	Document []byte
}

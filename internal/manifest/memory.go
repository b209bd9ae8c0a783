package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// Memory maps a content hash to the lastMod recorded for it by the previous
// run. It is built once per run and read-only afterwards.
type Memory struct {
	lastMods map[string]string
}

// NewMemory builds a Memory from hash -> lastMod pairs.
func NewMemory(entries map[string]string) *Memory {
	m := &Memory{lastMods: make(map[string]string, len(entries))}
	for hash, lastMod := range entries {
		m.lastMods[hash] = lastMod
	}
	return m
}

// EmptyMemory knows no prior hashes.
func EmptyMemory() *Memory {
	return NewMemory(nil)
}

// ParseMemory reads the article collection of a serialized manifest. When the
// same hash appears twice the first entry wins. Entries whose lastMod is not
// an RFC 3339 timestamp are skipped so their hash falls back to mtime.
func ParseMemory(data []byte) (*Memory, error) {
	var prior struct {
		Articles []struct {
			Hash    string `json:"hash"`
			LastMod string `json:"lastMod"`
		} `json:"metaArticles"`
	}
	if err := json.Unmarshal(data, &prior); err != nil {
		return nil, fmt.Errorf("manifest: parse prior manifest: %w", err)
	}

	m := &Memory{lastMods: make(map[string]string, len(prior.Articles))}
	for _, article := range prior.Articles {
		if article.Hash == "" || !validLastMod(article.LastMod) {
			continue
		}
		if _, seen := m.lastMods[article.Hash]; seen {
			continue
		}
		m.lastMods[article.Hash] = article.LastMod
	}
	return m, nil
}

func validLastMod(value string) bool {
	_, err := time.Parse(time.RFC3339Nano, value)
	return err == nil
}

// LoadMemory reads the prior manifest from store. A missing or corrupt prior
// manifest yields an empty memory; it never fails the run.
func LoadMemory(ctx context.Context, store interfaces.ManifestStore, logger interfaces.Logger) *Memory {
	if logger == nil {
		logger = logging.NoOp()
	}
	if store == nil {
		return EmptyMemory()
	}

	data, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, interfaces.ErrManifestNotFound) {
			logger.Debug("manifest.memory.prior_missing")
		} else {
			logger.Warn("manifest.memory.prior_unreadable", "error", err)
		}
		return EmptyMemory()
	}

	memory, err := ParseMemory(data)
	if err != nil {
		logger.Warn("manifest.memory.prior_corrupt", "error", err)
		return EmptyMemory()
	}
	logger.Debug("manifest.memory.loaded", "entries", memory.Len())
	return memory
}

// LastMod returns the lastMod previously recorded for hash.
func (m *Memory) LastMod(hash string) (string, bool) {
	if m == nil {
		return "", false
	}
	lastMod, ok := m.lastMods[hash]
	return lastMod, ok
}

// Len returns the number of known hashes.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	return len(m.lastMods)
}

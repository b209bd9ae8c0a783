package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
	"github.com/uptrace/bun"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "content.json"))

	if _, err := store.Load(ctx); !errors.Is(err, interfaces.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}

	if err := store.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `{"v":2}` {
		t.Fatalf("unexpected manifest %s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "content.json" {
		t.Fatalf("expected only content.json, got %v", entries)
	}
}

func TestFileStoreSaveFailsForMissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "content.json"))
	if err := store.Save(context.Background(), []byte("{}")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	if _, err := store.Load(ctx); !errors.Is(err, interfaces.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}

	payload := []byte("{}")
	if err := store.Save(ctx, payload); err != nil {
		t.Fatalf("Save: %v", err)
	}
	payload[0] = 'x'
	data, err := store.Load(ctx)
	if err != nil || string(data) != "{}" {
		t.Fatalf("expected stored copy, got %q %v", data, err)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected one save, got %d", store.Saves())
	}
}

func TestBunStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewBunStore(db, "")
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, interfaces.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
	if err := store.Save(ctx, []byte(`{"mydeps":[]}`)); err != nil {
		t.Fatalf("Save create: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"mydeps":["a"]}`)); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `{"mydeps":["a"]}` {
		t.Fatalf("unexpected manifest %s", data)
	}

	other := NewBunStore(db, "preview.json")
	if _, err := other.Load(ctx); !errors.Is(err, interfaces.ErrManifestNotFound) {
		t.Fatalf("rows are keyed by name, got %v", err)
	}
}

func TestNewS3StoreValidatesConfig(t *testing.T) {
	if _, err := NewS3Store(S3Config{Bucket: "b", AccessKey: "a", SecretKey: "s"}); err == nil {
		t.Fatalf("expected endpoint error")
	}
	if _, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "b"}); err == nil {
		t.Fatalf("expected credentials error")
	}
	if _, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}); err == nil {
		t.Fatalf("expected bucket error")
	}

	store, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "site", Key: "/manifests/content.json"})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if store.Key() != "manifests/content.json" {
		t.Fatalf("unexpected key %s", store.Key())
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := OpenSQLite("file:storage_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.NewDropTable().Model((*manifestModel)(nil)).IfExists().Exec(ctx); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return db
}

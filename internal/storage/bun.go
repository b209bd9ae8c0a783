package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// DefaultManifestRow names the row used when BunStore is given no name.
const DefaultManifestRow = "content.json"

// OpenSQLite opens a sqlite database through go-sqlite3 and wraps it in Bun.
func OpenSQLite(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("storage: sqlite dsn is required")
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// BunStore keeps manifests in a table, one row per manifest name.
type BunStore struct {
	db   *bun.DB
	name string
	now  func() time.Time
}

var _ interfaces.ManifestStore = (*BunStore)(nil)

// NewBunStore returns a store reading and writing the row called name.
func NewBunStore(db *bun.DB, name string) *BunStore {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultManifestRow
	}
	return &BunStore{db: db, name: name, now: time.Now}
}

// EnsureSchema creates the manifests table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("storage: bun store requires a database")
	}
	if _, err := s.db.NewCreateTable().Model((*manifestModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("storage: create manifests table: %w", err)
	}
	return nil
}

func (s *BunStore) Load(ctx context.Context) ([]byte, error) {
	if s.db == nil {
		return nil, errors.New("storage: bun store requires a database")
	}
	var model manifestModel
	if err := s.db.NewSelect().Model(&model).Where("name = ?", s.name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrManifestNotFound
		}
		return nil, fmt.Errorf("storage: select manifest %s: %w", s.name, err)
	}
	return []byte(model.Document), nil
}

func (s *BunStore) Save(ctx context.Context, data []byte) error {
	if s.db == nil {
		return errors.New("storage: bun store requires a database")
	}

	var existing manifestModel
	err := s.db.NewSelect().Model(&existing).Where("name = ?", s.name).Scan(ctx)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("storage: select manifest %s: %w", s.name, err)
		}
		created = true
	}

	model := manifestModel{
		Name:      s.name,
		Document:  string(data),
		UpdatedAt: s.now().UTC(),
	}
	if created {
		if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return fmt.Errorf("storage: insert manifest %s: %w", s.name, err)
		}
		return nil
	}
	if _, err := s.db.NewUpdate().
		Model(&model).
		Column("document", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return fmt.Errorf("storage: update manifest %s: %w", s.name, err)
	}
	return nil
}

type manifestModel struct {
	bun.BaseModel `bun:"table:content_manifests"`

	Name      string    `bun:"name,pk"`
	Document  string    `bun:"document,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/votewallet/logofetch/internal/model"
)

// ErrNotFound is returned when a catalog entry doesn't exist.
// Go uses sentinel errors (predefined error values) instead of exception types.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("catalog entry not found")

// Catalog defines the interface for candidate persistence.
// Go interfaces are implicit — any struct that has these methods satisfies it,
// which keeps the pipeline testable without a real database.
type Catalog interface {
	Create(ctx context.Context, entry *model.CatalogEntry) error
	SetOutcome(ctx context.Context, id int64, status model.DownloadStatus, storedPath, errMsg string) error
	ListByCompany(ctx context.Context, company string) ([]model.CatalogEntry, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.DownloadStatus) (int64, error)
}

// sqliteCatalog is the SQLite implementation of Catalog.
// The struct is unexported — only the interface is public.
type sqliteCatalog struct {
	db *sqlx.DB
}

// NewCatalog creates a new SQLite-backed Catalog.
func NewCatalog(db *sqlx.DB) Catalog {
	return &sqliteCatalog{db: db}
}

func (c *sqliteCatalog) Create(ctx context.Context, entry *model.CatalogEntry) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := c.db.NamedExecContext(ctx, `
		INSERT INTO candidates (company, article, position, filename, url, mime,
			width, height, byte_size, license, artist, status)
		VALUES (:company, :article, :position, :filename, :url, :mime,
			:width, :height, :byte_size, :license, :artist, :status)
	`, entry)
	if err != nil {
		return fmt.Errorf("creating catalog entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (c *sqliteCatalog) SetOutcome(ctx context.Context, id int64, status model.DownloadStatus, storedPath, errMsg string) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE candidates SET status = ?, stored_path = ?, error = ? WHERE id = ?
	`, status, storedPath, errMsg, id)
	if err != nil {
		return fmt.Errorf("setting outcome for entry %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *sqliteCatalog) ListByCompany(ctx context.Context, company string) ([]model.CatalogEntry, error) {
	var entries []model.CatalogEntry
	err := c.db.SelectContext(ctx, &entries,
		"SELECT * FROM candidates WHERE company = ? ORDER BY position", company)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing entries for %s: %w", company, err)
	}
	return entries, nil
}

func (c *sqliteCatalog) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM candidates"); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

func (c *sqliteCatalog) CountByStatus(ctx context.Context, status model.DownloadStatus) (int64, error) {
	var n int64
	if err := c.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM candidates WHERE status = ?", status); err != nil {
		return 0, fmt.Errorf("counting entries by status: %w", err)
	}
	return n, nil
}

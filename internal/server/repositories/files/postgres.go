package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/dbx"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
)

const selectColumns = `id, user_id, filename, filepath, type, size, modified, favorite, color, parent_id, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts entry and fills in its ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.FileEntry) (*models.FileEntry, error) {
	query := `
		INSERT INTO files (user_id, filename, filepath, type, size, modified, favorite, color, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.OwnerID, entry.Name, entry.Locator, string(entry.Kind), entry.Size,
		entry.Modified, entry.Favorite, entry.Color, entry.ParentID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// ListByOwner returns every entry of ownerID, newest modification first,
// ties broken by ascending id.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.FileEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id = $1
		ORDER BY modified DESC, id ASC`
	return r.queryMany(ctx, query, ownerID)
}

// ListChildren returns the direct children of parentID.
func (r *PostgresRepository) ListChildren(ctx context.Context, ownerID, parentID int64) ([]*models.FileEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY id`
	return r.queryMany(ctx, query, ownerID, parentID)
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id int64) (*models.FileEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id = $1 AND id = $2`
	return r.queryOne(ctx, query, ownerID, id)
}

func (r *PostgresRepository) GetByLocator(ctx context.Context, ownerID int64, locator string) (*models.FileEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id = $1 AND filepath = $2`
	return r.queryOne(ctx, query, ownerID, locator)
}

// Update writes the mutable fields (favorite, color, parent, modified).
func (r *PostgresRepository) Update(ctx context.Context, entry *models.FileEntry) error {
	query := `
		UPDATE files SET favorite = $1, color = $2, parent_id = $3, modified = $4
		WHERE user_id = $5 AND id = $6`

	res, err := r.db.ExecContext(ctx, query,
		entry.Favorite, entry.Color, entry.ParentID, entry.Modified, entry.OwnerID, entry.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE user_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.FileEntry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.FileEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FileEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.FileEntry, error) {
	var (
		e        models.FileEntry
		kind     string
		locator  sql.NullString
		size     sql.NullString
		color    sql.NullString
		parentID sql.NullInt64
	)
	err := s.Scan(&e.ID, &e.OwnerID, &e.Name, &locator, &kind, &size,
		&e.Modified, &e.Favorite, &color, &parentID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Kind = models.Kind(kind)
	e.Locator = nullString(locator)
	e.Size = nullString(size)
	e.Color = nullString(color)
	if parentID.Valid {
		id := parentID.Int64
		e.ParentID = &id
	}
	return &e, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

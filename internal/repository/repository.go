package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the repository.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository reads and writes menus, submenus and dishes. Descendants are
// removed by the ON DELETE CASCADE foreign keys.
type Repository struct {
	db *sql.DB
	q  Querier
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, q: db}
}

// WithTx runs fn against a copy of the repository bound to one transaction.
// Nested calls reuse the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Repository{q: tx}); err != nil {
		tx.Rollback()
		return err
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// deleteByIDs removes rows of table whose id is in ids with one statement.
func (r *Repository) deleteByIDs(ctx context.Context, table string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	// Build the query
	query := `DELETE FROM ` + table + ` WHERE id IN (`
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		query += "?,"
		values = append(values, id)
	}

	// Remove the trailing comma
	query = strings.TrimSuffix(query, ",") + ")"

	_, err := r.q.ExecContext(ctx, query, values...)
	return err
}

// expectRow maps a write that matched nothing to notFound.
func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

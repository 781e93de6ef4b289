// Package testdb opens throwaway catalog databases for package tests.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"menu-service/migrations"
)

// Open returns an in-memory sqlite database with the catalog schema and
// foreign keys enforced. It is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.AutoMigrateCatalog(context.Background(), db, 0))
	return db
}

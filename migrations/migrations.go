package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Order matters: children reference their parents.
var catalogTables = []string{
	`
		CREATE TABLE IF NOT EXISTS menus (
			id CHAR(36) NOT NULL PRIMARY KEY,
			title VARCHAR(32) NOT NULL,
			description VARCHAR(300) NOT NULL
		);
	`,
	`
		CREATE TABLE IF NOT EXISTS submenus (
			id CHAR(36) NOT NULL PRIMARY KEY,
			menu_id CHAR(36) NOT NULL,
			title VARCHAR(32) NOT NULL,
			description VARCHAR(300) NOT NULL,
			FOREIGN KEY (menu_id) REFERENCES menus(id) ON DELETE CASCADE
		);
	`,
	`
		CREATE TABLE IF NOT EXISTS dishes (
			id CHAR(36) NOT NULL PRIMARY KEY,
			submenu_id CHAR(36) NOT NULL,
			title VARCHAR(32) NOT NULL,
			description VARCHAR(300) NOT NULL,
			price VARCHAR(32) NOT NULL,
			FOREIGN KEY (submenu_id) REFERENCES submenus(id) ON DELETE CASCADE
		);
	`,
}

// AutoMigrateCatalog creates the menus, submenus and dishes tables if they do
// not exist, retrying each statement up to retries extra times.
func AutoMigrateCatalog(ctx context.Context, db *sql.DB, retries int) error {
	for _, query := range catalogTables {
		_, err := db.ExecContext(ctx, query)
		// Retry creating the table
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.ExecContext(ctx, query)
		}
		if err != nil {
			return fmt.Errorf("create catalog table: %w", err)
		}
	}
	return nil
}

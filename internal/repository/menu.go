package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"menu-service/internal/entity"
)

// Counts come from correlated sub-selects so a row and its counts are read by
// one statement.
const menuSelect = `
	SELECT m.id, m.title, m.description,
		(SELECT COUNT(*) FROM submenus s WHERE s.menu_id = m.id),
		(SELECT COUNT(*) FROM dishes d JOIN submenus s ON s.id = d.submenu_id WHERE s.menu_id = m.id)
	FROM menus m`

func scanMenu(row interface{ Scan(...interface{}) error }) (entity.Menu, error) {
	var menu entity.Menu
	err := row.Scan(&menu.ID, &menu.Title, &menu.Description, &menu.SubmenusCount, &menu.DishesCount)
	return menu, err
}

func (r *Repository) GetMenus(ctx context.Context) ([]entity.Menu, error) {
	rows, err := r.q.QueryContext(ctx, menuSelect+` ORDER BY m.title, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := []entity.Menu{}
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

func (r *Repository) menuExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

func (r *Repository) GetMenuByID(ctx context.Context, id uuid.UUID) (*entity.Menu, error) {
	menu, err := scanMenu(r.q.QueryRowContext(ctx, menuSelect+` WHERE m.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *Repository) CreateMenu(ctx context.Context, menu entity.Menu) error {
	query := `INSERT INTO menus (id, title, description) VALUES (?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, menu.ID, menu.Title, menu.Description)
	return err
}

// UpdateMenu applies the non-nil fields of in and returns the stored menu.
func (r *Repository) UpdateMenu(ctx context.Context, id uuid.UUID, in entity.MenuUpdate) (*entity.Menu, error) {
	var menu *entity.Menu
	err := r.WithTx(ctx, func(tx *Repository) error {
		query := `UPDATE menus SET title = COALESCE(?, title), description = COALESCE(?, description) WHERE id = ?`
		if _, err := tx.q.ExecContext(ctx, query, nullString(in.Title), nullString(in.Description), id); err != nil {
			return err
		}
		var err error
		menu, err = tx.GetMenuByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// ReplaceMenu overwrites title and description.
func (r *Repository) ReplaceMenu(ctx context.Context, menu entity.Menu) error {
	query := `UPDATE menus SET title = ?, description = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, menu.Title, menu.Description, menu.ID)
	return err
}

func (r *Repository) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(res, entity.ErrMenuNotFound)
}

// DeleteMenuTree deletes a menu and returns the submenu and dish ids removed
// with it.
func (r *Repository) DeleteMenuTree(ctx context.Context, id uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	var children map[uuid.UUID][]uuid.UUID
	err := r.WithTx(ctx, func(tx *Repository) error {
		var err error
		if children, err = tx.GetMenuChildren(ctx, id); err != nil {
			return err
		}
		return tx.DeleteMenu(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (r *Repository) DeleteMenus(ctx context.Context, ids []uuid.UUID) error {
	return r.deleteByIDs(ctx, "menus", ids)
}

// GetMenuChildren maps every submenu of a menu to its dish ids.
func (r *Repository) GetMenuChildren(ctx context.Context, menuID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	query := `
		SELECT s.id, d.id
		FROM submenus s
		LEFT JOIN dishes d ON d.submenu_id = s.id
		WHERE s.menu_id = ?`
	rows, err := r.q.QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var submenuID uuid.UUID
		var dishID uuid.NullUUID
		if err := rows.Scan(&submenuID, &dishID); err != nil {
			return nil, err
		}
		if _, ok := children[submenuID]; !ok {
			children[submenuID] = nil
		}
		if dishID.Valid {
			children[submenuID] = append(children[submenuID], dishID.UUID)
		}
	}
	return children, rows.Err()
}

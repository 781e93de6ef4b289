package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"menu-service/internal/entity"
)

const submenuSelect = `
	SELECT s.id, s.menu_id, s.title, s.description,
		(SELECT COUNT(*) FROM dishes d WHERE d.submenu_id = s.id)
	FROM submenus s`

func scanSubmenu(row interface{ Scan(...interface{}) error }) (entity.Submenu, error) {
	var submenu entity.Submenu
	err := row.Scan(&submenu.ID, &submenu.MenuID, &submenu.Title, &submenu.Description, &submenu.DishesCount)
	return submenu, err
}

func (r *Repository) querySubmenus(ctx context.Context, query string, args ...interface{}) ([]entity.Submenu, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submenus := []entity.Submenu{}
	for rows.Next() {
		submenu, err := scanSubmenu(rows)
		if err != nil {
			return nil, err
		}
		submenus = append(submenus, submenu)
	}
	return submenus, rows.Err()
}

// GetSubmenus lists the submenus of a menu, or returns entity.ErrMenuNotFound
// when the menu does not exist.
func (r *Repository) GetSubmenus(ctx context.Context, menuID uuid.UUID) ([]entity.Submenu, error) {
	submenus, err := r.querySubmenus(ctx, submenuSelect+` WHERE s.menu_id = ? ORDER BY s.title, s.id`, menuID)
	if err != nil || len(submenus) > 0 {
		return submenus, err
	}
	ok, err := r.menuExists(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entity.ErrMenuNotFound
	}
	return submenus, nil
}

func (r *Repository) submenuExists(ctx context.Context, menuID, id uuid.UUID) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM submenus WHERE id = ? AND menu_id = ?`, id, menuID).Scan(&n)
	return n > 0, err
}

func (r *Repository) GetSubmenuByID(ctx context.Context, menuID, id uuid.UUID) (*entity.Submenu, error) {
	submenu, err := scanSubmenu(r.q.QueryRowContext(ctx, submenuSelect+` WHERE s.id = ? AND s.menu_id = ?`, id, menuID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSubmenuNotFound
		}
		return nil, err
	}
	return &submenu, nil
}

// CreateSubmenu inserts submenu under submenu.MenuID, or returns
// entity.ErrMenuNotFound when that menu does not exist.
func (r *Repository) CreateSubmenu(ctx context.Context, submenu entity.Submenu) error {
	query := `
		INSERT INTO submenus (id, menu_id, title, description)
		SELECT ?, m.id, ?, ? FROM menus m WHERE m.id = ?`
	res, err := r.q.ExecContext(ctx, query, submenu.ID, submenu.Title, submenu.Description, submenu.MenuID)
	if err != nil {
		return err
	}
	return expectRow(res, entity.ErrMenuNotFound)
}

func (r *Repository) UpdateSubmenu(ctx context.Context, menuID, id uuid.UUID, in entity.SubmenuUpdate) (*entity.Submenu, error) {
	var submenu *entity.Submenu
	err := r.WithTx(ctx, func(tx *Repository) error {
		query := `
			UPDATE submenus SET title = COALESCE(?, title), description = COALESCE(?, description)
			WHERE id = ? AND menu_id = ?`
		if _, err := tx.q.ExecContext(ctx, query, nullString(in.Title), nullString(in.Description), id, menuID); err != nil {
			return err
		}
		var err error
		submenu, err = tx.GetSubmenuByID(ctx, menuID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return submenu, nil
}

// ReplaceSubmenu overwrites the parent menu, title and description.
func (r *Repository) ReplaceSubmenu(ctx context.Context, submenu entity.Submenu) error {
	query := `UPDATE submenus SET menu_id = ?, title = ?, description = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, submenu.MenuID, submenu.Title, submenu.Description, submenu.ID)
	return err
}

func (r *Repository) DeleteSubmenu(ctx context.Context, menuID, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM submenus WHERE id = ? AND menu_id = ?`, id, menuID)
	if err != nil {
		return err
	}
	return expectRow(res, entity.ErrSubmenuNotFound)
}

// DeleteSubmenuTree deletes a submenu and returns the ids of the dishes
// removed with it.
func (r *Repository) DeleteSubmenuTree(ctx context.Context, menuID, id uuid.UUID) ([]uuid.UUID, error) {
	var dishIDs []uuid.UUID
	err := r.WithTx(ctx, func(tx *Repository) error {
		var err error
		if dishIDs, err = tx.GetSubmenuDishIDs(ctx, id); err != nil {
			return err
		}
		return tx.DeleteSubmenu(ctx, menuID, id)
	})
	if err != nil {
		return nil, err
	}
	return dishIDs, nil
}

func (r *Repository) DeleteSubmenus(ctx context.Context, ids []uuid.UUID) error {
	return r.deleteByIDs(ctx, "submenus", ids)
}

func (r *Repository) GetSubmenuDishIDs(ctx context.Context, submenuID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM dishes WHERE submenu_id = ?`, submenuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

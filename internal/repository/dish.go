package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"menu-service/internal/entity"
)

const dishSelect = `
	SELECT d.id, d.submenu_id, d.title, d.description, d.price
	FROM dishes d
	JOIN submenus s ON s.id = d.submenu_id`

func scanDish(row interface{ Scan(...interface{}) error }) (entity.Dish, error) {
	var dish entity.Dish
	err := row.Scan(&dish.ID, &dish.SubmenuID, &dish.Title, &dish.Description, &dish.Price)
	return dish, err
}

func (r *Repository) queryDishes(ctx context.Context, query string, args ...interface{}) ([]entity.Dish, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []entity.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

// GetDishes lists the dishes of a submenu, or returns
// entity.ErrSubmenuNotFound when the submenu is not part of menuID.
func (r *Repository) GetDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]entity.Dish, error) {
	query := dishSelect + ` WHERE d.submenu_id = ? AND s.menu_id = ? ORDER BY d.title, d.id`
	dishes, err := r.queryDishes(ctx, query, submenuID, menuID)
	if err != nil || len(dishes) > 0 {
		return dishes, err
	}
	ok, err := r.submenuExists(ctx, menuID, submenuID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entity.ErrSubmenuNotFound
	}
	return dishes, nil
}

func (r *Repository) GetDishByID(ctx context.Context, menuID, submenuID, id uuid.UUID) (*entity.Dish, error) {
	query := dishSelect + ` WHERE d.id = ? AND d.submenu_id = ? AND s.menu_id = ?`
	dish, err := scanDish(r.q.QueryRowContext(ctx, query, id, submenuID, menuID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrDishNotFound
		}
		return nil, err
	}
	return &dish, nil
}

// CreateDish inserts dish under dish.SubmenuID, or returns
// entity.ErrSubmenuNotFound when that submenu is not part of menuID.
func (r *Repository) CreateDish(ctx context.Context, menuID uuid.UUID, dish entity.Dish) error {
	query := `
		INSERT INTO dishes (id, submenu_id, title, description, price)
		SELECT ?, s.id, ?, ?, ? FROM submenus s WHERE s.id = ? AND s.menu_id = ?`
	res, err := r.q.ExecContext(ctx, query, dish.ID, dish.Title, dish.Description, dish.Price, dish.SubmenuID, menuID)
	if err != nil {
		return err
	}
	return expectRow(res, entity.ErrSubmenuNotFound)
}

func (r *Repository) UpdateDish(ctx context.Context, menuID, submenuID, id uuid.UUID, in entity.DishUpdate) (*entity.Dish, error) {
	var price decimal.NullDecimal
	if in.Price != nil {
		price = decimal.NewNullDecimal(*in.Price)
	}

	var dish *entity.Dish
	err := r.WithTx(ctx, func(tx *Repository) error {
		if _, err := tx.GetDishByID(ctx, menuID, submenuID, id); err != nil {
			return err
		}
		query := `
			UPDATE dishes SET title = COALESCE(?, title), description = COALESCE(?, description), price = COALESCE(?, price)
			WHERE id = ?`
		if _, err := tx.q.ExecContext(ctx, query, nullString(in.Title), nullString(in.Description), price, id); err != nil {
			return err
		}
		var err error
		dish, err = tx.GetDishByID(ctx, menuID, submenuID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dish, nil
}

// ReplaceDish overwrites the parent submenu, title, description and price.
func (r *Repository) ReplaceDish(ctx context.Context, dish entity.Dish) error {
	query := `UPDATE dishes SET submenu_id = ?, title = ?, description = ?, price = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, dish.SubmenuID, dish.Title, dish.Description, dish.Price, dish.ID)
	return err
}

func (r *Repository) DeleteDish(ctx context.Context, menuID, submenuID, id uuid.UUID) error {
	query := `
		DELETE FROM dishes
		WHERE id = ? AND submenu_id IN (SELECT s.id FROM submenus s WHERE s.id = ? AND s.menu_id = ?)`
	res, err := r.q.ExecContext(ctx, query, id, submenuID, menuID)
	if err != nil {
		return err
	}
	return expectRow(res, entity.ErrDishNotFound)
}

func (r *Repository) DeleteDishes(ctx context.Context, ids []uuid.UUID) error {
	return r.deleteByIDs(ctx, "dishes", ids)
}

// InsertDish inserts dish under dish.SubmenuID without checking its menu.
func (r *Repository) InsertDish(ctx context.Context, dish entity.Dish) error {
	query := `INSERT INTO dishes (id, submenu_id, title, description, price) VALUES (?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, dish.ID, dish.SubmenuID, dish.Title, dish.Description, dish.Price)
	return err
}

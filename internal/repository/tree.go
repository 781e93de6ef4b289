package repository

import (
	"context"

	"github.com/google/uuid"

	"menu-service/internal/entity"
)

// GetTree returns every menu with its submenus and dishes, read inside one
// transaction.
func (r *Repository) GetTree(ctx context.Context) ([]entity.MenuTree, error) {
	var tree []entity.MenuTree
	err := r.WithTx(ctx, func(tx *Repository) error {
		var err error
		tree, err = tx.getTree(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (r *Repository) getTree(ctx context.Context) ([]entity.MenuTree, error) {
	menus, err := r.GetMenus(ctx)
	if err != nil {
		return nil, err
	}
	submenus, err := r.querySubmenus(ctx, submenuSelect+` ORDER BY s.title, s.id`)
	if err != nil {
		return nil, err
	}
	dishes, err := r.queryDishes(ctx, dishSelect+` ORDER BY d.title, d.id`)
	if err != nil {
		return nil, err
	}

	dishesBySubmenu := make(map[uuid.UUID][]entity.Dish)
	for _, dish := range dishes {
		dishesBySubmenu[dish.SubmenuID] = append(dishesBySubmenu[dish.SubmenuID], dish)
	}

	submenusByMenu := make(map[uuid.UUID][]entity.SubmenuTree)
	for _, submenu := range submenus {
		node := entity.SubmenuTree{Submenu: submenu, Dishes: dishesBySubmenu[submenu.ID]}
		if node.Dishes == nil {
			node.Dishes = []entity.Dish{}
		}
		submenusByMenu[submenu.MenuID] = append(submenusByMenu[submenu.MenuID], node)
	}

	tree := make([]entity.MenuTree, 0, len(menus))
	for _, menu := range menus {
		node := entity.MenuTree{Menu: menu, Submenus: submenusByMenu[menu.ID]}
		if node.Submenus == nil {
			node.Submenus = []entity.SubmenuTree{}
		}
		tree = append(tree, node)
	}
	return tree, nil
}

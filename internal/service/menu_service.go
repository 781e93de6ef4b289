package service

import (
	"context"

	"github.com/google/uuid"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
)

type MenuRepository interface {
	GetMenus(ctx context.Context) ([]entity.Menu, error)
	GetMenuByID(ctx context.Context, id uuid.UUID) (*entity.Menu, error)
	CreateMenu(ctx context.Context, menu entity.Menu) error
	UpdateMenu(ctx context.Context, id uuid.UUID, in entity.MenuUpdate) (*entity.Menu, error)
	DeleteMenuTree(ctx context.Context, id uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	GetTree(ctx context.Context) ([]entity.MenuTree, error)
}

// MenuService serves menus through the cache and keeps it coherent on writes.
type MenuService struct {
	menuRepo MenuRepository
	cache    cache.Cache
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(menuRepo MenuRepository, c cache.Cache) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		cache:    c,
	}
}

// GetMenus lists all menus with their submenu and dish counts.
func (s *MenuService) GetMenus(ctx context.Context) ([]entity.Menu, error) {
	return readThrough(ctx, s.cache, cache.MenusKey, s.menuRepo.GetMenus)
}

// GetMenuTree lists all menus with their submenus and dishes nested. Dish
// prices have their discounts applied, as in DishService.
func (s *MenuService) GetMenuTree(ctx context.Context) ([]entity.MenuTree, error) {
	tree, err := readThrough(ctx, s.cache, cache.MenuTreeKey, s.menuRepo.GetTree)
	if err != nil {
		return nil, err
	}

	for _, menu := range tree {
		for _, submenu := range menu.Submenus {
			for i, dish := range submenu.Dishes {
				submenu.Dishes[i] = dish.ApplyDiscount(dishDiscount(ctx, s.cache, dish.ID))
			}
		}
	}
	return tree, nil
}

func (s *MenuService) GetMenuByID(ctx context.Context, id uuid.UUID) (*entity.Menu, error) {
	return readThrough(ctx, s.cache, cache.MenuKey(id), func(ctx context.Context) (*entity.Menu, error) {
		return s.menuRepo.GetMenuByID(ctx, id)
	})
}

func (s *MenuService) CreateMenu(ctx context.Context, in entity.MenuCreate) (*entity.Menu, error) {
	menu := entity.Menu{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.menuRepo.CreateMenu(ctx, menu); err != nil {
		logger.Error().Err(err).Msg("Error creating menu")
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelMenu, cache.OpCreate, cache.Scope{MenuID: menu.ID})
	return &menu, nil
}

func (s *MenuService) UpdateMenu(ctx context.Context, id uuid.UUID, in entity.MenuUpdate) (*entity.Menu, error) {
	menu, err := s.menuRepo.UpdateMenu(ctx, id, in)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelMenu, cache.OpUpdate, cache.Scope{MenuID: id})
	return menu, nil
}

// DeleteMenu deletes a menu with all its submenus and dishes.
func (s *MenuService) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	children, err := s.menuRepo.DeleteMenuTree(ctx, id)
	if err != nil {
		return err
	}

	invalidate(ctx, s.cache, cache.LevelMenu, cache.OpDelete, cache.Scope{MenuID: id, Children: children})
	return nil
}

// WarmCache loads the menu list, the menu tree and every menu into the cache.
func (s *MenuService) WarmCache(ctx context.Context) error {
	epoch := invalidations.Load()
	menus, err := s.menuRepo.GetMenus(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting menus")
		return err
	}
	tree, err := s.menuRepo.GetTree(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting menu tree")
		return err
	}

	storeFresh(ctx, s.cache, cache.MenusKey, menus, epoch)
	storeFresh(ctx, s.cache, cache.MenuTreeKey, tree, epoch)
	for _, menu := range menus {
		storeFresh(ctx, s.cache, cache.MenuKey(menu.ID), menu, epoch)
	}
	return nil
}

package service

import (
	"context"

	"github.com/google/uuid"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
)

type DishRepository interface {
	GetDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]entity.Dish, error)
	GetDishByID(ctx context.Context, menuID, submenuID, id uuid.UUID) (*entity.Dish, error)
	CreateDish(ctx context.Context, menuID uuid.UUID, dish entity.Dish) error
	UpdateDish(ctx context.Context, menuID, submenuID, id uuid.UUID, in entity.DishUpdate) (*entity.Dish, error)
	DeleteDish(ctx context.Context, menuID, submenuID, id uuid.UUID) error
}

// DishService serves dishes through the cache. Prices returned by reads have
// the promotional discount, if any, already applied.
type DishService struct {
	dishRepo DishRepository
	cache    cache.Cache
}

// NewDishService creates a new instance of DishService.
func NewDishService(dishRepo DishRepository, c cache.Cache) *DishService {
	return &DishService{
		dishRepo: dishRepo,
		cache:    c,
	}
}

func (s *DishService) GetDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]entity.Dish, error) {
	dishes, err := readThrough(ctx, s.cache, cache.DishesKey(menuID, submenuID), func(ctx context.Context) ([]entity.Dish, error) {
		return s.dishRepo.GetDishes(ctx, menuID, submenuID)
	})
	if err != nil {
		return nil, err
	}

	for i, dish := range dishes {
		dishes[i] = dish.ApplyDiscount(dishDiscount(ctx, s.cache, dish.ID))
	}
	return dishes, nil
}

func (s *DishService) GetDishByID(ctx context.Context, menuID, submenuID, id uuid.UUID) (*entity.Dish, error) {
	dish, err := readThrough(ctx, s.cache, cache.DishKey(menuID, submenuID, id), func(ctx context.Context) (*entity.Dish, error) {
		return s.dishRepo.GetDishByID(ctx, menuID, submenuID, id)
	})
	if err != nil {
		return nil, err
	}

	discounted := dish.ApplyDiscount(dishDiscount(ctx, s.cache, id))
	return &discounted, nil
}

func (s *DishService) CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, in entity.DishCreate) (*entity.Dish, error) {
	dish := entity.Dish{
		ID:          uuid.New(),
		SubmenuID:   submenuID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
	}
	if err := s.dishRepo.CreateDish(ctx, menuID, dish); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelDish, cache.OpCreate, cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: dish.ID})
	return &dish, nil
}

func (s *DishService) UpdateDish(ctx context.Context, menuID, submenuID, id uuid.UUID, in entity.DishUpdate) (*entity.Dish, error) {
	dish, err := s.dishRepo.UpdateDish(ctx, menuID, submenuID, id, in)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelDish, cache.OpUpdate, cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: id})
	return dish, nil
}

func (s *DishService) DeleteDish(ctx context.Context, menuID, submenuID, id uuid.UUID) error {
	if err := s.dishRepo.DeleteDish(ctx, menuID, submenuID, id); err != nil {
		return err
	}

	invalidate(ctx, s.cache, cache.LevelDish, cache.OpDelete, cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: id})
	return nil
}

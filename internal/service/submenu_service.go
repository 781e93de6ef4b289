package service

import (
	"context"

	"github.com/google/uuid"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
)

type SubmenuRepository interface {
	GetSubmenus(ctx context.Context, menuID uuid.UUID) ([]entity.Submenu, error)
	GetSubmenuByID(ctx context.Context, menuID, id uuid.UUID) (*entity.Submenu, error)
	CreateSubmenu(ctx context.Context, submenu entity.Submenu) error
	UpdateSubmenu(ctx context.Context, menuID, id uuid.UUID, in entity.SubmenuUpdate) (*entity.Submenu, error)
	DeleteSubmenuTree(ctx context.Context, menuID, id uuid.UUID) ([]uuid.UUID, error)
}

type SubmenuService struct {
	submenuRepo SubmenuRepository
	cache       cache.Cache
}

// NewSubmenuService creates a new instance of SubmenuService.
func NewSubmenuService(submenuRepo SubmenuRepository, c cache.Cache) *SubmenuService {
	return &SubmenuService{
		submenuRepo: submenuRepo,
		cache:       c,
	}
}

func (s *SubmenuService) GetSubmenus(ctx context.Context, menuID uuid.UUID) ([]entity.Submenu, error) {
	return readThrough(ctx, s.cache, cache.SubmenusKey(menuID), func(ctx context.Context) ([]entity.Submenu, error) {
		return s.submenuRepo.GetSubmenus(ctx, menuID)
	})
}

func (s *SubmenuService) GetSubmenuByID(ctx context.Context, menuID, id uuid.UUID) (*entity.Submenu, error) {
	return readThrough(ctx, s.cache, cache.SubmenuKey(menuID, id), func(ctx context.Context) (*entity.Submenu, error) {
		return s.submenuRepo.GetSubmenuByID(ctx, menuID, id)
	})
}

func (s *SubmenuService) CreateSubmenu(ctx context.Context, menuID uuid.UUID, in entity.SubmenuCreate) (*entity.Submenu, error) {
	submenu := entity.Submenu{
		ID:          uuid.New(),
		MenuID:      menuID,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.submenuRepo.CreateSubmenu(ctx, submenu); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelSubmenu, cache.OpCreate, cache.Scope{MenuID: menuID, SubmenuID: submenu.ID})
	return &submenu, nil
}

func (s *SubmenuService) UpdateSubmenu(ctx context.Context, menuID, id uuid.UUID, in entity.SubmenuUpdate) (*entity.Submenu, error) {
	submenu, err := s.submenuRepo.UpdateSubmenu(ctx, menuID, id, in)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, cache.LevelSubmenu, cache.OpUpdate, cache.Scope{MenuID: menuID, SubmenuID: id})
	return submenu, nil
}

// DeleteSubmenu deletes a submenu with its dishes.
func (s *SubmenuService) DeleteSubmenu(ctx context.Context, menuID, id uuid.UUID) error {
	dishIDs, err := s.submenuRepo.DeleteSubmenuTree(ctx, menuID, id)
	if err != nil {
		return err
	}

	invalidate(ctx, s.cache, cache.LevelSubmenu, cache.OpDelete, cache.Scope{
		MenuID:    menuID,
		SubmenuID: id,
		Children:  map[uuid.UUID][]uuid.UUID{id: dishIDs},
	})
	return nil
}

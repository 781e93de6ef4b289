// Package updater reconciles the catalog with full snapshots exported from
// the menu spreadsheet.
package updater

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
	"menu-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Updater applies snapshots to the store and keeps the caches in line.
type Updater struct {
	repo      *repository.Repository
	cache     cache.Cache
	publisher Publisher
}

func NewUpdater(repo *repository.Repository, c cache.Cache) *Updater {
	return &Updater{repo: repo, cache: c}
}

// WithPublisher makes u announce every run that changed the store.
func (u *Updater) WithPublisher(p Publisher) *Updater {
	u.publisher = p
	return u
}

// Run makes the store mirror snapshot and the discount keys mirror its dish
// discounts. Store writes commit together. Cache errors are returned after
// the commit so that the caller retries the run.
func (u *Updater) Run(ctx context.Context, snapshot entity.Snapshot) (*Plan, error) {
	var plan *Plan
	err := u.repo.WithTx(ctx, func(tx *repository.Repository) error {
		tree, err := tx.GetTree(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		if plan, err = Diff(tree, snapshot); err != nil {
			return fmt.Errorf("invalid snapshot: %w", err)
		}
		return apply(ctx, tx, plan)
	})
	if err != nil {
		return nil, err
	}

	if err := u.syncCache(ctx, plan); err != nil {
		return plan, err
	}

	logger.Info().
		Int("menus_created", len(plan.MenuCreates)).
		Int("menus_updated", len(plan.MenuUpdates)).
		Int("menus_deleted", len(plan.MenuDeletes)).
		Int("submenus_created", len(plan.SubmenuCreates)).
		Int("submenus_updated", len(plan.SubmenuUpdates)).
		Int("submenus_deleted", len(plan.SubmenuDeletes)).
		Int("dishes_created", len(plan.DishCreates)).
		Int("dishes_updated", len(plan.DishUpdates)).
		Int("dishes_deleted", len(plan.DishDeletes)).
		Int("discounts", len(plan.Discounts)).
		Bool("changed", !plan.Empty()).
		Msg("Catalog reconciled")

	if u.publisher != nil && !plan.Empty() {
		if err := u.publisher.Publish(ctx, newReconciledEvent(plan, time.Now().UTC())); err != nil {
			logger.Error().Err(err).Msg("Error publishing reconciliation event")
		}
	}
	return plan, nil
}

// apply writes parents before children and removes children before parents.
func apply(ctx context.Context, tx *repository.Repository, plan *Plan) error {
	for _, m := range plan.MenuCreates {
		if err := tx.CreateMenu(ctx, m); err != nil {
			return fmt.Errorf("create menu %s: %w", m.ID, err)
		}
	}
	for _, m := range plan.MenuUpdates {
		if err := tx.ReplaceMenu(ctx, m); err != nil {
			return fmt.Errorf("update menu %s: %w", m.ID, err)
		}
	}
	for _, s := range plan.SubmenuCreates {
		if err := tx.CreateSubmenu(ctx, s); err != nil {
			return fmt.Errorf("create submenu %s: %w", s.ID, err)
		}
	}
	for _, s := range plan.SubmenuUpdates {
		if err := tx.ReplaceSubmenu(ctx, s); err != nil {
			return fmt.Errorf("update submenu %s: %w", s.ID, err)
		}
	}
	for _, d := range plan.DishCreates {
		if err := tx.InsertDish(ctx, d); err != nil {
			return fmt.Errorf("create dish %s: %w", d.ID, err)
		}
	}
	for _, d := range plan.DishUpdates {
		if err := tx.ReplaceDish(ctx, d); err != nil {
			return fmt.Errorf("update dish %s: %w", d.ID, err)
		}
	}

	if err := tx.DeleteDishes(ctx, plan.DishDeletes); err != nil {
		return fmt.Errorf("delete dishes: %w", err)
	}
	if err := tx.DeleteSubmenus(ctx, plan.SubmenuDeletes); err != nil {
		return fmt.Errorf("delete submenus: %w", err)
	}
	if err := tx.DeleteMenus(ctx, plan.MenuDeletes); err != nil {
		return fmt.Errorf("delete menus: %w", err)
	}
	return nil
}

// syncCache clears then rewrites discount keys and drops stale catalog keys.
// Every step is attempted; failures are collected.
func (u *Updater) syncCache(ctx context.Context, plan *Plan) error {
	var result *multierror.Error

	cleared := make([]string, 0, len(plan.ClearDiscounts))
	for _, id := range plan.ClearDiscounts {
		cleared = append(cleared, cache.DiscountKey(id))
	}
	clearErr := u.cache.Delete(ctx, cleared...)
	if clearErr != nil {
		result = multierror.Append(result, fmt.Errorf("clear discounts: %w", clearErr))
	}

	// Discounts are only written after a successful clear.
	if clearErr == nil {
		for id, discount := range plan.Discounts {
			if err := u.cache.Set(ctx, cache.DiscountKey(id), []byte(entity.DiscountText(discount))); err != nil {
				result = multierror.Append(result, fmt.Errorf("set discount %s: %w", id, err))
			}
		}
	}

	if stale := plan.Stale.Sorted(); len(stale) > 0 {
		if err := u.cache.Delete(ctx, stale...); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalidate catalog keys: %w", err))
		}
	}
	return result.ErrorOrNil()
}

package updater

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
	"menu-service/internal/repository"
	"menu-service/internal/service"
	"menu-service/internal/testdb"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var (
	menuA    = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0a0001")
	menuB    = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0a0002")
	submenuA = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0b0001")
	submenuB = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0b0002")
	dishA    = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0001")
	dishB    = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0002")
	dishC    = uuid.MustParse("0b6a1c53-6f1e-4d0e-9d2a-6b1a3f0c0003")
)

// baseSnapshot is menu A / submenu A / dishes A, B and C, with a discount on C.
func baseSnapshot() entity.Snapshot {
	return entity.Snapshot{{
		ID:          menuA,
		Title:       "Lunch",
		Description: "Served 12-16",
		Submenus: []entity.SnapshotSubmenu{{
			ID:    submenuA,
			Title: "Soups",
			Dishes: []entity.SnapshotDish{
				{ID: dishA, Title: "Borscht", Price: decimal.RequireFromString("9.99")},
				{ID: dishB, Title: "Shchi", Price: decimal.RequireFromString("7.50")},
				{ID: dishC, Title: "Solyanka", Price: decimal.RequireFromString("11.00"), Discount: decPtr("10")},
			},
		}},
	}}
}

type env struct {
	repo    *repository.Repository
	cache   *cache.MemoryCache
	updater *Updater
	menus   *service.MenuService
	dishes  *service.DishService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := repository.NewRepository(testdb.Open(t))
	c := cache.NewMemoryCache()
	return &env{
		repo:    repo,
		cache:   c,
		updater: NewUpdater(repo, c),
		menus:   service.NewMenuService(repo, c),
		dishes:  service.NewDishService(repo, c),
	}
}

func (e *env) discount(t *testing.T, id uuid.UUID) (string, bool) {
	t.Helper()
	raw, ok, err := e.cache.Get(context.Background(), cache.DiscountKey(id))
	require.NoError(t, err)
	return string(raw), ok
}

func TestRunCreatesCatalog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	plan, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	assert.Len(t, plan.MenuCreates, 1)
	assert.Len(t, plan.SubmenuCreates, 1)
	assert.Len(t, plan.DishCreates, 3)

	menu, err := e.menus.GetMenuByID(ctx, menuA)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", menu.Title)
	assert.Equal(t, 1, menu.SubmenusCount)
	assert.Equal(t, 3, menu.DishesCount)

	value, ok := e.discount(t, dishC)
	require.True(t, ok)
	assert.Equal(t, "10", value)
	_, ok = e.discount(t, dishA)
	assert.False(t, ok)

	dish, err := e.dishes.GetDishByID(ctx, menuA, submenuA, dishC)
	require.NoError(t, err)
	assert.Equal(t, "9.9", dish.Price.String())
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	firstTree, err := e.repo.GetTree(ctx)
	require.NoError(t, err)
	firstKeys := e.cache.Keys()

	plan, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Stale)

	secondTree, err := e.repo.GetTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstTree, secondTree)
	assert.Equal(t, firstKeys, e.cache.Keys())

	value, ok := e.discount(t, dishC)
	require.True(t, ok)
	assert.Equal(t, "10", value)
}

func TestRunConverges(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)

	// Warm the caches the run has to invalidate.
	_, err = e.menus.GetMenuByID(ctx, menuA)
	require.NoError(t, err)
	_, err = e.dishes.GetDishByID(ctx, menuA, submenuA, dishC)
	require.NoError(t, err)
	_, err = e.dishes.GetDishes(ctx, menuA, submenuA)
	require.NoError(t, err)

	snapshot := baseSnapshot()
	snapshot[0].Description = "Served 12-17"
	snapshot[0].Submenus[0].Dishes = snapshot[0].Submenus[0].Dishes[:2]
	snapshot[0].Submenus[0].Dishes[0].Price = decimal.RequireFromString("10.49")

	plan, err := e.updater.Run(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{dishC}, plan.DishDeletes)
	assert.Empty(t, plan.SubmenuDeletes)
	assert.Empty(t, plan.MenuDeletes)

	_, err = e.dishes.GetDishByID(ctx, menuA, submenuA, dishC)
	assert.ErrorIs(t, err, entity.ErrDishNotFound)
	_, ok := e.discount(t, dishC)
	assert.False(t, ok)

	menu, err := e.menus.GetMenuByID(ctx, menuA)
	require.NoError(t, err)
	assert.Equal(t, "Served 12-17", menu.Description)
	assert.Equal(t, 1, menu.SubmenusCount)
	assert.Equal(t, 2, menu.DishesCount)

	dishes, err := e.dishes.GetDishes(ctx, menuA, submenuA)
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.Equal(t, "10.49", dishes[0].Price.String())
}

func TestDiscountRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	value, ok := e.discount(t, dishC)
	require.True(t, ok)
	assert.Equal(t, "10", value)

	snapshot := baseSnapshot()
	snapshot[0].Submenus[0].Dishes[2].Discount = nil
	_, err = e.updater.Run(ctx, snapshot)
	require.NoError(t, err)

	_, ok = e.discount(t, dishC)
	assert.False(t, ok)
	dish, err := e.dishes.GetDishByID(ctx, menuA, submenuA, dishC)
	require.NoError(t, err)
	assert.Equal(t, "11", dish.Price.String())
}

func TestDiscountKeepsSnapshotDigits(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	snapshot := baseSnapshot()
	snapshot[0].Submenus[0].Dishes[2].Discount = decPtr("10.50")
	_, err := e.updater.Run(ctx, snapshot)
	require.NoError(t, err)

	value, ok := e.discount(t, dishC)
	require.True(t, ok)
	assert.Equal(t, "10.50", value)

	dish, err := e.dishes.GetDishByID(ctx, menuA, submenuA, dishC)
	require.NoError(t, err)
	assert.Equal(t, "9.85", dish.Price.String())
}

func TestRunDeletesMissingMenus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	snapshot := baseSnapshot()
	snapshot = append(snapshot, entity.SnapshotMenu{ID: menuB, Title: "Dinner"})
	_, err := e.updater.Run(ctx, snapshot)
	require.NoError(t, err)

	menus, err := e.menus.GetMenus(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	_, err = e.updater.Run(ctx, entity.Snapshot{{ID: menuB, Title: "Dinner"}})
	require.NoError(t, err)

	menus, err = e.menus.GetMenus(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, menuB, menus[0].ID)

	tree, err := e.repo.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Submenus)

	_, ok := e.discount(t, dishC)
	assert.False(t, ok)
}

func TestRunMovesEntities(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	snapshot := baseSnapshot()
	snapshot = append(snapshot, entity.SnapshotMenu{
		ID:       menuB,
		Title:    "Dinner",
		Submenus: []entity.SnapshotSubmenu{{ID: submenuB, Title: "Mains"}},
	})
	_, err := e.updater.Run(ctx, snapshot)
	require.NoError(t, err)

	_, err = e.dishes.GetDishByID(ctx, menuA, submenuA, dishA)
	require.NoError(t, err)
	_, err = e.menus.GetMenuByID(ctx, menuB)
	require.NoError(t, err)

	// Dish A moves to submenu B, and submenu A moves to menu B while menu A
	// disappears.
	moved := entity.Snapshot{{
		ID:    menuB,
		Title: "Dinner",
		Submenus: []entity.SnapshotSubmenu{
			{
				ID:     submenuB,
				Title:  "Mains",
				Dishes: []entity.SnapshotDish{{ID: dishA, Title: "Borscht", Price: decimal.RequireFromString("9.99")}},
			},
			{
				ID:    submenuA,
				Title: "Soups",
				Dishes: []entity.SnapshotDish{
					{ID: dishB, Title: "Shchi", Price: decimal.RequireFromString("7.50")},
				},
			},
		},
	}}
	plan, err := e.updater.Run(ctx, moved)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{menuA}, plan.MenuDeletes)
	assert.Equal(t, []uuid.UUID{dishC}, plan.DishDeletes)
	assert.Len(t, plan.SubmenuUpdates, 1)

	_, err = e.dishes.GetDishByID(ctx, menuA, submenuA, dishA)
	assert.ErrorIs(t, err, entity.ErrDishNotFound)
	dish, err := e.dishes.GetDishByID(ctx, menuB, submenuB, dishA)
	require.NoError(t, err)
	assert.Equal(t, submenuB, dish.SubmenuID)

	menu, err := e.menus.GetMenuByID(ctx, menuB)
	require.NoError(t, err)
	assert.Equal(t, 2, menu.SubmenusCount)
	assert.Equal(t, 2, menu.DishesCount)

	_, err = e.menus.GetMenuByID(ctx, menuA)
	assert.ErrorIs(t, err, entity.ErrMenuNotFound)
}

func TestRunRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)

	snapshot := baseSnapshot()
	snapshot[0].Title = "Renamed"
	snapshot[0].Submenus[0].Dishes[1].ID = dishA
	_, err = e.updater.Run(ctx, snapshot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate dish id")

	menu, err := e.repo.GetMenuByID(ctx, menuA)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", menu.Title)
}

type brokenCache struct {
	*cache.MemoryCache
	fail bool
}

func (c *brokenCache) Delete(ctx context.Context, keys ...string) error {
	if c.fail {
		return errors.New("connection refused")
	}
	return c.MemoryCache.Delete(ctx, keys...)
}

func TestCacheFailureFailsRunAfterCommit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testdb.Open(t))
	c := &brokenCache{MemoryCache: cache.NewMemoryCache(), fail: true}
	u := NewUpdater(repo, c)

	_, err := u.Run(ctx, baseSnapshot())
	require.Error(t, err)

	_, err = repo.GetMenuByID(ctx, menuA)
	require.NoError(t, err)
	_, ok, err := c.Get(ctx, cache.DiscountKey(dishC))
	require.NoError(t, err)
	assert.False(t, ok)

	c.fail = false
	_, err = u.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	value, ok, err := c.Get(ctx, cache.DiscountKey(dishC))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10", string(value))
}

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestRunPublishesChanges(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	writer := &recordingWriter{}
	e.updater.WithPublisher(NewKafkaPublisher(writer))

	_, err := e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Contains(t, string(writer.messages[0].Key), "catalog.reconciled.")

	var event ReconciledEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, 1, event.MenusCreated)
	assert.Equal(t, 3, event.DishesCreated)
	assert.Equal(t, 1, event.Discounts)

	// Nothing changes on the second run.
	_, err = e.updater.Run(ctx, baseSnapshot())
	require.NoError(t, err)
	assert.Len(t, writer.messages, 1)
}

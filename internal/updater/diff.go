package updater

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
)

// Plan is the set of writes that turns the persisted catalog into a snapshot.
// Updates also cover entities moved to another parent.
type Plan struct {
	MenuCreates    []entity.Menu
	MenuUpdates    []entity.Menu
	SubmenuCreates []entity.Submenu
	SubmenuUpdates []entity.Submenu
	DishCreates    []entity.Dish
	DishUpdates    []entity.Dish

	MenuDeletes    []uuid.UUID
	SubmenuDeletes []uuid.UUID
	DishDeletes    []uuid.UUID

	// ClearDiscounts lists every discount key dropped before Discounts are
	// written: all snapshot dishes plus every deleted dish.
	ClearDiscounts []uuid.UUID
	Discounts      map[uuid.UUID]decimal.Decimal

	// Stale holds the catalog cache keys made stale by the writes above.
	Stale cache.KeySet
}

// Empty reports whether the plan changes nothing in the store.
func (p *Plan) Empty() bool {
	return len(p.MenuCreates)+len(p.MenuUpdates)+len(p.SubmenuCreates)+len(p.SubmenuUpdates)+
		len(p.DishCreates)+len(p.DishUpdates)+len(p.MenuDeletes)+len(p.SubmenuDeletes)+len(p.DishDeletes) == 0
}

// catalog indexes a catalog tree by id at every level.
type catalog struct {
	menus    map[uuid.UUID]entity.Menu
	submenus map[uuid.UUID]entity.Submenu
	dishes   map[uuid.UUID]entity.Dish
	// dishesBySubmenu lists dish ids per submenu in tree order.
	dishesBySubmenu map[uuid.UUID][]uuid.UUID
	submenusByMenu  map[uuid.UUID][]uuid.UUID
	menuOrder       []uuid.UUID
	submenuOrder    []uuid.UUID
	dishOrder       []uuid.UUID
}

func newCatalog() *catalog {
	return &catalog{
		menus:           make(map[uuid.UUID]entity.Menu),
		submenus:        make(map[uuid.UUID]entity.Submenu),
		dishes:          make(map[uuid.UUID]entity.Dish),
		dishesBySubmenu: make(map[uuid.UUID][]uuid.UUID),
		submenusByMenu:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func indexTree(tree []entity.MenuTree) *catalog {
	c := newCatalog()
	for _, m := range tree {
		c.addMenu(m.Menu)
		for _, s := range m.Submenus {
			c.addSubmenu(s.Submenu)
			for _, d := range s.Dishes {
				c.addDish(d)
			}
		}
	}
	return c
}

func (c *catalog) addMenu(m entity.Menu) {
	c.menus[m.ID] = m
	c.menuOrder = append(c.menuOrder, m.ID)
}

func (c *catalog) addSubmenu(s entity.Submenu) {
	c.submenus[s.ID] = s
	c.submenuOrder = append(c.submenuOrder, s.ID)
	c.submenusByMenu[s.MenuID] = append(c.submenusByMenu[s.MenuID], s.ID)
}

func (c *catalog) addDish(d entity.Dish) {
	c.dishes[d.ID] = d
	c.dishOrder = append(c.dishOrder, d.ID)
	c.dishesBySubmenu[d.SubmenuID] = append(c.dishesBySubmenu[d.SubmenuID], d.ID)
}

// menuOf returns the menu a persisted dish belongs to.
func (c *catalog) menuOf(d entity.Dish) uuid.UUID {
	return c.submenus[d.SubmenuID].MenuID
}

// children maps the submenus of a menu to their dish ids.
func (c *catalog) children(menuID uuid.UUID) map[uuid.UUID][]uuid.UUID {
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, submenuID := range c.submenusByMenu[menuID] {
		out[submenuID] = c.dishesBySubmenu[submenuID]
	}
	return out
}

// indexSnapshot validates a snapshot and indexes it. Ids must be non-nil and
// unique within a level, prices non-negative and discounts within 0-100.
func indexSnapshot(snapshot entity.Snapshot) (*catalog, map[uuid.UUID]decimal.Decimal, error) {
	c := newCatalog()
	discounts := make(map[uuid.UUID]decimal.Decimal)
	for _, m := range snapshot {
		if m.ID == uuid.Nil {
			return nil, nil, fmt.Errorf("menu %q has no id", m.Title)
		}
		if _, ok := c.menus[m.ID]; ok {
			return nil, nil, fmt.Errorf("duplicate menu id %s", m.ID)
		}
		c.addMenu(entity.Menu{ID: m.ID, Title: m.Title, Description: m.Description})

		for _, s := range m.Submenus {
			if s.ID == uuid.Nil {
				return nil, nil, fmt.Errorf("submenu %q has no id", s.Title)
			}
			if _, ok := c.submenus[s.ID]; ok {
				return nil, nil, fmt.Errorf("duplicate submenu id %s", s.ID)
			}
			c.addSubmenu(entity.Submenu{ID: s.ID, MenuID: m.ID, Title: s.Title, Description: s.Description})

			for _, d := range s.Dishes {
				if d.ID == uuid.Nil {
					return nil, nil, fmt.Errorf("dish %q has no id", d.Title)
				}
				if _, ok := c.dishes[d.ID]; ok {
					return nil, nil, fmt.Errorf("duplicate dish id %s", d.ID)
				}
				if d.Price.IsNegative() {
					return nil, nil, fmt.Errorf("dish %s has negative price %s", d.ID, d.Price)
				}
				c.addDish(entity.Dish{ID: d.ID, SubmenuID: s.ID, Title: d.Title, Description: d.Description, Price: d.Price})
				if d.Discount != nil {
					if !entity.DiscountInRange(*d.Discount) {
						return nil, nil, fmt.Errorf("dish %s has discount %s outside 0-100", d.ID, d.Discount)
					}
					discounts[d.ID] = *d.Discount
				}
			}
		}
	}
	return c, discounts, nil
}

// Diff computes the plan that makes the persisted tree equal to snapshot.
// Entities are matched by id across the whole tree, so an entity listed under
// a different parent is moved rather than recreated.
func Diff(persisted []entity.MenuTree, snapshot entity.Snapshot) (*Plan, error) {
	want, discounts, err := indexSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	have := indexTree(persisted)

	plan := &Plan{Discounts: discounts, Stale: cache.NewKeySet()}
	stale := func(level cache.Level, op cache.Op, scope cache.Scope) {
		plan.Stale.Add(cache.InvalidationKeys(level, op, scope)...)
	}

	for _, id := range want.menuOrder {
		m := want.menus[id]
		old, ok := have.menus[id]
		switch {
		case !ok:
			plan.MenuCreates = append(plan.MenuCreates, m)
			stale(cache.LevelMenu, cache.OpCreate, cache.Scope{MenuID: id})
		case old.Title != m.Title || old.Description != m.Description:
			plan.MenuUpdates = append(plan.MenuUpdates, m)
			stale(cache.LevelMenu, cache.OpUpdate, cache.Scope{MenuID: id})
		}
	}

	for _, id := range want.submenuOrder {
		s := want.submenus[id]
		old, ok := have.submenus[id]
		switch {
		case !ok:
			plan.SubmenuCreates = append(plan.SubmenuCreates, s)
			stale(cache.LevelSubmenu, cache.OpCreate, cache.Scope{MenuID: s.MenuID, SubmenuID: id})
		case old.MenuID != s.MenuID:
			// Every key under the old path goes away with the move.
			plan.SubmenuUpdates = append(plan.SubmenuUpdates, s)
			stale(cache.LevelSubmenu, cache.OpDelete, cache.Scope{
				MenuID:    old.MenuID,
				SubmenuID: id,
				Children:  map[uuid.UUID][]uuid.UUID{id: have.dishesBySubmenu[id]},
			})
			stale(cache.LevelSubmenu, cache.OpCreate, cache.Scope{MenuID: s.MenuID, SubmenuID: id})
		case old.Title != s.Title || old.Description != s.Description:
			plan.SubmenuUpdates = append(plan.SubmenuUpdates, s)
			stale(cache.LevelSubmenu, cache.OpUpdate, cache.Scope{MenuID: s.MenuID, SubmenuID: id})
		}
	}

	for _, id := range want.dishOrder {
		d := want.dishes[id]
		menuID := want.menuOf(d)
		old, ok := have.dishes[id]
		switch {
		case !ok:
			plan.DishCreates = append(plan.DishCreates, d)
			stale(cache.LevelDish, cache.OpCreate, cache.Scope{MenuID: menuID, SubmenuID: d.SubmenuID, DishID: id})
		case old.SubmenuID != d.SubmenuID || have.menuOf(old) != menuID:
			plan.DishUpdates = append(plan.DishUpdates, d)
			stale(cache.LevelDish, cache.OpDelete, cache.Scope{MenuID: have.menuOf(old), SubmenuID: old.SubmenuID, DishID: id})
			stale(cache.LevelDish, cache.OpCreate, cache.Scope{MenuID: menuID, SubmenuID: d.SubmenuID, DishID: id})
		case old.Title != d.Title || old.Description != d.Description || !old.Price.Equal(d.Price):
			plan.DishUpdates = append(plan.DishUpdates, d)
			stale(cache.LevelDish, cache.OpUpdate, cache.Scope{MenuID: menuID, SubmenuID: d.SubmenuID, DishID: id})
		}
		plan.ClearDiscounts = append(plan.ClearDiscounts, id)
	}

	for _, id := range have.dishOrder {
		if _, ok := want.dishes[id]; ok {
			continue
		}
		old := have.dishes[id]
		plan.DishDeletes = append(plan.DishDeletes, id)
		plan.ClearDiscounts = append(plan.ClearDiscounts, id)
		stale(cache.LevelDish, cache.OpDelete, cache.Scope{MenuID: have.menuOf(old), SubmenuID: old.SubmenuID, DishID: id})
	}

	for _, id := range have.submenuOrder {
		if _, ok := want.submenus[id]; ok {
			continue
		}
		old := have.submenus[id]
		plan.SubmenuDeletes = append(plan.SubmenuDeletes, id)
		stale(cache.LevelSubmenu, cache.OpDelete, cache.Scope{
			MenuID:    old.MenuID,
			SubmenuID: id,
			Children:  map[uuid.UUID][]uuid.UUID{id: have.dishesBySubmenu[id]},
		})
	}

	for _, id := range have.menuOrder {
		if _, ok := want.menus[id]; ok {
			continue
		}
		plan.MenuDeletes = append(plan.MenuDeletes, id)
		stale(cache.LevelMenu, cache.OpDelete, cache.Scope{MenuID: id, Children: have.children(id)})
	}

	return plan, nil
}

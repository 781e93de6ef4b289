package cache

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	MenusKey    = "menus"
	MenuTreeKey = "menus:tree"
)

func MenuKey(menuID uuid.UUID) string {
	return fmt.Sprintf("menu:%s", menuID)
}

func SubmenusKey(menuID uuid.UUID) string {
	return fmt.Sprintf("menu:%s:submenus", menuID)
}

func SubmenuKey(menuID, submenuID uuid.UUID) string {
	return fmt.Sprintf("menu:%s:submenu:%s", menuID, submenuID)
}

func DishesKey(menuID, submenuID uuid.UUID) string {
	return fmt.Sprintf("menu:%s:submenu:%s:dishes", menuID, submenuID)
}

func DishKey(menuID, submenuID, dishID uuid.UUID) string {
	return fmt.Sprintf("menu:%s:submenu:%s:dish:%s", menuID, submenuID, dishID)
}

// DiscountKey addresses the promotional discount of a dish. Discounts are
// written only by the snapshot updater.
func DiscountKey(dishID uuid.UUID) string {
	return fmt.Sprintf("dish_discount:%s", dishID)
}

type Level int

const (
	LevelMenu Level = iota
	LevelSubmenu
	LevelDish
)

type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

type keyKind int

const (
	kindMenus keyKind = iota
	kindTree
	kindMenu
	kindSubmenus
	kindSubmenu
	kindDishes
	kindDish
	kindChildSubmenus
	kindChildDishes
)

// Lists and parents are always dropped because their cached values carry
// descendant counts.
var invalidation = map[Level]map[Op][]keyKind{
	LevelMenu: {
		OpCreate: {kindMenu, kindMenus, kindTree},
		OpUpdate: {kindMenu, kindMenus, kindTree},
		OpDelete: {kindMenu, kindMenus, kindTree, kindSubmenus, kindChildSubmenus, kindChildDishes},
	},
	LevelSubmenu: {
		OpCreate: {kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree},
		OpUpdate: {kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree},
		OpDelete: {kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree, kindDishes, kindChildDishes},
	},
	LevelDish: {
		OpCreate: {kindDish, kindDishes, kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree},
		OpUpdate: {kindDish, kindDishes, kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree},
		OpDelete: {kindDish, kindDishes, kindSubmenu, kindSubmenus, kindMenu, kindMenus, kindTree},
	},
}

// Scope locates a mutated entity. Children is only read for deletes and maps
// each descendant submenu id to its dish ids.
type Scope struct {
	MenuID    uuid.UUID
	SubmenuID uuid.UUID
	DishID    uuid.UUID
	Children  map[uuid.UUID][]uuid.UUID
}

// InvalidationKeys lists the cache keys made stale by op on an entity at level.
func InvalidationKeys(level Level, op Op, scope Scope) []string {
	set := NewKeySet()
	for _, kind := range invalidation[level][op] {
		switch kind {
		case kindMenus:
			set.Add(MenusKey)
		case kindTree:
			set.Add(MenuTreeKey)
		case kindMenu:
			set.Add(MenuKey(scope.MenuID))
		case kindSubmenus:
			set.Add(SubmenusKey(scope.MenuID))
		case kindSubmenu:
			set.Add(SubmenuKey(scope.MenuID, scope.SubmenuID))
		case kindDishes:
			set.Add(DishesKey(scope.MenuID, scope.SubmenuID))
		case kindDish:
			set.Add(DishKey(scope.MenuID, scope.SubmenuID, scope.DishID))
		case kindChildSubmenus:
			for submenuID := range scope.Children {
				set.Add(SubmenuKey(scope.MenuID, submenuID), DishesKey(scope.MenuID, submenuID))
			}
		case kindChildDishes:
			for submenuID, dishIDs := range scope.Children {
				for _, dishID := range dishIDs {
					set.Add(DishKey(scope.MenuID, submenuID, dishID))
				}
			}
		}
	}
	return set.Sorted()
}

// KeySet collects keys across several mutations so they can be deleted in
// one round trip.
type KeySet map[string]struct{}

func NewKeySet() KeySet {
	return make(KeySet)
}

func (s KeySet) Add(keys ...string) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

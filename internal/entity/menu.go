package entity

import "github.com/google/uuid"

type Menu struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SubmenusCount int       `json:"submenus_count"`
	DishesCount   int       `json:"dishes_count"`
}

// MenuTree is a menu with its whole subtree, as served by /menus/all.
type MenuTree struct {
	Menu
	Submenus []SubmenuTree `json:"submenus"`
}

type MenuCreate struct {
	Title       string `json:"title" validate:"required,min=3,max=32"`
	Description string `json:"description" validate:"max=300"`
}

type MenuUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=32"`
	Description *string `json:"description" validate:"omitempty,max=300"`
}

/*
Schema MySQL for menus table:
CREATE TABLE menus (
  id CHAR(36) NOT NULL PRIMARY KEY,
  title VARCHAR(32) NOT NULL,
  description VARCHAR(300) NOT NULL
);
*/

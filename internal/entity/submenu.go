package entity

import "github.com/google/uuid"

type Submenu struct {
	ID          uuid.UUID `json:"id"`
	MenuID      uuid.UUID `json:"menu_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DishesCount int       `json:"dishes_count"`
}

type SubmenuTree struct {
	Submenu
	Dishes []Dish `json:"dishes"`
}

type SubmenuCreate struct {
	Title       string `json:"title" validate:"required,min=3,max=32"`
	Description string `json:"description" validate:"max=300"`
}

type SubmenuUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=32"`
	Description *string `json:"description" validate:"omitempty,max=300"`
}

/*
Schema MySQL for submenus table:
CREATE TABLE submenus (
  id CHAR(36) NOT NULL PRIMARY KEY,
  menu_id CHAR(36) NOT NULL,
  title VARCHAR(32) NOT NULL,
  description VARCHAR(300) NOT NULL,
  FOREIGN KEY (menu_id) REFERENCES menus(id) ON DELETE CASCADE
);
*/

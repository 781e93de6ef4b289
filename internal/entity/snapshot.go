package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a full export of the catalog produced by the menu spreadsheet
// parser. Ids are stable across exports.
type Snapshot []SnapshotMenu

type SnapshotMenu struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Submenus    []SnapshotSubmenu `json:"submenus" yaml:"submenus"`
}

type SnapshotSubmenu struct {
	ID          uuid.UUID      `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Dishes      []SnapshotDish `json:"dishes" yaml:"dishes"`
}

type SnapshotDish struct {
	ID          uuid.UUID        `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Price       decimal.Decimal  `json:"price" yaml:"price"`
	Discount    *decimal.Decimal `json:"dish_discount,omitempty" yaml:"dish_discount,omitempty"`
}

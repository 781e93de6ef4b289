package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Dish struct {
	ID          uuid.UUID       `json:"id"`
	SubmenuID   uuid.UUID       `json:"submenu_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type DishCreate struct {
	Title       string          `json:"title" validate:"required,min=3,max=32"`
	Description string          `json:"description" validate:"max=300"`
	Price       decimal.Decimal `json:"price" validate:"positive_decimal"`
}

type DishUpdate struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=32"`
	Description *string          `json:"description" validate:"omitempty,max=300"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,positive_decimal"`
}

var hundred = decimal.NewFromInt(100)

// DiscountInRange reports whether percent is a usable discount, 0 to 100
// inclusive.
func DiscountInRange(percent decimal.Decimal) bool {
	return !percent.IsNegative() && percent.LessThanOrEqual(hundred)
}

// DiscountText formats percent with the digits it was parsed with, so "10.50"
// stays "10.50".
func DiscountText(percent decimal.Decimal) string {
	if exp := percent.Exponent(); exp < 0 {
		return percent.StringFixed(-exp)
	}
	return percent.String()
}

// ApplyDiscount returns the dish with its price reduced by percent, rounded
// to cents. A nil, zero or out of range percent leaves the price as is.
func (d Dish) ApplyDiscount(percent *decimal.Decimal) Dish {
	if percent == nil || percent.IsZero() || !DiscountInRange(*percent) {
		return d
	}
	factor := hundred.Sub(*percent).Div(hundred)
	d.Price = d.Price.Mul(factor).Round(2)
	return d
}

/*
Schema MySQL for dishes table:
CREATE TABLE dishes (
  id CHAR(36) NOT NULL PRIMARY KEY,
  submenu_id CHAR(36) NOT NULL,
  title VARCHAR(32) NOT NULL,
  description VARCHAR(300) NOT NULL,
  price VARCHAR(32) NOT NULL,
  FOREIGN KEY (submenu_id) REFERENCES submenus(id) ON DELETE CASCADE
);
*/

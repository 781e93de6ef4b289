package entity

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrMenuNotFound    = fmt.Errorf("menu %w", ErrNotFound)
	ErrSubmenuNotFound = fmt.Errorf("submenu %w", ErrNotFound)
	ErrDishNotFound    = fmt.Errorf("dish %w", ErrNotFound)
)

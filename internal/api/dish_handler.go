package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"menu-service/internal/entity"
)

func (h *CatalogHandler) GetDishes(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id")
	if err != nil {
		return err
	}
	dishes, err := h.dishService.GetDishes(c.Request().Context(), ids[0], ids[1])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dishes)
}

func (h *CatalogHandler) GetDish(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		return err
	}
	dish, err := h.dishService.GetDishByID(c.Request().Context(), ids[0], ids[1], ids[2])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dish)
}

func (h *CatalogHandler) CreateDish(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id")
	if err != nil {
		return err
	}
	var in entity.DishCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	dish, err := h.dishService.CreateDish(c.Request().Context(), ids[0], ids[1], in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dish)
}

func (h *CatalogHandler) UpdateDish(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		return err
	}
	var in entity.DishUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	dish, err := h.dishService.UpdateDish(c.Request().Context(), ids[0], ids[1], ids[2], in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dish)
}

func (h *CatalogHandler) DeleteDish(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		return err
	}
	if err := h.dishService.DeleteDish(c.Request().Context(), ids[0], ids[1], ids[2]); err != nil {
		return errorResponse(c, err)
	}
	return deleted(c, "dish")
}

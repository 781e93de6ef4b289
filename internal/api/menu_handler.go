package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"menu-service/internal/entity"
)

// GetMenus lists menus --> GET /menus
func (h *CatalogHandler) GetMenus(c echo.Context) error {
	menus, err := h.menuService.GetMenus(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, menus)
}

// GetMenuTree lists menus with nested submenus and dishes --> GET /menus/all
func (h *CatalogHandler) GetMenuTree(c echo.Context) error {
	tree, err := h.menuService.GetMenuTree(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, tree)
}

// WarmupCache pre-warms the menu cache --> GET /menus/warmup-cache
func (h *CatalogHandler) WarmupCache(c echo.Context) error {
	if err := h.menuService.WarmCache(c.Request().Context()); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cache pre-warmed"})
}

func (h *CatalogHandler) GetMenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id")
	if err != nil {
		return err
	}
	menu, err := h.menuService.GetMenuByID(c.Request().Context(), ids[0])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *CatalogHandler) CreateMenu(c echo.Context) error {
	var in entity.MenuCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	menu, err := h.menuService.CreateMenu(c.Request().Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, menu)
}

func (h *CatalogHandler) UpdateMenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id")
	if err != nil {
		return err
	}
	var in entity.MenuUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	menu, err := h.menuService.UpdateMenu(c.Request().Context(), ids[0], in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *CatalogHandler) DeleteMenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id")
	if err != nil {
		return err
	}
	if err := h.menuService.DeleteMenu(c.Request().Context(), ids[0]); err != nil {
		return errorResponse(c, err)
	}
	return deleted(c, "menu")
}

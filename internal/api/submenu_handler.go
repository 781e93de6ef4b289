package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"menu-service/internal/entity"
)

func (h *CatalogHandler) GetSubmenus(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id")
	if err != nil {
		return err
	}
	submenus, err := h.submenuService.GetSubmenus(c.Request().Context(), ids[0])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, submenus)
}

func (h *CatalogHandler) GetSubmenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id")
	if err != nil {
		return err
	}
	submenu, err := h.submenuService.GetSubmenuByID(c.Request().Context(), ids[0], ids[1])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, submenu)
}

func (h *CatalogHandler) CreateSubmenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id")
	if err != nil {
		return err
	}
	var in entity.SubmenuCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	submenu, err := h.submenuService.CreateSubmenu(c.Request().Context(), ids[0], in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, submenu)
}

func (h *CatalogHandler) UpdateSubmenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id")
	if err != nil {
		return err
	}
	var in entity.SubmenuUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	submenu, err := h.submenuService.UpdateSubmenu(c.Request().Context(), ids[0], ids[1], in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, submenu)
}

func (h *CatalogHandler) DeleteSubmenu(c echo.Context) error {
	ids, err := paramIDs(c, "menu_id", "submenu_id")
	if err != nil {
		return err
	}
	if err := h.submenuService.DeleteSubmenu(c.Request().Context(), ids[0], ids[1]); err != nil {
		return errorResponse(c, err)
	}
	return deleted(c, "submenu")
}

package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"menu-service/internal/entity"
	"menu-service/internal/service"
)

type CatalogHandler struct {
	menuService    *service.MenuService
	submenuService *service.SubmenuService
	dishService    *service.DishService
}

// NewCatalogHandler creates a new instance of CatalogHandler
func NewCatalogHandler(menuService *service.MenuService, submenuService *service.SubmenuService, dishService *service.DishService) *CatalogHandler {
	return &CatalogHandler{
		menuService:    menuService,
		submenuService: submenuService,
		dishService:    dishService,
	}
}

// Register mounts the catalog routes on g.
func (h *CatalogHandler) Register(g *echo.Group) {
	g.GET("/menus", h.GetMenus)
	g.POST("/menus", h.CreateMenu)
	g.GET("/menus/all", h.GetMenuTree)
	g.GET("/menus/warmup-cache", h.WarmupCache)
	g.GET("/menus/:menu_id", h.GetMenu)
	g.PATCH("/menus/:menu_id", h.UpdateMenu)
	g.DELETE("/menus/:menu_id", h.DeleteMenu)

	g.GET("/menus/:menu_id/submenus", h.GetSubmenus)
	g.POST("/menus/:menu_id/submenus", h.CreateSubmenu)
	g.GET("/menus/:menu_id/submenus/:submenu_id", h.GetSubmenu)
	g.PATCH("/menus/:menu_id/submenus/:submenu_id", h.UpdateSubmenu)
	g.DELETE("/menus/:menu_id/submenus/:submenu_id", h.DeleteSubmenu)

	g.GET("/menus/:menu_id/submenus/:submenu_id/dishes", h.GetDishes)
	g.POST("/menus/:menu_id/submenus/:submenu_id/dishes", h.CreateDish)
	g.GET("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.GetDish)
	g.PATCH("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.UpdateDish)
	g.DELETE("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.DeleteDish)
}

// paramIDs parses the named path parameters as UUIDs. Errors are ready to be
// returned from a handler.
func paramIDs(c echo.Context, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := uuid.Parse(c.Param(name))
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid " + name})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// bind decodes and validates the request body into in.
func bind(c echo.Context, in interface{}) error {
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{"detail": "Invalid request payload"})
	}
	if err := c.Validate(in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
	}
	return nil
}

func errorResponse(c echo.Context, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": err.Error()})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func deleted(c echo.Context, what string) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  true,
		"message": "The " + what + " has been deleted",
	})
}

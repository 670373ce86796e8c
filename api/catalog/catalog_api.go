package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ppe.GO/api"
	"ppe.GO/bootstrap"
	"ppe.GO/model/entity"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

func RegisterCatalogRoutes(apiGroup *echo.Group, app *bootstrap.App) {
	g := apiGroup.Group("/catalog")

	// GET /api/catalog
	g.GET("", func(c echo.Context) error {
		entries, err := app.Catalog.List(c.Request().Context())
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"entries": entries, "count": len(entries)})
	})

	// POST /api/catalog – add or replace an entry
	g.POST("", func(c echo.Context) error {
		var body entity.CatalogEntry
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := app.Catalog.Put(c.Request().Context(), body); err != nil {
			return api.Fail(c, err)
		}
		saved, err := app.Catalog.Resolve(c.Request().Context(), body.Code)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusCreated, saved)
	})
}

package system

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ppe.GO/api"
	"ppe.GO/bootstrap"
	"ppe.GO/core/metrics"
)

func init() {
	api.RegisterRoute(RegisterSystemRoutes)
}

// RegisterSystemRoutes adds the unauthenticated health and metrics endpoints.
func RegisterSystemRoutes(e *echo.Echo, app *bootstrap.App) {
	e.GET("/health", func(c echo.Context) error {
		body := echo.Map{"status": "ok"}
		if app != nil && app.Config != nil {
			body["storage"] = app.Config.StorageDriver
			body["catalog"] = app.Config.CatalogDriver
		}
		return c.JSON(http.StatusOK, body)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

package gear

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ppe.GO/api"
	"ppe.GO/bootstrap"
	"ppe.GO/core/datemath"
)

func init() {
	api.RegisterModule(RegisterGearRoutes)
}

func RegisterGearRoutes(apiGroup *echo.Group, app *bootstrap.App) {
	// GET /api/gear/due – holdings due for replacement across the directory
	apiGroup.GET("/gear/due", func(c echo.Context) error {
		due, err := app.Gear.DueReport(c.Request().Context())
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"due": due, "count": len(due), "as_of": datemath.Format(app.Gear.Today())})
	})
}

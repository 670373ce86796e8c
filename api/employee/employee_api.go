package employee

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ppe.GO/api"
	"ppe.GO/bootstrap"
	"ppe.GO/core/apperror"
	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
	"ppe.GO/service/issuance"
)

func init() {
	api.RegisterModule(RegisterEmployeeRoutes)
}

type issueRequest struct {
	Mode     string          `json:"mode"`
	IssuedOn string          `json:"issued_on"`
	Items    []issuance.Line `json:"items"`
	Wait     bool            `json:"wait"`
}

func RegisterEmployeeRoutes(apiGroup *echo.Group, app *bootstrap.App) {
	g := apiGroup.Group("/employees")

	// GET /api/employees
	g.GET("", func(c echo.Context) error {
		list, err := app.Directory.List(c.Request().Context())
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"employees": list, "count": len(list)})
	})

	// GET /api/employees/:id
	g.GET("/:id", func(c echo.Context) error {
		e, err := app.Directory.CurrentContext(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, e)
	})

	// PUT /api/employees/:id – create or update; a department/position change is recorded in the ledger
	g.PUT("/:id", func(c echo.Context) error {
		var body entity.Employee
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		body.ID = c.Param("id")
		ctx := c.Request().Context()

		next := body.Normalize()
		current, err := app.Directory.CurrentContext(ctx, body.ID)
		switch {
		case err == nil && !current.SameContext(next.Department, next.Position):
			res, err := app.Engine.ChangeContext(ctx, body)
			if err != nil {
				return api.Fail(c, err)
			}
			return c.JSON(http.StatusOK, echo.Map{"employee": res.Employee, "document_no": res.DocumentNo})
		case err != nil && !apperror.IsNotFound(err):
			return api.Fail(c, err)
		}
		saved, err := app.Engine.RegisterEmployee(ctx, body)
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"employee": saved})
	})

	// GET /api/employees/:id/gear
	g.GET("/:id/gear", func(c echo.Context) error {
		e, holdings, err := app.Gear.CurrentGear(c.Request().Context(), c.Param("id"))
		if err != nil {
			return api.Fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"employee": e, "holdings": holdings, "as_of": datemath.Format(app.Gear.Today())})
	})

	// POST /api/employees/:id/issuances – unknown codes need a "name" on the line or are dropped
	g.POST("/:id/issuances", func(c echo.Context) error {
		var body issueRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		ctx := c.Request().Context()
		employee, err := app.Directory.CurrentContext(ctx, c.Param("id"))
		if err != nil {
			return api.Fail(c, err)
		}
		session := issuance.Session{Employee: employee, Mode: issuance.ParseMode(body.Mode)}
		if body.IssuedOn != "" {
			if session.IssuedOn, err = datemath.ParseDate(body.IssuedOn); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
		}
		res, err := app.Engine.Issue(ctx, session, body.Items, nil)
		if err != nil {
			return api.Fail(c, err)
		}
		resp := echo.Map{
			"document_no": res.DocumentNo,
			"issued_on":   datemath.Format(res.IssuedOn),
			"items":       res.Items,
			"dropped":     res.Dropped,
			"warnings":    res.Warnings,
		}
		if body.Wait && res.Export != nil {
			if path, err := res.Export.Wait(); err != nil {
				resp["export_error"] = err.Error()
			} else {
				resp["card"] = path
			}
		}
		return c.JSON(http.StatusCreated, resp)
	})
}

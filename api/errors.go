package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ppe.GO/config"
	"ppe.GO/core/apperror"
	"ppe.GO/model/storage"
	"ppe.GO/service/issuance"
)

// Fail writes err as a JSON error with the status its kind maps to.
func Fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	body := echo.Map{"error": err.Error()}
	var missing *apperror.MissingInputError
	var schema *storage.SchemaError
	switch {
	case errors.As(err, &missing):
		status = http.StatusBadRequest
		body["fields"] = missing.Fields
	case errors.Is(err, issuance.ErrNoItems), errors.Is(err, issuance.ErrTooManyItems):
		status = http.StatusUnprocessableEntity
	case apperror.IsNotFound(err):
		status = http.StatusNotFound
	case errors.As(err, &schema), apperror.IsStoreUnavailable(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		config.LogError(config.GetLogger(), "api", c.Path(), c.Request().Method, nil, err)
	}
	return c.JSON(status, body)
}

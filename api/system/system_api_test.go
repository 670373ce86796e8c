package system

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"ppe.GO/bootstrap"
	"ppe.GO/config"
	"ppe.GO/core/metrics"
)

func TestSystemRoutes(t *testing.T) {
	e := echo.New()
	RegisterSystemRoutes(e, &bootstrap.App{Config: &config.Config{StorageDriver: "xlsx", CatalogDriver: "redis"}})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"catalog":"redis"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}

	metrics.IssuedItems.Add(2)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "ppe_issued_items_total") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

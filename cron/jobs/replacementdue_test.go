package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"ppe.GO/bootstrap"
	"ppe.GO/config"
	"ppe.GO/core/datemath"
	"ppe.GO/cron"
	"ppe.GO/model/entity"
	"ppe.GO/service/entitlement"
)

func TestReplacementDue_Registered(t *testing.T) {
	for _, j := range cron.Jobs() {
		if j.Name == replacementDueName {
			if j.Schedule == "" {
				t.Error("empty schedule")
			}
			return
		}
	}
	t.Fatal("replacementdue not registered")
}

func TestLogDue(t *testing.T) {
	logger, hook := test.NewNullLogger()
	due := []entitlement.DueEntry{{
		Employee: entity.Employee{ID: "E1", FullName: "Jonas Jonaitis"},
		Holding:  entitlement.Holding{DisplayName: "Glove (32 dydis)", WearOutDate: datemath.Date(2024, 12, 31), RemainingDays: 6, Due: true},
	}}
	logDue(logger, due)
	if len(hook.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(hook.Entries))
	}
	first := hook.Entries[0]
	if first.Level != logrus.WarnLevel || first.Data["employee_id"] != "E1" || first.Data["wear_out_date"] != "2024-12-31" {
		t.Errorf("entry = %+v", first.Data)
	}
}

func TestReplacementDueJob_RunsAgainstStores(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(settings, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	called := false
	prev := openApp
	openApp = func() (*bootstrap.App, error) {
		called = true
		app, err := bootstrap.New(&config.Config{SettingsPath: settings, StorageDriver: config.DriverXLSX, CatalogDriver: config.DriverXLSX})
		if err == nil {
			app.Gear.WithClock(func() time.Time { return datemath.Date(2024, 12, 25) })
		}
		return app, err
	}
	defer func() { openApp = prev }()

	ReplacementDueJob()
	if !called {
		t.Error("job did not open the application")
	}
}

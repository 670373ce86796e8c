// Package jobs holds the scheduled jobs. Importing it registers them.
package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"ppe.GO/bootstrap"
	"ppe.GO/config"
	"ppe.GO/core/datemath"
	"ppe.GO/cron"
	"ppe.GO/service/entitlement"
)

const replacementDueName = "replacementdue"

func init() {
	cron.Register(replacementDueName, config.LoadAppConfig().DueScanSchedule, ReplacementDueJob)
}

// openApp is swapped in tests.
var openApp = func() (*bootstrap.App, error) {
	return bootstrap.New(config.LoadAppConfig())
}

// ReplacementDueJob logs every holding that wears out within the next week.
func ReplacementDueJob(args ...string) {
	log := config.GetLogger()
	app, err := openApp()
	if err != nil {
		config.LogError(log, "cron", "ReplacementDueJob", "wire application", nil, err)
		return
	}
	defer app.Close()

	due, err := app.Gear.DueReport(context.Background())
	if err != nil {
		config.LogError(log, "cron", "ReplacementDueJob", "due report", nil, err)
		return
	}
	logDue(log, due)
}

func logDue(log *logrus.Logger, due []entitlement.DueEntry) {
	for _, d := range due {
		log.WithFields(logrus.Fields{
			"module":         "cron",
			"job":            replacementDueName,
			"employee_id":    d.Employee.ID,
			"employee":       d.Employee.FullName,
			"department":     d.Employee.Department,
			"item":           d.Holding.DisplayName,
			"document_no":    d.Holding.DocumentNo,
			"wear_out_date":  datemath.Format(d.Holding.WearOutDate),
			"remaining_days": d.Holding.RemainingDays,
		}).Warn("gear due for replacement")
	}
	log.WithFields(logrus.Fields{"module": "cron", "job": replacementDueName, "due": len(due)}).Info("replacement scan finished")
}

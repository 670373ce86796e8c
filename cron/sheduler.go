package cron

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"ppe.GO/config"
)

// StartCron schedules every registered job and starts the scheduler. An invalid
// schedule stops startup before any job runs.
func StartCron() (*cron.Cron, error) {
	c := cron.New()
	log := config.GetLogger()
	for _, j := range Jobs() {
		run := guarded(j)
		name := j.Name
		if _, err := c.AddFunc(j.Schedule, func() {
			start := time.Now()
			run()
			log.WithFields(logrus.Fields{"module": "cron", "job": name, "duration_ms": time.Since(start).Milliseconds()}).Debug("cron job finished")
		}); err != nil {
			config.LogError(log, "cron", "StartCron", "register job", map[string]string{"job": name, "schedule": j.Schedule}, err)
			return nil, err
		}
	}
	c.Start()
	return c, nil
}

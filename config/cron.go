package config

import "strings"

// CronSchedule returns the schedule for job name, overridable with CRON_<NAME>.
func CronSchedule(name, fallback string) string {
	return GetEnv("CRON_"+strings.ToUpper(name), fallback)
}

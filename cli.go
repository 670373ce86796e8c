//go:build cli
// +build cli

package main

import (
	_ "ppe.GO/custom"
	_ "ppe.GO/cron/jobs"

	"ppe.GO/cmd"
	"ppe.GO/config"
)

func main() {
	config.LoadEnv()
	config.ConfigureLogger()
	cmd.Execute()
}

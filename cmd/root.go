package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
	"ppe.GO/config"
)

var rootCmd = &cobra.Command{
	Use:           "ppe",
	Short:         "PPE issuance ledger: employees, gear catalog, issuance and replacement tracking",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// newApp builds the application for a command run; tests replace it.
var newApp = func() (*bootstrap.App, error) {
	return bootstrap.New(config.LoadAppConfig())
}

// withApp runs fn against a freshly wired application and waits for pending exports.
func withApp(fn func(app *bootstrap.App) error) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// Execute applies registered extension commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"ppe.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jobName != "" {
			fmt.Fprintf(out, "Running cron job: %s\n", jobName)
			return cron.Run(jobName, args...)
		}

		figure.NewFigure("PPE cron", "", true).Print()
		c, err := cron.StartCron()
		if err != nil {
			return err
		}
		defer c.Stop()
		fmt.Fprintf(out, "Cron scheduler started with jobs: %s. Press Ctrl+C to exit.\n", strings.Join(cron.Names(), ", "))

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}

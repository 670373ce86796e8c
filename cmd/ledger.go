package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
)

var ledgerNextCmd = &cobra.Command{
	Use:   "ledger:next",
	Short: "Print the document number the next issuance will receive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			n, err := app.Ledger.PeekDocumentNumber(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ledgerNextCmd)
}

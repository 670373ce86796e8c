package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
	"ppe.GO/model/entity"
)

var catalogInput entity.CatalogEntry

var catalogListCmd = &cobra.Command{
	Use:   "catalog:list",
	Short: "List item codes and names",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			entries, err := app.Catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Code\tName\tWear months")
			for _, e := range entries {
				months := ""
				if e.DefaultWearMonths > 0 {
					months = fmt.Sprint(e.DefaultWearMonths)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Code, e.DisplayName, months)
			}
			return w.Flush()
		})
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "catalog:add",
	Short: "Add or replace a catalog entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			if err := app.Catalog.Put(cmd.Context(), catalogInput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog entry %s saved.\n", catalogInput.Code)
			return nil
		})
	},
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogInput.Code, "code", "", "item code without size")
	catalogAddCmd.Flags().StringVar(&catalogInput.DisplayName, "name", "", "item name")
	catalogAddCmd.Flags().IntVar(&catalogInput.DefaultWearMonths, "months", 0, "default wear-out period in months")
	_ = catalogAddCmd.MarkFlagRequired("code")
	_ = catalogAddCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(catalogListCmd, catalogAddCmd)
}

// Package custom holds site extensions wired through the public command and cron registries.
// Importing it (cli.go does) registers ledger:check and the weekly ledgercheck job.
package custom

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
	"ppe.GO/cmd"
	"ppe.GO/config"
	"ppe.GO/core/apperror"
	"ppe.GO/cron"
	"ppe.GO/model/entity"
)

// Check scans ledger rows for values the resolver would skip or misattribute.
// Row numbers are 1-based positions in records.
func Check(records []entity.LedgerRecord) []*apperror.MalformedRecordError {
	var out []*apperror.MalformedRecordError
	owner := map[int]string{}
	for i, r := range records {
		row := i + 1
		if r.EmployeeID == "" {
			out = append(out, &apperror.MalformedRecordError{Row: row, Field: "TabNr", Value: r.EmployeeName})
		}
		if r.DocumentNo <= 0 {
			out = append(out, &apperror.MalformedRecordError{Row: row, Field: "Numeris", Value: fmt.Sprint(r.DocumentNo)})
		} else if prev, ok := owner[r.DocumentNo]; ok && prev != r.EmployeeID {
			out = append(out, &apperror.MalformedRecordError{Row: row, Field: "Numeris", Value: fmt.Sprintf("%d shared by %s and %s", r.DocumentNo, prev, r.EmployeeID)})
		} else {
			owner[r.DocumentNo] = r.EmployeeID
		}
		if r.IsContextMarker() {
			continue
		}
		if r.IssuedOn.IsZero() {
			out = append(out, &apperror.MalformedRecordError{Row: row, Field: "Išduota", Value: r.ItemDisplayName})
		}
		if r.ItemDisplayName == "" {
			out = append(out, &apperror.MalformedRecordError{Row: row, Field: "Pavadinimas", Value: r.ItemCode})
		}
	}
	return out
}

func runCheck(ctx context.Context, app *bootstrap.App) ([]*apperror.MalformedRecordError, error) {
	records, err := app.Ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	return Check(records), nil
}

func printFindings(w io.Writer, findings []*apperror.MalformedRecordError) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "Ledger OK")
		return
	}
	for _, f := range findings {
		fmt.Fprintln(w, f.Error())
	}
	fmt.Fprintf(w, "%d problem(s) found\n", len(findings))
}

// openApp builds the application for the extension; tests replace it.
var openApp = func() (*bootstrap.App, error) {
	return bootstrap.New(config.LoadAppConfig())
}

func init() {
	cmd.Register(&cobra.Command{
		Use:   "ledger:check",
		Short: "Report ledger rows with missing or conflicting values",
		RunE: func(c *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()
			findings, err := runCheck(c.Context(), app)
			if err != nil {
				return err
			}
			printFindings(c.OutOrStdout(), findings)
			return nil
		},
	})

	cron.Register("ledgercheck", "0 6 * * 1", func(args ...string) {
		log := config.GetLogger()
		app, err := openApp()
		if err != nil {
			config.LogError(log, "custom", "ledgercheck", "open app", nil, err)
			return
		}
		defer app.Close()
		findings, err := runCheck(context.Background(), app)
		if err != nil {
			config.LogError(log, "custom", "ledgercheck", "load ledger", nil, err)
			return
		}
		for _, f := range findings {
			log.WithFields(logrus.Fields{"module": "custom", "row": f.Row, "field": f.Field, "value": f.Value}).Warn("ledger row needs attention")
		}
		log.WithField("problems", len(findings)).Info("ledger check finished")
	})
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
	"ppe.GO/core/datemath"
	"ppe.GO/service/entitlement"
	"ppe.GO/service/issuance"
)

var (
	issueItems []string
	issueDate  string
	issueMode  string
	issueWait  bool
)

var gearCurrentCmd = &cobra.Command{
	Use:   "gear:current <id>",
	Short: "Show the gear an employee currently holds and when it wears out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			e, holdings, err := app.Gear.CurrentGear(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s / %s\n", e.FullName, e.ID, e.Department, e.Position)
			printHoldings(cmd, holdings)
			return nil
		})
	},
}

var gearIssueCmd = &cobra.Command{
	Use:   "gear:issue <id>",
	Short: "Issue gear to an employee under a new document number",
	Example: `  ppe gear:issue 1042 --item 05-32:6 --item 07:12
  ppe gear:issue 1042 --mode new --date 2024-06-30 --item 05-32:6`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := parseItemFlags(issueItems)
		if err != nil {
			return err
		}
		session := issuance.Session{Mode: issuance.ParseMode(issueMode)}
		if issueDate != "" {
			if session.IssuedOn, err = datemath.ParseDate(issueDate); err != nil {
				return err
			}
		}
		return withApp(func(app *bootstrap.App) error {
			if session.Employee, err = app.Directory.CurrentContext(cmd.Context(), args[0]); err != nil {
				return err
			}
			prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			res, err := app.Engine.Issue(cmd.Context(), session, lines, prompter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "  [warn] %s\n", w)
			}
			fmt.Fprintf(out, "Document %d issued on %s: %d item(s).\n", res.DocumentNo, datemath.Format(res.IssuedOn), len(res.Items))
			if issueWait && res.Export != nil {
				path, err := res.Export.Wait()
				if err != nil {
					return fmt.Errorf("card export: %w", err)
				}
				fmt.Fprintf(out, "Card written to %s\n", path)
			}
			return nil
		})
	},
}

var gearDueCmd = &cobra.Command{
	Use:   "gear:due",
	Short: "List gear due for replacement within a week, across all employees",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			due, err := app.Gear.DueReport(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TabNr\tName\tItem\tWears out\tDays left")
			for _, d := range due {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", d.Employee.ID, d.Employee.FullName, d.Holding.DisplayName,
					datemath.Format(d.Holding.WearOutDate), d.Holding.RemainingDays)
			}
			return w.Flush()
		})
	},
}

func printHoldings(cmd *cobra.Command, holdings []entitlement.Holding) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Code\tItem\tIssued\tMonths\tWears out\tDays left\t")
	for _, h := range holdings {
		left, wears, months := "", "", ""
		if h.HasWearOut() {
			left = strconv.Itoa(h.RemainingDays)
			wears = datemath.Format(h.WearOutDate)
			months = strconv.Itoa(h.WearMonths)
		}
		flag := ""
		if h.Due {
			flag = "REPLACE"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", h.ItemCode, h.DisplayName, datemath.Format(h.IssuedOn), months, wears, left, flag)
	}
	_ = w.Flush()
}

// parseItemFlags reads CODE[:MONTHS] values.
func parseItemFlags(values []string) ([]issuance.Line, error) {
	lines := make([]issuance.Line, 0, len(values))
	for _, v := range values {
		code, months, hasMonths := strings.Cut(v, ":")
		line := issuance.Line{Code: strings.TrimSpace(code)}
		if hasMonths && strings.TrimSpace(months) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(months))
			if err != nil {
				return nil, fmt.Errorf("item %q: wear months must be a whole number", v)
			}
			line.WearMonths = n
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func init() {
	gearIssueCmd.Flags().StringArrayVarP(&issueItems, "item", "i", nil, "item as CODE[-SIZE][:MONTHS], repeatable")
	gearIssueCmd.Flags().StringVar(&issueDate, "date", "", "issue date (only with --mode new)")
	gearIssueCmd.Flags().StringVar(&issueMode, "mode", "existing", "issuance flow: existing, new or change")
	gearIssueCmd.Flags().BoolVar(&issueWait, "wait", true, "wait for the issuance card to be written")

	rootCmd.AddCommand(gearCurrentCmd, gearIssueCmd, gearDueCmd)
}

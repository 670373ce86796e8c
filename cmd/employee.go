package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ppe.GO/bootstrap"
	"ppe.GO/model/entity"
)

var employeeInput entity.Employee

var employeeListCmd = &cobra.Command{
	Use:   "employee:list",
	Short: "List employees in the directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			list, err := app.Directory.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TabNr\tName\tDepartment\tPosition\tGender")
			for _, e := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.FullName, e.Department, e.Position, e.Gender)
			}
			return w.Flush()
		})
	},
}

var employeeShowCmd = &cobra.Command{
	Use:   "employee:show <id>",
	Short: "Show an employee's current department and position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			e, err := app.Directory.CurrentContext(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEmployee(cmd, e)
			return nil
		})
	},
}

var employeeAddCmd = &cobra.Command{
	Use:   "employee:add",
	Short: "Add an employee to the directory, or update one with the same id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			e, err := app.Engine.RegisterEmployee(cmd.Context(), employeeInput)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Employee saved.")
			printEmployee(cmd, e)
			return nil
		})
	},
}

var employeeChangeCmd = &cobra.Command{
	Use:   "employee:change",
	Short: "Move an employee to a new department and/or position",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			current, err := app.Directory.CurrentContext(cmd.Context(), employeeInput.ID)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("department") {
				current.Department = employeeInput.Department
			}
			if cmd.Flags().Changed("position") {
				current.Position = employeeInput.Position
			}
			res, err := app.Engine.ChangeContext(cmd.Context(), current)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Context change recorded as document %d.\n", res.DocumentNo)
			printEmployee(cmd, res.Employee)
			return nil
		})
	},
}

var departmentsListCmd = &cobra.Command{
	Use:   "departments:list [department]",
	Short: "List departments, or the positions within one department",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *bootstrap.App) error {
			var (
				values []string
				err    error
			)
			if len(args) == 1 {
				values, err = app.Directory.PositionsFor(cmd.Context(), args[0])
			} else {
				values, err = app.Directory.Departments(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		})
	},
}

func printEmployee(cmd *cobra.Command, e entity.Employee) {
	fmt.Fprintf(cmd.OutOrStdout(), "TabNr:      %s\nName:       %s\nDepartment: %s\nPosition:   %s\nGender:     %s\n",
		e.ID, e.FullName, e.Department, e.Position, e.Gender)
}

func init() {
	for _, c := range []*cobra.Command{employeeAddCmd, employeeChangeCmd} {
		c.Flags().StringVar(&employeeInput.ID, "id", "", "personnel number (TabNr)")
		c.Flags().StringVar(&employeeInput.Department, "department", "", "department")
		c.Flags().StringVar(&employeeInput.Position, "position", "", "position")
		_ = c.MarkFlagRequired("id")
	}
	employeeAddCmd.Flags().StringVar(&employeeInput.FullName, "name", "", "full name, first name first")
	employeeAddCmd.Flags().StringVar(&employeeInput.Gender, "gender", "", "gender (default "+entity.DefaultGender+")")

	rootCmd.AddCommand(employeeListCmd, employeeShowCmd, employeeAddCmd, employeeChangeCmd, departmentsListCmd)
}

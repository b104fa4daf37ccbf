package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSalaryCommand groups payroll operations.
func NewSalaryCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Payroll operations",
	}
	cmd.AddCommand(newSalaryCalculateCommand(opts, boot))
	return cmd
}

func newSalaryCalculateCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Recompute salaries of every active staff member for a month",
		Long: `Recompute present days and amounts for every active staff member.

Rows already marked Paid keep their status. --month defaults to the
current month in the attendance timezone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, boot, func(ctx context.Context, app *App) error {
				m := month
				if m == "" {
					m = app.Now().In(app.Location).Format("2006-01")
				}

				res, err := app.Salary.Calculate(ctx, m)
				if err != nil {
					return err
				}

				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				rows := make([][]string, 0, len(res.Records))
				for _, r := range res.Records {
					name := r.StaffName
					if name == "" {
						name = r.StaffID
					}
					rows = append(rows, []string{
						name,
						strconv.Itoa(r.TotalPresentDays),
						strconv.FormatInt(r.CalculatedAmount, 10),
						r.Status,
					})
				}
				return writeTable(cmd.OutOrStdout(), []string{"STAFF", "PRESENT", "AMOUNT", "STATUS"}, rows)
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM")
	return cmd
}

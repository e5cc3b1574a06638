package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		from    string
		to      string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gigs in a date range",
		Long: `List all gigs within a date range, grouped by day.

If no dates are specified, lists the current week.
If only --from is specified, lists gigs for that single day.
If both --from and --to are specified, lists gigs in that range (inclusive).`,
		Example: `  bandcal list
  bandcal list --from=friday
  bandcal list --from=2026-03-09 --to=2026-03-15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now()
			var dateRange *dateutil.DateRange
			if from == "" && to == "" {
				monday, sunday := dateutil.WeekRange(now)
				dateRange = &dateutil.DateRange{Start: monday, End: sunday}
			} else {
				var err error
				dateRange, err = dateutil.NewDateRange(from, to, now)
				if err != nil {
					return err
				}
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			gigs, err := a.repo.ListGigsByDateRange(context.Background(), dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing gigs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(gigs) == 0 {
				fmt.Fprintln(out, "No gigs found in the specified date range.")
				return nil
			}

			PrintGigsByDay(out, gigs, PrintOpts{
				Interval: a.config.IntervalOptions(),
				Now:      now,
				Verbose:  verbose,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, today, tomorrow or a weekday)")
	cmd.Flags().StringVar(&to, "to", "", "Last date, inclusive (defaults to --from)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full gig titles")

	return cmd
}

package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		date    string
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a week of gigs with totals",
		Long: `Display Monday through Sunday of the ISO week containing --date
(default: this week), followed by booked time and clashing gigs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			now := a.now()
			day, err := dateutil.ParseDay(date, now)
			if err != nil {
				return err
			}
			monday, sunday := dateutil.WeekRange(day)

			if err := a.ensureRepo(); err != nil {
				return err
			}
			gigs, err := a.repo.ListGigsByDateRange(context.Background(), monday, sunday)
			if err != nil {
				return fmt.Errorf("loading week: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(gigs) == 0 {
				fmt.Fprintln(out, "No gigs scheduled for this week.")
				return nil
			}

			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			opts := PrintOpts{Interval: a.config.IntervalOptions(), Now: now, Verbose: verbose}
			PrintGigsByDay(out, gigs, opts)

			fmt.Fprintln(out, strings.Repeat("─", 60))
			PrintStats(out, AccumulateStats(gigs, opts.Interval))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week (default: today)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full gig titles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// PrintStats prints week totals.
func PrintStats(w io.Writer, stats Stats) {
	fmt.Fprintf(w, "  Gigs: %s  Booked: %s\n",
		formatStats(fmt.Sprint(stats.Gigs)),
		formatStats(FormatDuration(stats.BookedMinutes)),
	)
	if day, minutes := stats.BusiestDay(); day != "" {
		fmt.Fprintf(w, "  Busiest: %s (%s)\n", day, FormatDuration(minutes))
	}
	if stats.Clashes > 0 {
		fmt.Fprintf(w, "  %s\n", formatWarn(fmt.Sprintf("Clashes: %d", stats.Clashes)))
	}
}

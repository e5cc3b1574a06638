package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gig"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
		venue string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new gig",
		Long: `Add a gig to the calendar. Without --end the gig is shown with the
configured default duration. Gigs may overlap.

Example:
  bandcal add "Jazz night" --date=2026-03-14 --start=21:00 --end=23:30 --venue="Blue Note"
  bandcal add "Open mic" --date=friday --start=20:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return err
			}

			g, err := gig.New(args[0], venue, day.Format(dateutil.DateLayout), start, end)
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateGig(context.Background(), g); err != nil {
				return fmt.Errorf("creating gig: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added gig %s: %s %s %s%s\n",
				g.ID,
				g.Title,
				g.Date.Format(dateutil.DateLayout),
				g.TimeRange(),
				venueSuffix(g.Venue),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, optional)")
	cmd.Flags().StringVar(&venue, "venue", "", "Venue")

	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func venueSuffix(venue string) string {
	if venue == "" {
		return ""
	}
	return " @ " + venue
}

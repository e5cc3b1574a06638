package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gig"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "move <gig-id>",
		Short: "Change the start and end time of a gig",
		Long: `Re-time a gig on the same day. Without --end the gig falls back to
the configured default duration.`,
		Example: `  bandcal move 01JP3X2K8Q --start=21:30 --end=00:00
  bandcal move 01JP3X2K8Q --start=19:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			current, err := a.repo.GetGig(ctx, args[0])
			if err != nil {
				return gigLookupError(args[0], err)
			}

			// Validate the new times the same way add does.
			moved, err := gig.New(current.Title, current.Venue, current.Date.Format(dateutil.DateLayout), start, end)
			if err != nil {
				return err
			}

			if err := a.repo.UpdateGigTimes(ctx, current.ID, moved.Start, moved.End); err != nil {
				return fmt.Errorf("moving gig: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved gig %s: %s %s %s → %s\n",
				current.ID,
				current.Title,
				current.Date.Format(dateutil.DateLayout),
				current.TimeRange(),
				moved.TimeRange(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM, optional)")

	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <gig-id>",
		Short:   "Remove a gig",
		Example: `  bandcal remove 01JP3X2K8Q`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			g, err := a.repo.GetGig(ctx, args[0])
			if err != nil {
				return gigLookupError(args[0], err)
			}
			if err := a.repo.DeleteGig(ctx, g.ID); err != nil {
				return fmt.Errorf("removing gig: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed gig %s: %s %s %s\n",
				g.ID, g.Title, g.Date.Format(dateutil.DateLayout), g.TimeRange())
			return nil
		},
	}
}

func gigLookupError(id string, err error) error {
	if errors.Is(err, gig.ErrGigNotFound) {
		return fmt.Errorf("no gig with ID %s", id)
	}
	return fmt.Errorf("loading gig: %w", err)
}

package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/ics"
)

func (a *App) importCmd() *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "import [calendar.ics]",
		Short: "Import gigs from an iCalendar file",
		Long: `Import timed events from an .ics file as gigs.

Times are converted to the local zone (or --tz). All-day, multi-day and
recurring events are skipped. Events keep their UID, so importing the
same file again updates the gigs instead of duplicating them.

Example:
  bandcal import ~/Downloads/tour.ics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tz != "" {
				var err error
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("loading time zone: %w", err)
				}
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("calendar file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking calendar file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("calendar path is a directory: %s", sourcePath)
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}

			f, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("opening calendar: %w", err)
			}
			defer func() { _ = f.Close() }()

			out := cmd.OutOrStdout()
			count, skipped, err := importCalendar(context.Background(), a.repo, f, loc)
			for _, s := range skipped {
				fmt.Fprintf(out, "  %s %s\n", formatWarn("skipped"), s)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Imported %d gigs from %s\n", count, sourcePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "Time zone to show gigs in (default: local)")
	return cmd
}

func importCalendar(ctx context.Context, dest gig.Repository, r io.Reader, loc *time.Location) (int, []ics.Skipped, error) {
	gigs, skipped, err := ics.Parse(r, loc)
	if err != nil {
		return 0, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	imported := 0
	for _, g := range gigs {
		if err := dest.CreateGig(ctx, g); err != nil {
			return imported, skipped, fmt.Errorf("importing gig %q: %w", g.Title, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}

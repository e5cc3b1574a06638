package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/dayview"
)

// Supported layout output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LayoutDoc is the exported geometry of one composed day.
type LayoutDoc struct {
	Date         string     `json:"date" yaml:"date"`
	DayStartHour int        `json:"day_start_hour" yaml:"day_start_hour"`
	DayEndHour   int        `json:"day_end_hour" yaml:"day_end_hour"`
	HourHeight   float64    `json:"hour_height" yaml:"hour_height"`
	Height       float64    `json:"height" yaml:"height"`
	Blocks       []BlockDoc `json:"blocks" yaml:"blocks"`
	Now          *MarkerDoc `json:"now,omitempty" yaml:"now,omitempty"`
}

// BlockDoc is one positioned gig.
type BlockDoc struct {
	ID            string  `json:"id" yaml:"id"`
	Title         string  `json:"title" yaml:"title"`
	Venue         string  `json:"venue,omitempty" yaml:"venue,omitempty"`
	Start         string  `json:"start" yaml:"start"`
	End           string  `json:"end" yaml:"end"`
	Top           float64 `json:"top" yaml:"top"`
	Height        float64 `json:"height" yaml:"height"`
	Column        int     `json:"column" yaml:"column"`
	TotalColumns  int     `json:"total_columns" yaml:"total_columns"`
	Left          float64 `json:"left" yaml:"left"`
	Width         float64 `json:"width" yaml:"width"`
	ClippedTop    bool    `json:"clipped_top,omitempty" yaml:"clipped_top,omitempty"`
	ClippedBottom bool    `json:"clipped_bottom,omitempty" yaml:"clipped_bottom,omitempty"`
	Hidden        bool    `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Fallback      bool    `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// MarkerDoc is the current-time line.
type MarkerDoc struct {
	Time string  `json:"time" yaml:"time"`
	Y    float64 `json:"y" yaml:"y"`
}

// NewLayoutDoc converts a composed day for export.
func NewLayoutDoc(day dayview.DayLayout) LayoutDoc {
	doc := LayoutDoc{
		Date:         day.Date.Format(dateutil.DateLayout),
		DayStartHour: day.Geometry.DayStartHour,
		DayEndHour:   day.Geometry.DayEndHour,
		HourHeight:   day.Geometry.HourHeight,
		Height:       day.Height,
		Blocks:       make([]BlockDoc, 0, len(day.Blocks)),
	}
	for _, b := range day.Blocks {
		doc.Blocks = append(doc.Blocks, BlockDoc{
			ID:            b.Gig.ID,
			Title:         b.Gig.Title,
			Venue:         b.Gig.Venue,
			Start:         clockLabel(b.Interval.Start),
			End:           clockLabel(b.Interval.End),
			Top:           b.Top,
			Height:        b.Height,
			Column:        b.Column,
			TotalColumns:  b.TotalColumns,
			Left:          b.Left,
			Width:         b.Width,
			ClippedTop:    b.ClippedTop,
			ClippedBottom: b.ClippedBottom,
			Hidden:        !b.Visible,
			Fallback:      b.Fallback,
		})
	}
	if day.Now != nil {
		doc.Now = &MarkerDoc{Time: day.Now.Time.String(), Y: day.Now.Y}
	}
	return doc
}

func (a *App) layoutCmd() *cobra.Command {
	var (
		date   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the composed geometry of a day",
		Long: `Lay out one day the way the week grid draws it: pixel offsets from the
top of the visible window, and side-by-side columns for overlapping gigs.`,
		Example: `  bandcal layout
  bandcal layout --date=2026-03-14 --format=json
  bandcal layout --date=saturday --format=yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case FormatText, FormatJSON, FormatYAML:
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}

			now := a.now()
			day, err := dateutil.ParseDay(date, now)
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			gigs, err := a.repo.ListGigsByDateRange(context.Background(), day, day)
			if err != nil {
				return fmt.Errorf("listing gigs: %w", err)
			}

			composed := dayview.Compose(day, gigs, a.config.Geometry(), dayview.Options{
				Interval: a.config.IntervalOptions(),
				Now:      now,
			})
			return writeLayout(cmd.OutOrStdout(), NewLayoutDoc(composed), format)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to lay out (default: today)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text, json or yaml")
	return cmd
}

func writeLayout(w io.Writer, doc LayoutDoc, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		printLayoutText(w, doc, termWidth())
		return nil
	}
}

// printLayoutText draws each block as a bar across the column width.
func printLayoutText(w io.Writer, doc LayoutDoc, width int) {
	fmt.Fprintf(w, "  %s  %02d:00-%02d:00  %.0fpx\n",
		formatHeader(doc.Date), doc.DayStartHour, doc.DayEndHour, doc.Height)
	if len(doc.Blocks) == 0 {
		fmt.Fprintln(w, "  No gigs.")
		return
	}

	barWidth := min(max(width-50, 12), 40)
	for _, b := range doc.Blocks {
		from := int(b.Left * float64(barWidth))
		to := max(int((b.Left+b.Width)*float64(barWidth)), from+1)
		bar := strings.Repeat("·", from) + strings.Repeat("█", to-from) + strings.Repeat("·", barWidth-to)

		flags := ""
		switch {
		case b.Hidden:
			flags = formatWarn(" hidden")
		case b.ClippedTop && b.ClippedBottom:
			flags = formatMuted(" clipped")
		case b.ClippedTop:
			flags = formatMuted(" clipped top")
		case b.ClippedBottom:
			flags = formatMuted(" clipped bottom")
		}
		if b.Fallback {
			flags += formatWarn(" fallback")
		}

		fmt.Fprintf(w, "  %s-%s  %s  y=%-6.1f h=%-6.1f  %s%s\n",
			b.Start, b.End, formatGig(bar), b.Top, b.Height, truncate(b.Title, 24), flags)
	}
	if doc.Now != nil {
		fmt.Fprintf(w, "  %s  y=%.1f\n", formatWarn("now "+doc.Now.Time), doc.Now.Y)
	}
}

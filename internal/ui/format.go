package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/layout"
)

// Stats holds aggregated statistics for a set of gigs.
type Stats struct {
	Gigs          int
	BookedMinutes int
	Clashes       int // overlap clusters holding more than one gig
	DayStats      map[string]DayStats
}

// DayStats holds statistics for a single day.
type DayStats struct {
	Gigs    int
	Minutes int
	Clashes int
}

// BusiestDay returns the day with the most booked minutes.
func (s Stats) BusiestDay() (day string, minutes int) {
	for d, ds := range s.DayStats {
		if ds.Minutes > minutes || (ds.Minutes == minutes && minutes > 0 && d < day) {
			day, minutes = d, ds.Minutes
		}
	}
	return day, minutes
}

// AccumulateStats builds stats for gigs, resolving each day's intervals.
func AccumulateStats(gigs []*gig.Gig, opts gig.IntervalOptions) Stats {
	stats := Stats{DayStats: make(map[string]DayStats)}

	for day, dayGigs := range gig.GroupByDay(gigs) {
		intervals := make([]layout.Interval, len(dayGigs))
		ds := DayStats{Gigs: len(dayGigs)}
		for i, g := range dayGigs {
			iv, _ := g.Interval(opts)
			intervals[i] = iv
			ds.Minutes += iv.End - iv.Start
		}
		for _, cluster := range layout.Clusters(intervals) {
			if len(cluster) > 1 {
				ds.Clashes++
			}
		}

		stats.DayStats[day] = ds
		stats.Gigs += ds.Gigs
		stats.BookedMinutes += ds.Minutes
		stats.Clashes += ds.Clashes
	}
	return stats
}

// PrintOpts controls gig row output.
type PrintOpts struct {
	Interval     gig.IntervalOptions
	Now          time.Time
	Verbose      bool // Show full titles
	MaxDescWidth int  // Maximum title width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "    HH:MM-HH:MM  " plus "  Xh" after the title
	available := termWidth() - 23
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintGigRow prints a single gig row with consistent formatting.
func PrintGigRow(w io.Writer, g *gig.Gig, opts PrintOpts, maxDescWidth int) {
	iv, ok := g.Interval(opts.Interval)
	times := clockLabel(iv.Start) + "-" + clockLabel(iv.End)
	if !g.HasEnd() {
		times = clockLabel(iv.Start) + "      "
	}

	title := truncate(g.Title, maxDescWidth)
	if g.IsPast(opts.Now) {
		title = formatPast(fmt.Sprintf("%-*s", maxDescWidth, title))
	} else {
		title = formatGig(fmt.Sprintf("%-*s", maxDescWidth, title))
	}

	line := fmt.Sprintf("    %s  %s  %s", times, title, formatMuted(FormatDuration(iv.End-iv.Start)))
	if g.Venue != "" {
		line += "  " + formatMuted("@ "+g.Venue)
	}
	if !ok {
		line += "  " + formatWarn("(start "+g.Start+" unreadable)")
	}
	fmt.Fprintln(w, line)
}

// PrintGigsByDay prints gigs under a header per day.
func PrintGigsByDay(w io.Writer, gigs []*gig.Gig, opts PrintOpts) {
	maxDescWidth := opts.CalcMaxDescWidth(30)
	var currentDate string
	for _, g := range gigs {
		date := g.Date.Format(dateutil.DateLayout)
		if date != currentDate {
			if currentDate != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s\n", formatHeader(g.Date.Format("Mon Jan 2")))
			currentDate = date
		}
		PrintGigRow(w, g, opts, maxDescWidth)
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// clockLabel formats minutes since midnight as HH:MM, with 24:00 for the
// end of the day.
func clockLabel(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func truncate(s string, maxWidth int) string {
	r := []rune(s)
	if len(r) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return string(r[:maxWidth])
	}
	return string(r[:maxWidth-3]) + "..."
}

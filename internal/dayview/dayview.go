// Package dayview composes the pixel geometry of a single day column:
// gridlines, gig blocks in overlap columns, the current-time marker and a
// drag preview. It performs no drawing.
package dayview

import (
	"time"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/layout"
	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// GridlineStep is the spacing of gridlines in minutes.
const GridlineStep = 30

// Gridline is a horizontal rule across the column.
type Gridline struct {
	Time timegrid.TimeOfDay
	Y    float64
	Hour bool // on the hour, otherwise a half-hour line
}

// Block is the rendered geometry of one gig.
type Block struct {
	Gig      *gig.Gig
	Interval layout.Interval

	Top    float64
	Height float64

	Column       int
	TotalColumns int
	Left         float64 // fraction of the column width
	Width        float64 // fraction of the column width

	ClippedTop    bool // starts before the visible window
	ClippedBottom bool // ends after the visible window
	Visible       bool // false when entirely outside the window
	Fallback      bool // start time was malformed
}

// Marker is the current-time line.
type Marker struct {
	Time timegrid.TimeOfDay
	Y    float64
}

// Preview is the highlighted range of an in-progress drag.
type Preview struct {
	Interval layout.Interval
	Top      float64
	Height   float64
}

// DayLayout is the composed geometry of one day.
type DayLayout struct {
	Date      time.Time
	Geometry  timegrid.Geometry
	Height    float64
	Gridlines []Gridline
	Blocks    []Block
	Now       *Marker
	Preview   *Preview
}

// Options tunes Compose.
type Options struct {
	Interval gig.IntervalOptions

	// Now, when non-zero and on the composed date, adds a Marker.
	Now time.Time

	// Preview, when set, adds a Preview block.
	Preview *layout.Interval

	// OnFallback is called for every gig whose start time could not be
	// parsed.
	OnFallback func(g *gig.Gig)
}

// Compose lays out the gigs dated on date. Gigs on other dates are
// ignored. Gigs with malformed times are placed at the fallback start,
// never dropped. An invalid geometry is replaced by the default one.
func Compose(date time.Time, gigs []*gig.Gig, geo timegrid.Geometry, opts Options) DayLayout {
	if geo.Validate() != nil {
		geo = timegrid.DefaultGeometry()
	}

	day := DayLayout{
		Date:      date,
		Geometry:  geo,
		Height:    geo.Height(),
		Gridlines: Gridlines(geo),
	}

	var (
		onDay     []*gig.Gig
		intervals []layout.Interval
		fallback  []bool
	)
	for _, g := range gigs {
		if !g.OnDate(date) {
			continue
		}
		iv, ok := g.Interval(opts.Interval)
		if !ok && opts.OnFallback != nil {
			opts.OnFallback(g)
		}
		onDay = append(onDay, g)
		intervals = append(intervals, iv)
		fallback = append(fallback, !ok)
	}

	assignments := layout.Resolve(intervals)
	day.Blocks = make([]Block, len(onDay))
	for i, g := range onDay {
		day.Blocks[i] = block(g, intervals[i], assignments[i], geo)
		day.Blocks[i].Fallback = fallback[i]
	}

	if !opts.Now.IsZero() && dateutil.SameDay(opts.Now, date) {
		if y, ok := NowOffset(opts.Now, geo); ok {
			day.Now = &Marker{Time: wallClock(opts.Now), Y: y}
		}
	}

	if opts.Preview != nil {
		top, bottom := visibleSpan(*opts.Preview, geo)
		day.Preview = &Preview{Interval: *opts.Preview, Top: top, Height: bottom - top}
	}

	return day
}

// Gridlines returns a line every half hour from the window start to the
// window end, both included.
func Gridlines(geo timegrid.Geometry) []Gridline {
	var lines []Gridline
	for m := geo.WindowStart(); m <= geo.WindowEnd(); m += GridlineStep {
		lines = append(lines, Gridline{
			Time: timegrid.TimeOfDay(m),
			Y:    geo.Position(m),
			Hour: m%60 == 0,
		})
	}
	return lines
}

// NowOffset returns the pixel offset of the wall-clock time of now. It
// reports false when that time is outside the visible window. The result
// depends only on the hour and minute of now.
func NowOffset(now time.Time, geo timegrid.Geometry) (float64, bool) {
	m := wallClock(now).Minutes()
	if m < geo.WindowStart() || m >= geo.WindowEnd() {
		return 0, false
	}
	return geo.Position(m), true
}

func wallClock(t time.Time) timegrid.TimeOfDay {
	return timegrid.NewTimeOfDay(t.Hour(), t.Minute())
}

func block(g *gig.Gig, iv layout.Interval, a layout.ColumnAssignment, geo timegrid.Geometry) Block {
	total := max(a.TotalColumns, 1)
	top, bottom := visibleSpan(iv, geo)
	return Block{
		Gig:           g,
		Interval:      iv,
		Top:           top,
		Height:        bottom - top,
		Column:        a.Column,
		TotalColumns:  total,
		Left:          float64(a.Column) / float64(total),
		Width:         1 / float64(total),
		ClippedTop:    iv.Start < geo.WindowStart(),
		ClippedBottom: iv.End > geo.WindowEnd(),
		Visible:       iv.End > geo.WindowStart() && iv.Start < geo.WindowEnd(),
	}
}

func visibleSpan(iv layout.Interval, geo timegrid.Geometry) (top, bottom float64) {
	top = geo.Clamp(geo.Position(iv.Start))
	bottom = geo.Clamp(geo.Position(iv.End))
	return top, max(bottom, top)
}

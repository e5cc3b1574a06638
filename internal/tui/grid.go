package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/layout"
	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// Terminal layout constants.
const (
	gutterWidth   = 6 // "HH:MM "
	headerRows    = 2 // title + day names
	footerRows    = 1 // status / help
	cellWidthPx   = 8 // logical pixels per terminal column
	minColWidth   = 6
	mousePointer  = 0
	wheelStepRows = 2
)

// gridMetrics maps terminal cells to the logical pixel space the gesture
// controllers and the day layouts work in.
type gridMetrics struct {
	colWidth    int     // terminal columns per day
	cellH       float64 // logical pixels per terminal row
	totalRows   int
	visibleRows int
	scroll      int
}

func (m Model) metrics() gridMetrics {
	rowsPerHour := max(m.config.Grid.RowsPerHour, 1)
	total := (m.geo.DayEndHour - m.geo.DayStartHour) * rowsPerHour

	colWidth := minColWidth
	if m.width > 0 {
		colWidth = max((m.width-gutterWidth)/7, minColWidth)
	}

	visible := total
	if m.height > 0 {
		visible = min(max(m.height-headerRows-footerRows, 1), total)
	}

	return gridMetrics{
		colWidth:    colWidth,
		cellH:       m.geo.HourHeight / float64(rowsPerHour),
		totalRows:   total,
		visibleRows: visible,
		scroll:      m.scroll,
	}
}

// columnBounds is the pixel rectangle of day column i, in grid content
// coordinates (y = 0 at the window start regardless of scrolling).
func (mt gridMetrics) columnBounds(i int, geo timegrid.Geometry) gesture.Rect {
	w := float64(mt.colWidth * cellWidthPx)
	return gesture.Rect{X: float64(i) * w, Y: 0, W: w, H: geo.Height()}
}

// pointAt converts a terminal cell to grid content pixels. X is the cell
// center; Y is the top of the row so a row maps to exactly its start time.
func (mt gridMetrics) pointAt(cellX, cellY int) gesture.Point {
	return gesture.Point{
		X: float64((cellX-gutterWidth)*cellWidthPx) + cellWidthPx/2,
		Y: float64(cellY-headerRows+mt.scroll) * mt.cellH,
	}
}

// cellAt is the inverse of pointAt for rectangle origins.
func (mt gridMetrics) cellAt(p gesture.Point) (x, y int) {
	x = gutterWidth + int(math.Floor(p.X/cellWidthPx))
	y = headerRows + int(math.Floor(p.Y/mt.cellH+1e-9)) - mt.scroll
	return x, y
}

// rowSpan returns the pixel range covered by content row r.
func (mt gridMetrics) rowSpan(r int) (top, bottom float64) {
	return float64(r) * mt.cellH, float64(r+1) * mt.cellH
}

// FromMouse translates a bubbletea mouse message into a gesture event.
// Wheel and unrelated buttons report false.
func FromMouse(msg tea.MouseMsg, mt gridMetrics) (gesture.Event, bool) {
	ev := gesture.Event{
		PointerID: mousePointer,
		Device:    gesture.DeviceMouse,
		Point:     mt.pointAt(msg.X, msg.Y),
		Target:    gesture.TargetBackground,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			ev.Kind = gesture.EventDown
		case tea.MouseButtonRight:
			ev.Kind = gesture.EventCancel
			ev.PointerID = gesture.AnyPointer
		default:
			return gesture.Event{}, false
		}
	case tea.MouseActionMotion:
		ev.Kind = gesture.EventMove
	case tea.MouseActionRelease:
		ev.Kind = gesture.EventUp
	default:
		return gesture.Event{}, false
	}
	return ev, true
}

// targetAt reports whether a grid point lies on an existing gig block.
func (m Model) targetAt(p gesture.Point) gesture.Target {
	mt := m.metrics()
	for i := range m.days {
		col := mt.columnBounds(i, m.geo)
		if !col.Contains(p) {
			continue
		}
		frac := (p.X - col.X) / col.W
		for _, b := range m.days[i].Blocks {
			if !b.Visible {
				continue
			}
			if p.Y >= b.Top && p.Y < b.Top+b.Height && frac >= b.Left && frac < b.Left+b.Width {
				return gesture.TargetEvent
			}
		}
	}
	return gesture.TargetBackground
}

// previewFor returns the highlighted range of a day: the drag in progress
// on its column, or the slot waiting in the editor.
func (m Model) previewFor(date time.Time) *layout.Interval {
	if m.pending != nil && dateutil.SameDay(m.pending.Date, date) {
		iv := requestInterval(*m.pending, m.config.Grid.ClickSnap)
		return &iv
	}
	c, ok := m.arena.Get(gesture.KeyFor(date))
	if !ok {
		return nil
	}
	start, end, ok := c.Preview()
	if !ok {
		return nil
	}
	return &layout.Interval{Start: start.Minutes(), End: end.Minutes()}
}

// requestInterval is the slot a request covers. Instant requests cover
// one click-snap step.
func requestInterval(req gesture.CreationRequest, clickSnap int) layout.Interval {
	if req.Kind == gesture.RequestRange {
		return layout.Interval{Start: req.Start.Minutes(), End: req.End.Minutes()}
	}
	return layout.Interval{Start: req.Time.Minutes(), End: req.Time.Minutes() + clickSnap}
}

// scrollToNow scrolls so the current time sits in the upper third.
func (m *Model) scrollToNow() {
	mt := m.metrics()
	row := int((timegrid.MinutesToPosition(m.now.Hour()*60+m.now.Minute(), m.geo.DayStartHour, m.geo.HourHeight)) / mt.cellH)
	m.scroll = row - mt.visibleRows/3
	m.clampScroll()
}

func (m *Model) clampScroll() {
	mt := m.metrics()
	m.scroll = min(m.scroll, mt.totalRows-mt.visibleRows)
	m.scroll = max(m.scroll, 0)
}

package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/dayview"
	"github.com/javiermolinar/bandcal/internal/gesture"
)

const (
	popoverWidth = 36
	helpText     = "click new gig · drag range · h/l week · t today · j/k scroll · q quit"
)

// View renders the week grid and, while editing, the popover beside the
// pending slot.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	base := m.renderBase()
	if m.mode == ModeEdit && m.pending != nil {
		return m.overlay.RenderAt(base, m.width, m.height, m.renderPopover(), m.anchorCells(*m.pending))
	}
	return base
}

func (m Model) renderBase() string {
	mt := m.metrics()
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle())
	lines = append(lines, m.renderDayHeader(mt))
	for i := 0; i < mt.visibleRows; i++ {
		lines = append(lines, m.renderGridRow(mt, mt.scroll+i))
	}
	for len(lines) < m.height-footerRows {
		lines = append(lines, fitStyled("", m.width, m.styles.Cell))
	}
	lines = append(lines, m.renderFooter())
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTitle() string {
	monday, sunday := dateutil.WeekRange(m.weekStart)
	text := fmt.Sprintf(" bandcal  %s - %s", monday.Format("Mon 2 Jan"), sunday.Format("Mon 2 Jan 2006"))
	if m.loading {
		text += "  loading..."
	}
	return fitStyled(text, m.width, m.styles.Title)
}

func (m Model) renderDayHeader(mt gridMetrics) string {
	var b strings.Builder
	b.WriteString(m.styles.Gutter.Render(strings.Repeat(" ", gutterWidth)))
	for _, d := range m.weekDays() {
		style := m.styles.DayHeader
		if dateutil.SameDay(d, m.now) {
			style = m.styles.DayToday
		}
		b.WriteString(fitStyled(" "+d.Format("Mon 02"), mt.colWidth, style))
	}
	return fitStyled(b.String(), m.width, m.styles.Cell)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := m.styles.Status
		if m.err != nil {
			style = m.styles.StatusError
		}
		return fitStyled(" "+m.statusMsg, m.width, style)
	}
	return fitStyled(" "+helpText, m.width, m.styles.Help)
}

// renderGridRow draws the gutter and the seven day cells of content row r.
func (m Model) renderGridRow(mt gridMetrics, r int) string {
	top, bottom := mt.rowSpan(r)

	var b strings.Builder
	b.WriteString(m.renderGutter(top, bottom))
	for i := range m.days {
		b.WriteString(m.renderCell(mt, &m.days[i], r, top, bottom))
	}
	return fitStyled(b.String(), m.width, m.styles.Cell)
}

func (m Model) renderGutter(top, bottom float64) string {
	for i := range m.days {
		if now := m.days[i].Now; now != nil && now.Y >= top && now.Y < bottom {
			return m.styles.GutterNow.Render(fmt.Sprintf("%-*s", gutterWidth, now.Time.String()))
		}
	}
	for _, line := range m.days[0].Gridlines {
		if line.Y < top || line.Y >= bottom {
			continue
		}
		if line.Hour {
			return m.styles.GutterHour.Render(fmt.Sprintf("%-*s", gutterWidth, line.Time.String()))
		}
		return m.styles.Gutter.Render(fmt.Sprintf("%-*s", gutterWidth, "   "+line.Time.String()[2:]))
	}
	return m.styles.Gutter.Render(strings.Repeat(" ", gutterWidth))
}

// Cell style slots used while painting one row of a column.
const (
	paintBg = iota
	paintPreview
	paintNow
	paintBlock // block styles start here, one per block
)

// renderCell paints one terminal row of a day column: background, drag
// preview, gig blocks, then the now line over empty cells.
func (m Model) renderCell(mt gridMetrics, day *dayview.DayLayout, r int, top, bottom float64) string {
	w := mt.colWidth
	runes := []rune(strings.Repeat(" ", w))
	paint := make([]int, w)

	bg := m.styles.Cell
	if dateutil.SameDay(day.Date, m.now) {
		bg = m.styles.CellToday
	}
	styles := []lipgloss.Style{bg, m.styles.Preview, m.styles.NowLine}

	if p := day.Preview; p != nil && covers(p.Top, p.Height, top, bottom) {
		for x := range paint {
			paint[x] = paintPreview
		}
		if firstRow(p.Top, mt.cellH) == r {
			writeText(runes, 0, w, fmt.Sprintf("+ %s-%s", minutesLabel(p.Interval.Start), minutesLabel(p.Interval.End)))
		}
	}

	for _, blk := range day.Blocks {
		if !blk.Visible || !covers(blk.Top, blk.Height, top, bottom) {
			continue
		}
		x0 := int(math.Round(blk.Left * float64(w)))
		x1 := int(math.Round((blk.Left + blk.Width) * float64(w)))
		if x1 <= x0 {
			continue
		}
		styles = append(styles, m.styles.blockStyle(blk.Column, blk.Gig.IsPast(m.now)))
		idx := len(styles) - 1
		for x := x0; x < x1 && x < w; x++ {
			paint[x] = idx
			runes[x] = ' '
		}
		switch r - firstRow(blk.Top, mt.cellH) {
		case 0:
			title := blk.Gig.Title
			if blk.ClippedTop {
				title = "↑" + title
			}
			writeText(runes, x0, x1, title)
		case 1:
			writeText(runes, x0, x1, blk.Gig.TimeRange())
		case 2:
			writeText(runes, x0, x1, blk.Gig.Venue)
		}
	}

	if now := day.Now; now != nil && now.Y >= top && now.Y < bottom {
		for x := range paint {
			if paint[x] == paintBg {
				paint[x] = paintNow
				runes[x] = '─'
			}
		}
	}

	var b strings.Builder
	for start := 0; start < w; {
		end := start + 1
		for end < w && paint[end] == paint[start] {
			end++
		}
		b.WriteString(styles[paint[start]].Render(string(runes[start:end])))
		start = end
	}
	return b.String()
}

// covers reports whether the span [y, y+h) intersects the row [top, bottom).
func covers(y, h, top, bottom float64) bool {
	return y < bottom && y+h > top
}

func firstRow(y, cellH float64) int {
	return int(math.Floor(y/cellH + 1e-9))
}

func writeText(runes []rune, x0, x1 int, text string) {
	x := x0
	for _, ch := range text {
		if x >= x1 || x >= len(runes) {
			return
		}
		runes[x] = ch
		x++
	}
}

func minutesLabel(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// fitStyled pads or truncates text to exactly width cells and styles it.
func fitStyled(text string, width int, style lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	text = ansi.Truncate(text, width, "")
	pad := max(width-lipgloss.Width(text), 0)
	if !strings.Contains(text, "\x1b") {
		return style.Render(text + strings.Repeat(" ", pad))
	}
	if pad > 0 {
		text += style.Render(strings.Repeat(" ", pad))
	}
	return text
}

func (m Model) renderPopover() string {
	req := *m.pending
	heading := m.styles.PopoverTitle.Render("New gig")
	slot := m.styles.PopoverText.Render(" " + req.Date.Format("Mon 2 Jan") + " " + slotLabel(req))
	help := m.styles.PopoverMuted.Render("enter save · esc cancel · y copy")

	body := lipgloss.JoinVertical(lipgloss.Left,
		heading+slot,
		m.editor.View(),
		help,
	)
	return m.styles.Popover.Width(popoverWidth).Render(body)
}

func slotLabel(req gesture.CreationRequest) string {
	if req.Kind == gesture.RequestRange {
		return req.Start.String() + "-" + req.End.String()
	}
	return req.Time.String()
}

// anchorCells converts a request's pixel anchor to terminal cells.
func (m Model) anchorCells(req gesture.CreationRequest) cellRect {
	mt := m.metrics()
	x, y := mt.cellAt(gesture.Point{X: req.Anchor.X, Y: req.Anchor.Y})
	return cellRect{
		X: x,
		Y: y,
		W: max(int(req.Anchor.W/cellWidthPx), 1),
		H: max(int(math.Ceil(req.Anchor.H/mt.cellH-1e-9)), 1),
	}
}

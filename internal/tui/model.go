// Package tui provides the terminal week grid for bandcal.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/config"
	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/dayview"
	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/timegrid"
	"github.com/javiermolinar/bandcal/internal/tui/commands"
	"github.com/javiermolinar/bandcal/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit        // popover editor open for a pending slot
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeEdit:
		return "Edit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   gig.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Geometry and gestures
	geo      timegrid.Geometry
	interval gig.IntervalOptions
	arena    *gesture.Arena

	// State
	weekStart time.Time
	gigs      []*gig.Gig
	days      [7]dayview.DayLayout
	mode      Mode
	loading   bool
	nowFunc   func() time.Time
	now       time.Time

	// Popover editor
	pending *gesture.CreationRequest
	editor  textinput.Model
	overlay OverlayModel

	// Terminal dimensions
	width    int
	height   int
	scroll   int
	scrolled bool // scroll position set at least once

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// New creates a new TUI model.
func New(repo gig.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.Default)
	}
	styles := NewStyles(t)

	editor := textinput.New()
	editor.Placeholder = "Gig title"
	editor.CharLimit = 120
	editor.Width = popoverWidth - 4
	editor.PlaceholderStyle = styles.PopoverMuted
	editor.TextStyle = styles.PopoverText
	editor.PromptStyle = styles.PopoverText
	editor.Cursor.Style = styles.PopoverCursor

	// The editor is opened from the routed Result; the callbacks only trace.
	arena := gesture.NewArena(cfg.GestureOptions(), gesture.Callbacks{
		OnSlotClick: func(date time.Time, at timegrid.TimeOfDay) {
			LogCreateRequest(gesture.CreationRequest{Kind: gesture.RequestInstant, Date: date, Time: at})
		},
		OnSlotDrag: func(date time.Time, start, end timegrid.TimeOfDay, anchor gesture.Rect) {
			LogCreateRequest(gesture.CreationRequest{Kind: gesture.RequestRange, Date: date, Start: start, End: end, Anchor: anchor})
		},
	})

	m := &Model{
		repo:     repo,
		config:   cfg,
		theme:    t,
		styles:   styles,
		geo:      cfg.Geometry(),
		interval: cfg.IntervalOptions(),
		arena:    arena,
		mode:     ModeNormal,
		nowFunc:  time.Now,
		editor:   editor,
		overlay:  NewOverlayModel(t.Modal().BaseBg),
		loading:  true,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.now = m.nowFunc()
	m.weekStart, _ = dateutil.WeekRange(m.now)
	m.mountWeek()
	m.recompose(false)
	return m
}

// Init loads the visible week and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadWeek(m.repo, m.weekStart),
		commands.Tick(m.config.NowRefreshInterval()),
	)
}

// Run starts the TUI.
func Run(repo gig.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo gig.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// weekDays returns the dates shown in the grid.
func (m Model) weekDays() []time.Time {
	return dateutil.WeekDays(m.weekStart)
}

// mountWeek mounts one controller per visible day and drops the rest.
func (m *Model) mountWeek() {
	mt := m.metrics()
	days := m.weekDays()
	keys := make([]gesture.ColumnKey, 0, len(days))
	for i, d := range days {
		m.arena.Mount(gesture.Column{Date: d, Bounds: mt.columnBounds(i, m.geo)})
		keys = append(keys, gesture.KeyFor(d))
	}
	m.arena.UnmountAllExcept(keys)
}

// recompose rebuilds the day layouts from the loaded gigs, the clock and
// any drag preview or pending slot.
func (m *Model) recompose(logFallbacks bool) {
	byDay := gig.GroupByDay(m.gigs)
	for i, d := range m.weekDays() {
		opts := dayview.Options{
			Interval: m.interval,
			Now:      m.now,
			Preview:  m.previewFor(d),
		}
		if logFallbacks {
			opts.OnFallback = LogLayoutFallback
		}
		m.days[i] = dayview.Compose(d, byDay[d.Format(dateutil.DateLayout)], m.geo, opts)
	}
}

package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/tui/commands"
)

const (
	errorStatusDuration = 5 * time.Second
	infoStatusDuration  = 3 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		LogKeyPress(msg)
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.scrolled {
			m.scrollToNow()
			m.scrolled = true
		}
		m.clampScroll()
		m.mountWeek()
		return m, nil

	case commands.WeekLoadedMsg:
		if !dateutil.SameDay(msg.WeekStart, m.weekStart) {
			// A stale load for a week we navigated away from.
			return m, nil
		}
		m.gigs = msg.Gigs
		m.loading = false
		m.recompose(true)
		return m, nil

	case commands.GigSavedMsg:
		m = m.setStatus(fmt.Sprintf("Saved %q %s", msg.Gig.Title, msg.Gig.TimeRange()))
		return m, tea.Batch(commands.LoadWeek(m.repo, m.weekStart), commands.ClearStatusAfter(infoStatusDuration))

	case commands.CopiedMsg:
		m = m.setStatus("Copied " + msg.Text)
		return m, commands.ClearStatusAfter(infoStatusDuration)

	case commands.TickMsg:
		m.now = msg.Now
		m.recompose(false)
		return m, commands.Tick(m.config.NowRefreshInterval())

	case commands.ErrMsg:
		LogError("command", msg.Err)
		m.err = msg.Err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.nowFunc().Add(errorStatusDuration)
		return m, commands.ClearStatusAfter(errorStatusDuration)

	case commands.ClearStatusMsg:
		if !m.nowFunc().Before(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) setStatus(text string) Model {
	m.statusMsg = text
	m.err = nil
	m.statusTime = m.nowFunc().Add(infoStatusDuration)
	return m
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeEdit {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll -= wheelStepRows
		m.clampScroll()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll += wheelStepRows
		m.clampScroll()
		return m, nil
	}

	ev, ok := FromMouse(msg, m.metrics())
	if !ok {
		return m, nil
	}
	if ev.Kind == gesture.EventDown {
		ev.Target = m.targetAt(ev.Point)
	}

	res := m.arena.Route(ev)
	LogGesture(ev, res)
	m.recompose(false)

	if res.Request != nil {
		return m.openEditor(*res.Request), nil
	}
	return m, nil
}

// openEditor shows the popover for a completed gesture.
func (m Model) openEditor(req gesture.CreationRequest) Model {
	LogModeChange(m.mode, ModeEdit, "creation request "+req.String())
	m.mode = ModeEdit
	m.pending = &req
	m.editor.Reset()
	m.editor.Focus()
	m.recompose(false)
	return m
}

// closeEditor discards the pending slot.
func (m Model) closeEditor(reason string) Model {
	LogModeChange(m.mode, ModeNormal, reason)
	m.mode = ModeNormal
	m.pending = nil
	m.editor.Blur()
	m.editor.Reset()
	m.recompose(false)
	return m
}

// showWeek moves the grid to the week containing day.
func (m Model) showWeek(day time.Time) (Model, tea.Cmd) {
	monday, _ := dateutil.WeekRange(day)
	if dateutil.SameDay(monday, m.weekStart) {
		return m, nil
	}
	m.arena.CancelAll()
	m.weekStart = monday
	m.gigs = nil
	m.loading = true
	m.mountWeek()
	m.recompose(false)
	return m, commands.LoadWeek(m.repo, m.weekStart)
}

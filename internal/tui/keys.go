package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/timegrid"
	"github.com/javiermolinar/bandcal/internal/tui/commands"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.mode == ModeEdit {
		return m.handleEditKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "h", "left":
		return m.showWeek(m.weekStart.AddDate(0, 0, -7))
	case "l", "right":
		return m.showWeek(m.weekStart.AddDate(0, 0, 7))
	case "t":
		m.now = m.nowFunc()
		next, cmd := m.showWeek(m.now)
		next.scrollToNow()
		return next, cmd
	case "j", "down":
		m.scroll++
		m.clampScroll()
	case "k", "up":
		m.scroll--
		m.clampScroll()
	case "esc":
		if res := m.arena.CancelAll(); res.Cancelled {
			m.recompose(false)
		}
	}
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeEditor("discarded"), nil
	case tea.KeyEnter:
		return m.savePending()
	}

	// y copies the slot while the title is still empty; once typing has
	// started it is just a letter.
	if msg.String() == "y" && m.editor.Value() == "" && m.pending != nil {
		return m, commands.Copy(m.pending.String())
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// savePending validates the editor and stores the new gig.
func (m Model) savePending() (tea.Model, tea.Cmd) {
	if m.pending == nil {
		return m.closeEditor("nothing pending"), nil
	}

	start, end := pendingTimes(*m.pending)
	g, err := gig.New(m.editor.Value(), "", m.pending.Date.Format("2006-01-02"), start, end)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		m.err = err
		m.statusTime = m.nowFunc().Add(errorStatusDuration)
		return m, commands.ClearStatusAfter(errorStatusDuration)
	}

	m = m.closeEditor("saved")
	return m, commands.SaveGig(m.repo, g)
}

// pendingTimes returns the HH:MM start and end of a request. Instant
// requests leave the end empty so the default duration applies; a range
// reaching midnight ends at "00:00".
func pendingTimes(req gesture.CreationRequest) (start, end string) {
	if req.Kind != gesture.RequestRange {
		return req.Time.String(), ""
	}
	if req.End.Minutes() >= timegrid.MinutesPerDay {
		return req.Start.String(), "00:00"
	}
	return req.Start.String(), req.End.String()
}

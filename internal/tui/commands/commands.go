// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/gig"
)

// WeekLoadedMsg is sent when the gigs of a week are loaded.
type WeekLoadedMsg struct {
	WeekStart time.Time
	Gigs      []*gig.Gig
}

// GigSavedMsg is sent after a gig is stored.
type GigSavedMsg struct {
	Gig *gig.Gig
}

// CopiedMsg is sent after text is placed on the clipboard.
type CopiedMsg struct {
	Text string
}

// TickMsg refreshes the current-time marker.
type TickMsg struct {
	Now time.Time
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// LoadWeek loads the gigs of the week starting at weekStart.
func LoadWeek(repo gig.Repository, weekStart time.Time) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return WeekLoadedMsg{WeekStart: weekStart}
		}
		gigs, err := repo.ListGigsByDateRange(context.Background(), weekStart, weekStart.AddDate(0, 0, 6))
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading week: %w", err)}
		}
		return WeekLoadedMsg{WeekStart: weekStart, Gigs: gigs}
	}
}

// SaveGig stores a new gig.
func SaveGig(repo gig.Repository, g *gig.Gig) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return ErrMsg{Err: fmt.Errorf("no database open")}
		}
		if err := repo.CreateGig(context.Background(), g); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving gig: %w", err)}
		}
		return GigSavedMsg{Gig: g}
	}
}

// Copy places text on the system clipboard.
func Copy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Text: text}
	}
}

// Tick schedules the next current-time refresh.
func Tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return TickMsg{Now: t}
	})
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

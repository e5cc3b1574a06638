package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/bandcal/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	Title        lipgloss.Style
	DayHeader    lipgloss.Style
	DayToday     lipgloss.Style
	Gutter       lipgloss.Style
	GutterHour   lipgloss.Style
	GutterNow    lipgloss.Style
	Cell         lipgloss.Style
	CellToday    lipgloss.Style
	Block        lipgloss.Style
	BlockAlt     lipgloss.Style
	BlockPast    lipgloss.Style
	BlockPastAlt lipgloss.Style
	Preview      lipgloss.Style
	NowLine      lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style

	Popover       lipgloss.Style
	PopoverTitle  lipgloss.Style
	PopoverText   lipgloss.Style
	PopoverMuted  lipgloss.Style
	PopoverCursor lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		Title:        base.Foreground(p.Accent).Bold(true),
		DayHeader:    base.Foreground(p.FgMuted).Bold(true),
		DayToday:     base.Background(p.Accent).Foreground(p.TextOnAccent).Bold(true),
		Gutter:       base.Foreground(p.FgMuted),
		GutterHour:   base.Foreground(p.Fg),
		GutterNow:    lipgloss.NewStyle().Background(p.Now).Foreground(p.TextOnNow).Bold(true),
		Cell:         base,
		CellToday:    base.Background(p.BgHighlight),
		Block:        lipgloss.NewStyle().Background(p.GigBg).Foreground(p.TextOnGig),
		BlockAlt:     lipgloss.NewStyle().Background(p.GigBgAlt).Foreground(p.TextOnGig),
		BlockPast:    lipgloss.NewStyle().Background(p.GigPastBg).Foreground(p.FgMuted),
		BlockPastAlt: lipgloss.NewStyle().Background(p.GigPastBgAlt).Foreground(p.FgMuted),
		Preview:      lipgloss.NewStyle().Background(p.PreviewBg).Foreground(p.TextOnPreview).Bold(true),
		NowLine:      base.Foreground(p.Now).Bold(true),
		Status:       base.Foreground(p.Fg),
		StatusError:  lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning).Bold(true),
		Help:         base.Foreground(p.FgMuted),

		Popover: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(p.Modal.Bg).
			Background(p.Modal.Bg).
			Padding(0, 1),
		PopoverTitle:  lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Highlight).Bold(true),
		PopoverText:   lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text),
		PopoverMuted:  lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Muted),
		PopoverCursor: lipgloss.NewStyle().Foreground(p.Modal.Highlight),
	}
}

// blockStyle picks the block colour by overlap column parity and age.
func (s *Styles) blockStyle(column int, past bool) lipgloss.Style {
	alt := column%2 == 1
	switch {
	case past && alt:
		return s.BlockPastAlt
	case past:
		return s.BlockPast
	case alt:
		return s.BlockAlt
	default:
		return s.Block
	}
}

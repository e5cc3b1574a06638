// Package theme loads the embedded colour themes and derives the palette
// the week grid renders with.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default is the theme used when none is configured or the name is unknown.
const Default = "mocha"

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme is the set of hex colours a theme file declares.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // gutter, today column
	BgSelection string `toml:"bg_selection"`
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // past gigs, gridlines
	Accent      string `toml:"accent"`
	Gig         string `toml:"gig"`
	Preview     string `toml:"preview"` // drag preview and pending slot
	Now         string `toml:"now"`
	Warning     string `toml:"warning"`

	// Popover overrides; empty values fall back to the base colours.
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// Load reads a theme by name. Unknown names load Default.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = Default
	}

	data, err := embeddedThemes.ReadFile(path.Join("embedded", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	m := t.Modal()
	t.BaseBg, t.ModalBorder, t.TextPrimary, t.TextMuted, t.Highlight =
		m.BaseBg, m.ModalBorder, m.TextPrimary, m.TextMuted, m.Highlight
	return &t, nil
}

// ModalPalette is the resolved popover colour set.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal resolves the popover colours against the base theme.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available lists the embedded theme names, Default first.
func Available() []string {
	entries, err := fs.ReadDir(embeddedThemes, "embedded")
	if err != nil {
		return []string{Default}
	}
	names := []string{Default}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".toml")
		if name != Default {
			names = append(names, name)
		}
	}
	slices.Sort(names[1:])
	return names
}

// IsAvailable reports whether name is an embedded theme, ignoring case.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}

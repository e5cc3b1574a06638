package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colours the grid renders with, derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Now         lipgloss.Color
	Warning     lipgloss.Color

	GigBg        lipgloss.Color
	GigBgAlt     lipgloss.Color // odd overlap columns
	GigPastBg    lipgloss.Color
	GigPastBgAlt lipgloss.Color
	PreviewBg    lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnNow     lipgloss.Color
	TextOnGig     lipgloss.Color
	TextOnPreview lipgloss.Color

	Modal ModalColors
}

// ModalColors are the popover colours.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
}

// shade turns an accent into a block background. Dark themes scale the
// accent towards black, never below floor; light themes wash it into the
// background.
type shade struct {
	scale float64
	floor float64
	wash  float64
}

var (
	activeShade = shade{scale: 0.50, floor: 40.0 / 255, wash: 0.75}
	pastShade   = shade{scale: 0.30, floor: 30.0 / 255, wash: 0.88}
)

// lightThreshold is the background luminance above which a theme is light.
const lightThreshold = 0.55

// NewPalette derives a Palette from t. A nil theme uses Default.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(Default)
	}

	light := luminance(t.Bg) > lightThreshold
	gigBg := activeShade.apply(t.Gig, t.Bg, light)
	gigPast := pastShade.apply(t.Gig, t.Bg, light)
	previewBg := activeShade.apply(t.Preview, t.Bg, light)
	modal := t.Modal()

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Now:         lipgloss.Color(t.Now),
		Warning:     lipgloss.Color(t.Warning),

		GigBg:        lipgloss.Color(gigBg),
		GigBgAlt:     lipgloss.Color(alternate(gigBg, light)),
		GigPastBg:    lipgloss.Color(gigPast),
		GigPastBgAlt: lipgloss.Color(alternate(gigPast, light)),
		PreviewBg:    lipgloss.Color(previewBg),

		TextOnAccent:  lipgloss.Color(readableOn(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(readableOn(t.Warning, t.Bg, t.Fg)),
		TextOnNow:     lipgloss.Color(readableOn(t.Now, t.Bg, t.Fg)),
		TextOnGig:     lipgloss.Color(readableOn(gigBg, t.Bg, t.Fg)),
		TextOnPreview: lipgloss.Color(readableOn(previewBg, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:        lipgloss.Color(modal.BaseBg),
			Border:    lipgloss.Color(modal.ModalBorder),
			Text:      lipgloss.Color(modal.TextPrimary),
			Muted:     lipgloss.Color(modal.TextMuted),
			Highlight: lipgloss.Color(modal.Highlight),
		},
	}
}

// apply returns the shaded hex colour. Unparseable input is returned as is.
func (s shade) apply(accent, bg string, light bool) string {
	a, err := colorful.Hex(accent)
	if err != nil {
		return accent
	}
	if light {
		b, err := colorful.Hex(bg)
		if err != nil {
			return accent
		}
		return a.BlendRgb(b, s.wash).Hex()
	}
	return colorful.Color{
		R: max(a.R*s.scale, s.floor),
		G: max(a.G*s.scale, s.floor),
		B: max(a.B*s.scale, s.floor),
	}.Hex()
}

// alternate separates side-by-side blocks: darker on light themes,
// lighter on dark ones.
func alternate(hex string, light bool) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	if light {
		return c.BlendRgb(colorful.Color{}, 0.10).Hex()
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.30).Hex()
}

// readableOn picks the candidate with the best contrast against bg.
// Ties keep the earlier candidate.
func readableOn(bg string, candidates ...string) string {
	best, bestRatio := "", -1.0
	for _, c := range candidates {
		if r := contrast(bg, c); r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best
}

func contrast(a, b string) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// luminance is the WCAG relative luminance; unparseable colours count as black.
func luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

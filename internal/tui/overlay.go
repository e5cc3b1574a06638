package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// cellRect is a rectangle in terminal cells.
type cellRect struct {
	X, Y, W, H int
}

// OverlayModel composites a box over rendered content, next to an anchor.
type OverlayModel struct {
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel(bg string) OverlayModel {
	return OverlayModel{bgColor: lipgloss.Color(bg)}
}

// SetBackground updates the overlay background color.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// RenderAt draws content over base, beside the anchor rectangle.
func (o OverlayModel) RenderAt(base string, width, height int, content string, anchor cellRect) string {
	if width <= 0 || height <= 0 {
		return base
	}

	contentLines := o.contentLines(content)
	boxW, boxH := o.contentSize(contentLines)
	boxW = min(boxW, width)
	boxH = min(boxH, height)
	if boxW <= 0 || boxH <= 0 {
		return base
	}

	top, left := placeNear(anchor, boxW, boxH, width, height)
	baseLines := o.normalizeBase(base, width, height)
	bgSeq := ""
	if o.bgColor != "" {
		bgSeq = ansi.Style{}.BackgroundColor(ansi.HexColor(string(o.bgColor))).String()
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+boxH {
			lines = append(lines, baseLines[row])
			continue
		}

		line := contentLines[row-top]
		lineWidth := lipgloss.Width(line)
		if lineWidth > boxW {
			line = ansi.Cut(line, 0, boxW)
			lineWidth = boxW
		}
		if lineWidth < boxW {
			line = o.applyOverlayBackgroundResets(line, bgSeq) + bgSeq + strings.Repeat(" ", boxW-lineWidth) + ansi.ResetStyle
		}

		baseLine := baseLines[row]
		leftSlice := ansi.Cut(baseLine, 0, left)
		rightSlice := ansi.Cut(baseLine, left+boxW, width)
		lines = append(lines, leftSlice+line+rightSlice)
	}

	return strings.Join(lines, "\n")
}

// placeNear puts a box to the right of the anchor, or to its left when it
// does not fit, top-aligned with the anchor and kept on screen.
func placeNear(anchor cellRect, boxW, boxH, width, height int) (top, left int) {
	left = anchor.X + anchor.W + 1
	if left+boxW > width {
		left = anchor.X - boxW - 1
	}
	if left < 0 {
		left = min(max(anchor.X, 0), max(width-boxW, 0))
	}

	top = anchor.Y
	if top+boxH > height {
		top = height - boxH
	}
	top = max(top, 0)
	return top, left
}

func (o OverlayModel) contentLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (o OverlayModel) contentSize(lines []string) (int, int) {
	if len(lines) == 0 {
		return 0, 0
	}
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth, len(lines)
}

func (o OverlayModel) applyOverlayBackgroundResets(line, bgSeq string) string {
	if bgSeq == "" || line == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

func (o OverlayModel) normalizeBase(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = ansi.Cut(line, 0, width)
			continue
		}
		if lineWidth < width {
			lines[i] = line + strings.Repeat(" ", width-lineWidth)
		}
	}

	return lines
}

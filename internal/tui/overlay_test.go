package tui

import (
	"strings"
	"testing"
)

func TestPlaceNear(t *testing.T) {
	tests := []struct {
		name          string
		anchor        cellRect
		boxW, boxH    int
		width, height int
		wantTop       int
		wantLeft      int
	}{
		{name: "right of anchor", anchor: cellRect{X: 10, Y: 5, W: 16, H: 2}, boxW: 20, boxH: 5, width: 120, height: 40, wantTop: 5, wantLeft: 27},
		{name: "left when right overflows", anchor: cellRect{X: 100, Y: 5, W: 16, H: 2}, boxW: 20, boxH: 5, width: 120, height: 40, wantTop: 5, wantLeft: 79},
		{name: "neither side fits", anchor: cellRect{X: 5, Y: 5, W: 100, H: 2}, boxW: 30, boxH: 5, width: 110, height: 40, wantTop: 5, wantLeft: 5},
		{name: "kept above the bottom edge", anchor: cellRect{X: 10, Y: 38, W: 16, H: 1}, boxW: 20, boxH: 5, width: 120, height: 40, wantTop: 35, wantLeft: 27},
		{name: "box taller than screen", anchor: cellRect{X: 10, Y: 3, W: 16, H: 1}, boxW: 20, boxH: 50, width: 120, height: 40, wantTop: 0, wantLeft: 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, left := placeNear(tt.anchor, tt.boxW, tt.boxH, tt.width, tt.height)
			if top != tt.wantTop || left != tt.wantLeft {
				t.Errorf("placeNear = (%d,%d), want (%d,%d)", top, left, tt.wantTop, tt.wantLeft)
			}
		})
	}
}

func TestRenderAt(t *testing.T) {
	o := NewOverlayModel("")
	base := strings.Join([]string{"..........", "..........", ".........."}, "\n")

	got := o.RenderAt(base, 10, 3, "ab", cellRect{X: 0, Y: 1, W: 2, H: 1})
	want := strings.Join([]string{"..........", "...ab.....", ".........."}, "\n")
	if got != want {
		t.Errorf("RenderAt =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderAt_EmptyContent(t *testing.T) {
	o := NewOverlayModel("#000000")
	base := "abc"
	if got := o.RenderAt(base, 3, 1, "", cellRect{}); got != base {
		t.Errorf("RenderAt = %q, want base unchanged", got)
	}
}

package timegrid

import (
	"errors"
	"fmt"
)

// Geometry errors.
var (
	ErrInvalidWindow     = errors.New("day start hour must be before day end hour")
	ErrInvalidHourHeight = errors.New("hour height must be positive")
)

// Geometry describes the visible window and scale of a day column.
type Geometry struct {
	DayStartHour int     // first visible hour, 0-23
	DayEndHour   int     // hour after the last visible one, 1-24
	HourHeight   float64 // pixels per hour
}

// DefaultGeometry returns an 08:00-24:00 window at 60 pixels per hour.
func DefaultGeometry() Geometry {
	return Geometry{DayStartHour: 8, DayEndHour: 24, HourHeight: 60}
}

// Validate checks the window bounds and scale.
func (g Geometry) Validate() error {
	if g.DayStartHour < 0 || g.DayEndHour > 24 || g.DayStartHour >= g.DayEndHour {
		return fmt.Errorf("%w: %d-%d", ErrInvalidWindow, g.DayStartHour, g.DayEndHour)
	}
	if g.HourHeight <= 0 {
		return ErrInvalidHourHeight
	}
	return nil
}

// Position returns the pixel offset of minutes since midnight.
func (g Geometry) Position(minutes int) float64 {
	return MinutesToPosition(minutes, g.DayStartHour, g.HourHeight)
}

// Time returns the snapped time at a pixel offset.
func (g Geometry) Time(pixels float64, snap int) TimeOfDay {
	return PositionToTime(pixels, snap, g.DayStartHour, g.HourHeight)
}

// Height returns the total pixel height of the visible window.
func (g Geometry) Height() float64 {
	return float64(g.DayEndHour-g.DayStartHour) * g.HourHeight
}

// WindowStart returns the first visible minute.
func (g Geometry) WindowStart() int {
	return g.DayStartHour * 60
}

// WindowEnd returns the minute after the last visible one.
func (g Geometry) WindowEnd() int {
	return g.DayEndHour * 60
}

// Clamp limits a pixel offset to the visible column.
func (g Geometry) Clamp(pixels float64) float64 {
	if pixels < 0 {
		return 0
	}
	if h := g.Height(); pixels > h {
		return h
	}
	return pixels
}

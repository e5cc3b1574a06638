// Package timegrid converts between wall-clock times and vertical
// positions inside a fixed-height day column.
package timegrid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParse is returned for time strings that are not HH:MM or HH:MM:SS.
var ErrParse = errors.New("time must be in HH:MM or HH:MM:SS format")

const (
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 24 * 60
	// ClickSnap is the snap granularity for a pointer click.
	ClickSnap = 30
	// DragSnap is the snap granularity for a pointer drag.
	DragSnap = 15
)

// tieEpsilon absorbs float error so that exact half-way positions
// keep rounding down.
const tieEpsilon = 1e-9

// TimeOfDay is a wall-clock time without date, stored as minutes since midnight.
// EndOfDay (24:00) is only meaningful as the end of a range.
type TimeOfDay int

// EndOfDay is midnight at the end of the day.
const EndOfDay TimeOfDay = MinutesPerDay

// NewTimeOfDay builds a TimeOfDay, clamping into [00:00, 23:59].
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return FromMinutes(hour*60 + minute)
}

// FromMinutes clamps minutes into the day.
func FromMinutes(m int) TimeOfDay {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return TimeOfDay(m)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// String formats the time as "HH:MM". EndOfDay renders as "24:00".
func (t TimeOfDay) String() string {
	if t >= EndOfDay {
		return "24:00"
	}
	return MinutesToTime(int(t))
}

// ParseTime parses "HH:MM" or "HH:MM:SS" into a TimeOfDay.
func ParseTime(s string) (TimeOfDay, error) {
	m, err := TimeToMinutes(s)
	if err != nil {
		return 0, err
	}
	return TimeOfDay(m), nil
}

// TimeToMinutes converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
// Seconds are validated and truncated.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrParse, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrParse, s)
		}
		values[i] = n
	}

	return values[0]*60 + values[1], nil
}

// MinutesOr parses s and returns fallback when it is malformed.
func MinutesOr(s string, fallback int) int {
	m, err := TimeToMinutes(s)
	if err != nil {
		return fallback
	}
	return m
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinutesToPosition maps minutes since midnight to a pixel offset from the
// top of a column whose first row is dayStartHour. The result is not clamped.
func MinutesToPosition(minutes, dayStartHour int, hourHeight float64) float64 {
	return float64(minutes-dayStartHour*60) / 60 * hourHeight
}

// PositionToMinutes is the unsnapped inverse of MinutesToPosition.
func PositionToMinutes(pixels float64, dayStartHour int, hourHeight float64) float64 {
	if hourHeight <= 0 {
		return float64(dayStartHour * 60)
	}
	return pixels/hourHeight*60 + float64(dayStartHour*60)
}

// Snap rounds minutes to the nearest multiple of snap. Ties round down.
func Snap(minutes, snap int) int {
	return snapFloat(float64(minutes), snap)
}

func snapFloat(minutes float64, snap int) int {
	if snap <= 0 {
		return int(math.Floor(minutes))
	}
	q := minutes / float64(snap)
	return int(math.Ceil(q-0.5-tieEpsilon)) * snap
}

// ClampSnapped keeps a snapped slot start inside the day. The last
// start that leaves room for one snap unit is MinutesPerDay-snap.
func ClampSnapped(minutes, snap int) int {
	if snap <= 0 {
		snap = 1
	}
	if minutes < 0 {
		return 0
	}
	if last := MinutesPerDay - snap; minutes > last {
		return last
	}
	return minutes
}

// PositionToTime maps a pixel offset back to a wall-clock time rounded to
// the nearest multiple of snap minutes, within [00:00, EndOfDay].
func PositionToTime(pixels float64, snap, dayStartHour int, hourHeight float64) TimeOfDay {
	m := snapFloat(PositionToMinutes(pixels, dayStartHour, hourHeight), snap)
	if m < 0 {
		return 0
	}
	if m > MinutesPerDay {
		return EndOfDay
	}
	return TimeOfDay(m)
}

// TimesOverlap reports whether [start1, end1) and [start2, end2) overlap.
func TimesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

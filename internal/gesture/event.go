// Package gesture turns pointer sequences on an empty day column into
// requests to create a gig at an instant or over a time range.
package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// Device identifies the input modality that produced an event.
type Device int

const (
	DeviceMouse Device = iota // precise pointer with hover
	DeviceTouch               // touch surface, no hover
)

func (d Device) String() string {
	if d == DeviceTouch {
		return "touch"
	}
	return "mouse"
}

// Target is what the pointer went down on.
type Target int

const (
	TargetBackground Target = iota // empty column background
	TargetEvent                    // an existing event block
)

// EventKind is the shared pointer vocabulary both adapters produce.
type EventKind int

const (
	EventDown EventKind = iota
	EventMove
	EventUp
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AnyPointer in a cancel event matches whichever pointer owns the gesture.
const AnyPointer = -1

// Point is a position in viewport coordinates (logical pixels).
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is a viewport position and size. It is used only for placing
// follow-up UI.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p lies inside the half-open rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Event is one pointer event after device adaptation.
type Event struct {
	Kind      EventKind
	PointerID int
	Device    Device
	Point     Point
	Target    Target // meaningful for EventDown only
}

// RequestKind distinguishes the two creation intents.
type RequestKind int

const (
	RequestInstant RequestKind = iota
	RequestRange
)

func (k RequestKind) String() string {
	if k == RequestRange {
		return "range"
	}
	return "instant"
}

// CreationRequest is the outcome of a completed gesture.
type CreationRequest struct {
	Kind RequestKind
	Date time.Time

	// Instant requests.
	Time timegrid.TimeOfDay

	// Range requests.
	Start  timegrid.TimeOfDay
	End    timegrid.TimeOfDay
	Anchor Rect
}

// Duration returns the length of a range request in minutes.
func (r CreationRequest) Duration() int {
	if r.Kind != RequestRange {
		return 0
	}
	return r.End.Minutes() - r.Start.Minutes()
}

// String renders the request as "2006-01-02 HH:MM" or
// "2006-01-02 HH:MM-HH:MM".
func (r CreationRequest) String() string {
	date := r.Date.Format("2006-01-02")
	if r.Kind == RequestRange {
		return fmt.Sprintf("%s %s-%s", date, r.Start, r.End)
	}
	return fmt.Sprintf("%s %s", date, r.Time)
}

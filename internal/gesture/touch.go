package gesture

// TouchPhase is the lifecycle stage reported by a touch surface.
type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// TouchPoint is one finger on the surface.
type TouchPoint struct {
	ID int
	X  float64
	Y  float64
}

// TouchEvent is a raw touch notification carrying the points that changed.
type TouchEvent struct {
	Phase   TouchPhase
	Changed []TouchPoint
	Target  Target
}

// FromTouch adapts a touch notification to the shared event vocabulary.
// Every new finger becomes its own down; a controller that already tracks
// another finger treats that as a cancel.
func FromTouch(te TouchEvent) []Event {
	kind, ok := touchKind(te.Phase)
	if !ok {
		return nil
	}

	events := make([]Event, 0, len(te.Changed))
	for _, p := range te.Changed {
		events = append(events, Event{
			Kind:      kind,
			PointerID: p.ID,
			Device:    DeviceTouch,
			Point:     Point{X: p.X, Y: p.Y},
			Target:    te.Target,
		})
	}
	return events
}

func touchKind(phase TouchPhase) (EventKind, bool) {
	switch phase {
	case TouchStart:
		return EventDown, true
	case TouchMove:
		return EventMove, true
	case TouchEnd:
		return EventUp, true
	case TouchCancel:
		return EventCancel, true
	default:
		return 0, false
	}
}

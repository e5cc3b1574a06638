package gesture

import (
	"testing"
	"time"

	"github.com/javiermolinar/bandcal/internal/timegrid"
)

var testDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

// recorder captures callback invocations.
type recorder struct {
	clicks []CreationRequest
	drags  []CreationRequest
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnSlotClick: func(date time.Time, at timegrid.TimeOfDay) {
			r.clicks = append(r.clicks, CreationRequest{Kind: RequestInstant, Date: date, Time: at})
		},
		OnSlotDrag: func(date time.Time, start, end timegrid.TimeOfDay, anchor Rect) {
			r.drags = append(r.drags, CreationRequest{Kind: RequestRange, Date: date, Start: start, End: end, Anchor: anchor})
		},
	}
}

func newTestController(t *testing.T, bounds Rect) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts := Options{
		Geometry:  timegrid.Geometry{DayStartHour: 8, DayEndHour: 24, HourHeight: 60},
		Threshold: DefaultThreshold,
		ClickSnap: timegrid.ClickSnap,
		DragSnap:  timegrid.DragSnap,
	}
	return NewController(Column{Date: testDate, Bounds: bounds}, opts, rec.callbacks()), rec
}

func defaultBounds() Rect {
	return Rect{X: 0, Y: 0, W: 100, H: 960}
}

func down(x, y float64) Event {
	return Event{Kind: EventDown, Device: DeviceMouse, Point: Point{X: x, Y: y}, Target: TargetBackground}
}

func move(x, y float64) Event {
	return Event{Kind: EventMove, Device: DeviceMouse, Point: Point{X: x, Y: y}}
}

func up(x, y float64) Event {
	return Event{Kind: EventUp, Device: DeviceMouse, Point: Point{X: x, Y: y}}
}

func TestController_ClickBelowThreshold(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())

	c.Handle(down(50, 200))
	if c.Phase() != PhaseArmed {
		t.Fatalf("phase after down = %v, want armed", c.Phase())
	}
	res := c.Handle(up(50, 203))

	if res.Request == nil || res.Request.Kind != RequestInstant {
		t.Fatalf("expected instant request, got %+v", res.Request)
	}
	// 08:00 + 203 minutes = 11:23, snapped to 30 minutes.
	if got := res.Request.Time.String(); got != "11:30" {
		t.Errorf("instant time = %s, want 11:30", got)
	}
	if len(rec.clicks) != 1 || len(rec.drags) != 0 {
		t.Errorf("callbacks: clicks=%d drags=%d, want 1/0", len(rec.clicks), len(rec.drags))
	}
	if !rec.clicks[0].Date.Equal(testDate) {
		t.Errorf("click date = %v, want %v", rec.clicks[0].Date, testDate)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after up = %v, want idle", c.Phase())
	}
}

func TestController_ImmediateReleaseIsInstant(t *testing.T) {
	for y := 0.0; y < 960; y += 7 {
		c, rec := newTestController(t, defaultBounds())
		c.Handle(down(10, y))
		res := c.Handle(up(10, y))
		if res.Request == nil || res.Request.Kind != RequestInstant {
			t.Fatalf("y=%v: expected instant request, got %+v", y, res.Request)
		}
		if len(rec.drags) != 0 {
			t.Fatalf("y=%v: unexpected range request", y)
		}
	}
}

func TestController_DragProducesRange(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())

	c.Handle(down(50, 100))
	res := c.Handle(up(50, 118))

	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	// 100px -> 09:40 -> 09:45; 118px -> 09:58 -> 10:00.
	if res.Request.Start.String() != "09:45" || res.Request.End.String() != "10:00" {
		t.Errorf("range = %s-%s, want 09:45-10:00", res.Request.Start, res.Request.End)
	}
	want := Rect{X: 0, Y: 105, W: 100, H: 15}
	if res.Request.Anchor != want {
		t.Errorf("anchor = %+v, want %+v", res.Request.Anchor, want)
	}
	if len(rec.drags) != 1 || len(rec.clicks) != 0 {
		t.Errorf("callbacks: clicks=%d drags=%d, want 0/1", len(rec.clicks), len(rec.drags))
	}
}

func TestController_UpwardDragIsNormalized(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())

	c.Handle(down(50, 240))
	c.Handle(move(50, 200))
	res := c.Handle(up(50, 120))

	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if res.Request.Start.String() != "10:00" || res.Request.End.String() != "12:00" {
		t.Errorf("range = %s-%s, want 10:00-12:00", res.Request.Start, res.Request.End)
	}
}

func TestController_MinimumDuration(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())

	// Horizontal drag: crosses the threshold but both edges snap together.
	c.Handle(down(10, 100))
	c.Handle(move(40, 101))
	if c.Phase() != PhaseDragging {
		t.Fatalf("phase = %v, want dragging", c.Phase())
	}
	res := c.Handle(up(40, 102))

	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if res.Request.Duration() != 15 {
		t.Errorf("duration = %d, want 15", res.Request.Duration())
	}
	if res.Request.Start.String() != "09:45" || res.Request.End.String() != "10:00" {
		t.Errorf("range = %s-%s, want 09:45-10:00", res.Request.Start, res.Request.End)
	}
}

func TestController_MinimumDurationAtEndOfDay(t *testing.T) {
	rec := &recorder{}
	opts := Options{Geometry: timegrid.Geometry{DayStartHour: 0, DayEndHour: 24, HourHeight: 60}}
	c := NewController(Column{Date: testDate, Bounds: Rect{W: 100, H: 1440}}, opts, rec.callbacks())

	c.Handle(down(10, 1430))
	res := c.Handle(up(40, 1432))

	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if res.Request.Start.String() != "23:45" || res.Request.End != timegrid.EndOfDay {
		t.Errorf("range = %s-%s, want 23:45-24:00", res.Request.Start, res.Request.End)
	}
}

func TestController_DragToGridBottomEndsAtMidnight(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())
	geo := timegrid.Geometry{DayStartHour: 8, DayEndHour: 24, HourHeight: 60}
	top := defaultBounds().Y + geo.Position(23*60)

	c.Handle(down(50, top))
	res := c.Handle(up(50, defaultBounds().Y+geo.Height()))

	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if got := res.Request.String(); got != "2026-03-14 23:00-24:00" {
		t.Errorf("request = %s, want 2026-03-14 23:00-24:00", got)
	}
	if res.Request.Duration() != 60 {
		t.Errorf("duration = %d, want 60", res.Request.Duration())
	}
	if res.Request.Anchor.H != 60 {
		t.Errorf("anchor height = %v, want 60", res.Request.Anchor.H)
	}
	if len(rec.drags) != 1 || rec.drags[0].End != timegrid.EndOfDay {
		t.Errorf("drag callback = %+v", rec.drags)
	}
}

func TestController_ClickAtGridBottomStaysInsideDay(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())
	geo := timegrid.Geometry{DayStartHour: 8, DayEndHour: 24, HourHeight: 60}
	y := defaultBounds().Y + geo.Height() - 1

	c.Handle(down(50, y))
	res := c.Handle(up(50, y))

	if res.Request == nil || res.Request.Kind != RequestInstant {
		t.Fatalf("expected instant request, got %+v", res.Request)
	}
	if res.Request.Time.String() != "23:30" {
		t.Errorf("time = %s, want 23:30", res.Request.Time)
	}
}

func TestController_ThresholdIsExclusive(t *testing.T) {
	tests := []struct {
		name string
		to   Point
		want RequestKind
	}{
		{name: "exactly at threshold", to: Point{X: 50, Y: 110}, want: RequestInstant},
		{name: "diagonal at threshold", to: Point{X: 56, Y: 108}, want: RequestInstant},
		{name: "just past threshold", to: Point{X: 50, Y: 110.5}, want: RequestRange},
		{name: "far drag", to: Point{X: 50, Y: 300}, want: RequestRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, defaultBounds())
			c.Handle(down(50, 100))
			res := c.Handle(up(tt.to.X, tt.to.Y))
			if res.Request == nil {
				t.Fatal("expected a request")
			}
			if res.Request.Kind != tt.want {
				t.Errorf("kind = %v, want %v", res.Request.Kind, tt.want)
			}
		})
	}
}

func TestController_DraggingNeverReverts(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())

	c.Handle(down(50, 100))
	c.Handle(move(50, 150))
	c.Handle(move(50, 101))
	if c.Phase() != PhaseDragging {
		t.Fatalf("phase = %v, want dragging", c.Phase())
	}
	res := c.Handle(up(50, 101))
	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request after returning near the anchor, got %+v", res.Request)
	}
}

func TestController_DownOnEventBlockDoesNotArm(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())

	ev := down(50, 100)
	ev.Target = TargetEvent
	res := c.Handle(ev)
	if res.Handled {
		t.Error("down on an event block should not be handled")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", c.Phase())
	}
	if res := c.Handle(up(50, 100)); res.Request != nil {
		t.Errorf("unexpected request %+v", res.Request)
	}
	if len(rec.clicks)+len(rec.drags) != 0 {
		t.Error("no callbacks expected")
	}
}

func TestController_CancelDiscardsGesture(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())

	c.Handle(down(50, 100))
	c.Handle(move(50, 300))
	res := c.Handle(Event{Kind: EventCancel, PointerID: 0})
	if !res.Cancelled {
		t.Error("expected cancel to report a discarded gesture")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", c.Phase())
	}
	if res := c.Handle(up(50, 300)); res.Request != nil {
		t.Errorf("release after cancel produced %+v", res.Request)
	}
	if len(rec.clicks)+len(rec.drags) != 0 {
		t.Error("no callbacks expected after cancel")
	}
}

func TestController_MalformedSequences(t *testing.T) {
	c, rec := newTestController(t, defaultBounds())

	for _, ev := range []Event{
		up(10, 10),
		move(10, 10),
		{Kind: EventCancel, PointerID: AnyPointer},
		{Kind: EventKind(42)},
	} {
		if res := c.Handle(ev); res.Handled || res.Request != nil {
			t.Errorf("event %v on idle controller = %+v, want no-op", ev.Kind, res)
		}
	}
	if len(rec.clicks)+len(rec.drags) != 0 {
		t.Error("no callbacks expected")
	}
}

func TestController_SecondPointer(t *testing.T) {
	t.Run("mouse second pointer is ignored", func(t *testing.T) {
		c, _ := newTestController(t, defaultBounds())
		c.Handle(down(50, 100))

		other := down(50, 400)
		other.PointerID = 7
		if res := c.Handle(other); res.Handled {
			t.Error("second pointer should be ignored")
		}
		st, ok := c.State()
		if !ok || st.Anchor.Y != 100 {
			t.Errorf("state = %+v, want anchor at 100", st)
		}
		res := c.Handle(up(50, 100))
		if res.Request == nil || res.Request.Kind != RequestInstant {
			t.Errorf("original gesture should still complete, got %+v", res.Request)
		}
	})

	t.Run("second touch point cancels", func(t *testing.T) {
		c, rec := newTestController(t, defaultBounds())
		events := FromTouch(TouchEvent{Phase: TouchStart, Changed: []TouchPoint{{ID: 1, X: 50, Y: 100}}})
		c.Handle(events[0])

		events = FromTouch(TouchEvent{Phase: TouchStart, Changed: []TouchPoint{{ID: 2, X: 60, Y: 300}}})
		res := c.Handle(events[0])
		if !res.Cancelled {
			t.Error("expected second touch to cancel")
		}

		events = FromTouch(TouchEvent{Phase: TouchEnd, Changed: []TouchPoint{{ID: 1, X: 50, Y: 100}}})
		if res := c.Handle(events[0]); res.Request != nil {
			t.Errorf("unexpected request %+v", res.Request)
		}
		if len(rec.clicks)+len(rec.drags) != 0 {
			t.Error("no callbacks expected")
		}
	})

	t.Run("foreign pointer release is ignored", func(t *testing.T) {
		c, _ := newTestController(t, defaultBounds())
		c.Handle(down(50, 100))
		ev := up(50, 300)
		ev.PointerID = 3
		if res := c.Handle(ev); res.Handled {
			t.Error("foreign release should be ignored")
		}
		if c.Phase() != PhaseArmed {
			t.Errorf("phase = %v, want armed", c.Phase())
		}
	})
}

func TestController_TouchDragPreventsDefault(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())

	start := FromTouch(TouchEvent{Phase: TouchStart, Changed: []TouchPoint{{ID: 4, X: 20, Y: 100}}})
	c.Handle(start[0])

	small := FromTouch(TouchEvent{Phase: TouchMove, Changed: []TouchPoint{{ID: 4, X: 20, Y: 105}}})
	if res := c.Handle(small[0]); res.PreventDefault {
		t.Error("armed touch move should not prevent scrolling")
	}

	drag := FromTouch(TouchEvent{Phase: TouchMove, Changed: []TouchPoint{{ID: 4, X: 20, Y: 180}}})
	if res := c.Handle(drag[0]); !res.PreventDefault {
		t.Error("touch drag should prevent scrolling")
	}

	end := FromTouch(TouchEvent{Phase: TouchEnd, Changed: []TouchPoint{{ID: 4, X: 20, Y: 180}}})
	res := c.Handle(end[0])
	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if res.Request.Start.String() != "09:45" || res.Request.End.String() != "11:00" {
		t.Errorf("range = %s-%s, want 09:45-11:00", res.Request.Start, res.Request.End)
	}
}

func TestController_MouseDragDoesNotPreventDefault(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())
	c.Handle(down(20, 100))
	if res := c.Handle(move(20, 200)); res.PreventDefault {
		t.Error("mouse drag should not prevent default")
	}
}

func TestController_Preview(t *testing.T) {
	c, _ := newTestController(t, defaultBounds())

	if _, _, ok := c.Preview(); ok {
		t.Error("idle controller should have no preview")
	}
	c.Handle(down(50, 60))
	if _, _, ok := c.Preview(); ok {
		t.Error("armed controller should have no preview")
	}
	c.Handle(move(50, 150))
	start, end, ok := c.Preview()
	if !ok {
		t.Fatal("dragging controller should have a preview")
	}
	if start.String() != "09:00" || end.String() != "10:30" {
		t.Errorf("preview = %s-%s, want 09:00-10:30", start, end)
	}
}

func TestController_OffsetColumn(t *testing.T) {
	c, _ := newTestController(t, Rect{X: 200, Y: 40, W: 80, H: 960})

	c.Handle(down(210, 40+120))
	res := c.Handle(up(210, 40+240))
	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if res.Request.Start.String() != "10:00" || res.Request.End.String() != "12:00" {
		t.Errorf("range = %s-%s, want 10:00-12:00", res.Request.Start, res.Request.End)
	}
	want := Rect{X: 200, Y: 160, W: 80, H: 120}
	if res.Request.Anchor != want {
		t.Errorf("anchor = %+v, want %+v", res.Request.Anchor, want)
	}
}

func TestController_RangeMinimumProperty(t *testing.T) {
	for from := 0.0; from < 960; from += 11 {
		for delta := -40.0; delta <= 40; delta += 3 {
			c, _ := newTestController(t, defaultBounds())
			c.Handle(down(0, from))
			c.Handle(move(20, from+delta))
			res := c.Handle(up(20, from+delta))
			if res.Request == nil {
				t.Fatalf("from=%v delta=%v: no request", from, delta)
			}
			if res.Request.Kind == RequestRange && res.Request.Duration() < 15 {
				t.Fatalf("from=%v delta=%v: duration %d < 15", from, delta, res.Request.Duration())
			}
		}
	}
}

func TestCreationRequest_String(t *testing.T) {
	instant := CreationRequest{Kind: RequestInstant, Date: testDate, Time: timegrid.NewTimeOfDay(20, 30)}
	if got := instant.String(); got != "2026-03-14 20:30" {
		t.Errorf("instant String() = %q", got)
	}
	rng := CreationRequest{Kind: RequestRange, Date: testDate, Start: timegrid.NewTimeOfDay(20, 0), End: timegrid.NewTimeOfDay(22, 15)}
	if got := rng.String(); got != "2026-03-14 20:00-22:15" {
		t.Errorf("range String() = %q", got)
	}
}

package gesture

import (
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/bandcal/internal/timegrid"
)

func newTestArena(t *testing.T) (*Arena, *recorder, []time.Time) {
	t.Helper()
	rec := &recorder{}
	opts := Options{Geometry: timegrid.Geometry{DayStartHour: 8, DayEndHour: 24, HourHeight: 60}}
	a := NewArena(opts, rec.callbacks())

	days := make([]time.Time, 3)
	for i := range days {
		days[i] = testDate.AddDate(0, 0, i)
		a.Mount(Column{Date: days[i], Bounds: Rect{X: float64(i) * 100, Y: 20, W: 100, H: 960}})
	}
	return a, rec, days
}

func TestArena_MountAndKeys(t *testing.T) {
	a, _, days := newTestArena(t)

	want := []ColumnKey{"2026-03-14", "2026-03-15", "2026-03-16"}
	if got := a.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	c1, _ := a.Get(KeyFor(days[1]))
	again := a.Mount(Column{Date: days[1], Bounds: Rect{X: 500, Y: 20, W: 100, H: 960}})
	if again != c1 {
		t.Error("remount should return the existing controller")
	}
	if again.Column().Bounds.X != 500 {
		t.Errorf("remount bounds X = %v, want 500", again.Column().Bounds.X)
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
}

func TestArena_RoutesToColumnUnderPointer(t *testing.T) {
	a, rec, days := newTestArena(t)

	a.Route(down(150, 20+120))
	res := a.Route(up(150, 20+120))

	if res.Request == nil || res.Request.Kind != RequestInstant {
		t.Fatalf("expected instant request, got %+v", res.Request)
	}
	if !res.Request.Date.Equal(days[1]) {
		t.Errorf("request date = %v, want %v", res.Request.Date, days[1])
	}
	if res.Request.Time.String() != "10:00" {
		t.Errorf("request time = %s, want 10:00", res.Request.Time)
	}
	if len(rec.clicks) != 1 {
		t.Errorf("clicks = %d, want 1", len(rec.clicks))
	}
}

func TestArena_PointerCapture(t *testing.T) {
	a, _, days := newTestArena(t)

	a.Route(down(50, 20+60))
	a.Route(move(250, 20+180))
	active, ok := a.Active()
	if !ok || !active.Column().Date.Equal(days[0]) {
		t.Fatalf("active column = %v, want %v", active, days[0])
	}

	res := a.Route(up(250, 20+180))
	if res.Request == nil || res.Request.Kind != RequestRange {
		t.Fatalf("expected range request, got %+v", res.Request)
	}
	if !res.Request.Date.Equal(days[0]) {
		t.Errorf("captured drag landed on %v, want %v", res.Request.Date, days[0])
	}
	if _, ok := a.Active(); ok {
		t.Error("no gesture should be active after release")
	}
}

func TestArena_DownOutsideAnyColumn(t *testing.T) {
	a, rec, _ := newTestArena(t)

	if res := a.Route(down(1000, 100)); res.Handled {
		t.Error("down outside the columns should not be handled")
	}
	if res := a.Route(up(1000, 100)); res.Request != nil {
		t.Errorf("unexpected request %+v", res.Request)
	}
	if res := a.Route(down(50, 5)); res.Handled {
		t.Error("down above the grid area should not be handled")
	}
	if len(rec.clicks)+len(rec.drags) != 0 {
		t.Error("no callbacks expected")
	}
}

func TestArena_UnmountCancels(t *testing.T) {
	a, rec, days := newTestArena(t)

	a.Route(down(50, 100))
	a.Route(move(50, 300))
	a.Unmount(KeyFor(days[0]))

	if _, ok := a.Get(KeyFor(days[0])); ok {
		t.Error("unmounted column still present")
	}
	if res := a.Route(up(50, 300)); res.Request != nil {
		t.Errorf("release after unmount produced %+v", res.Request)
	}
	if len(rec.drags) != 0 {
		t.Error("no drag callback expected after unmount")
	}
}

func TestArena_UnmountAllExcept(t *testing.T) {
	a, _, days := newTestArena(t)

	a.UnmountAllExcept([]ColumnKey{KeyFor(days[2])})
	if got := a.Keys(); !slices.Equal(got, []ColumnKey{KeyFor(days[2])}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestArena_CancelAll(t *testing.T) {
	a, rec, _ := newTestArena(t)

	a.Route(down(50, 100))
	res := a.Route(Event{Kind: EventCancel, PointerID: AnyPointer})
	if !res.Cancelled {
		t.Error("expected cancel to report a discarded gesture")
	}
	if res := a.Route(up(50, 100)); res.Request != nil {
		t.Errorf("release after cancel produced %+v", res.Request)
	}
	if len(rec.clicks) != 0 {
		t.Error("no click expected after cancel")
	}
}

func TestArena_SecondTouchInOtherColumnCancels(t *testing.T) {
	a, rec, _ := newTestArena(t)

	for _, ev := range FromTouch(TouchEvent{Phase: TouchStart, Changed: []TouchPoint{{ID: 1, X: 50, Y: 100}}}) {
		a.Route(ev)
	}
	for _, ev := range FromTouch(TouchEvent{Phase: TouchStart, Changed: []TouchPoint{{ID: 2, X: 250, Y: 100}}}) {
		res := a.Route(ev)
		if !res.Cancelled {
			t.Error("second finger should cancel the active gesture")
		}
	}
	for _, ev := range FromTouch(TouchEvent{Phase: TouchEnd, Changed: []TouchPoint{{ID: 1, X: 50, Y: 100}, {ID: 2, X: 250, Y: 100}}}) {
		if res := a.Route(ev); res.Request != nil {
			t.Errorf("unexpected request %+v", res.Request)
		}
	}
	if len(rec.clicks)+len(rec.drags) != 0 {
		t.Error("no callbacks expected")
	}
}

func TestArena_RepeatedDownRestarts(t *testing.T) {
	a, rec, days := newTestArena(t)

	a.Route(down(50, 100))
	a.Route(down(250, 20+120))
	if c, ok := a.Get(KeyFor(days[0])); !ok || c.Phase() != PhaseIdle {
		t.Error("first column should be idle after a new press elsewhere")
	}
	res := a.Route(up(250, 20+120))
	if res.Request == nil || !res.Request.Date.Equal(days[2]) {
		t.Fatalf("expected request on %v, got %+v", days[2], res.Request)
	}
	if len(rec.clicks) != 1 {
		t.Errorf("clicks = %d, want 1", len(rec.clicks))
	}
}

func TestFromTouch(t *testing.T) {
	events := FromTouch(TouchEvent{
		Phase:   TouchMove,
		Changed: []TouchPoint{{ID: 3, X: 1, Y: 2}, {ID: 4, X: 5, Y: 6}},
	})
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Kind != EventMove || events[0].Device != DeviceTouch || events[1].PointerID != 4 {
		t.Errorf("unexpected events %+v", events)
	}
	if got := FromTouch(TouchEvent{Phase: TouchPhase(9)}); got != nil {
		t.Errorf("unknown phase = %+v, want nil", got)
	}
}

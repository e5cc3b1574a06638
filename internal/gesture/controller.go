package gesture

import (
	"time"

	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// DefaultThreshold is the displacement in logical pixels a pointer must
// strictly exceed before a press becomes a drag.
const DefaultThreshold = 10

// Phase is the controller's position in Idle -> Armed -> Dragging -> Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Options configures snapping and drag detection.
type Options struct {
	Geometry  timegrid.Geometry
	Threshold float64 // drag threshold in logical pixels
	ClickSnap int     // minutes, instant requests
	DragSnap  int     // minutes, range requests and minimum range length
}

// DefaultOptions returns 10px threshold, 30-minute click snap and
// 15-minute drag snap over the default geometry.
func DefaultOptions() Options {
	return Options{
		Geometry:  timegrid.DefaultGeometry(),
		Threshold: DefaultThreshold,
		ClickSnap: timegrid.ClickSnap,
		DragSnap:  timegrid.DragSnap,
	}
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.ClickSnap <= 0 {
		o.ClickSnap = timegrid.ClickSnap
	}
	if o.DragSnap <= 0 {
		o.DragSnap = timegrid.DragSnap
	}
	if o.Geometry.HourHeight <= 0 {
		o.Geometry = timegrid.DefaultGeometry()
	}
	return o
}

// Callbacks receive completed gestures.
type Callbacks struct {
	OnSlotClick func(date time.Time, at timegrid.TimeOfDay)
	OnSlotDrag  func(date time.Time, start, end timegrid.TimeOfDay, anchor Rect)
}

// Column is the day column a controller serves.
type Column struct {
	Date   time.Time
	Bounds Rect // viewport rectangle of the time grid area
}

// State is the transient record of one pointer sequence.
type State struct {
	Anchor    Point
	Current   Point
	Dragging  bool
	PointerID int
	Device    Device
}

// Result reports what an event did.
type Result struct {
	Handled        bool             // the event belonged to this controller's gesture
	PreventDefault bool             // suppress platform scrolling (touch drags)
	Cancelled      bool             // an active gesture was discarded
	Request        *CreationRequest // set when a gesture completed
}

// Controller is the per-column pointer state machine. It is not safe for
// concurrent use.
type Controller struct {
	column Column
	opts   Options
	cb     Callbacks
	state  *State
}

// NewController creates an idle controller for a column.
func NewController(column Column, opts Options, cb Callbacks) *Controller {
	return &Controller{
		column: column,
		opts:   opts.withDefaults(),
		cb:     cb,
	}
}

// Column returns the served column.
func (c *Controller) Column() Column {
	return c.column
}

// SetBounds moves the column, e.g. after a terminal resize.
func (c *Controller) SetBounds(bounds Rect) {
	c.column.Bounds = bounds
}

// Phase returns the current state machine phase.
func (c *Controller) Phase() Phase {
	switch {
	case c.state == nil:
		return PhaseIdle
	case c.state.Dragging:
		return PhaseDragging
	default:
		return PhaseArmed
	}
}

// State returns a copy of the active gesture state.
func (c *Controller) State() (State, bool) {
	if c.state == nil {
		return State{}, false
	}
	return *c.state, true
}

// Cancel discards any active gesture without emitting a request.
func (c *Controller) Cancel() bool {
	active := c.state != nil
	c.state = nil
	return active
}

// Preview returns the snapped range a drag would create if released now.
func (c *Controller) Preview() (start, end timegrid.TimeOfDay, ok bool) {
	if c.state == nil || !c.state.Dragging {
		return 0, 0, false
	}
	start, end = c.snappedRange(c.state.Anchor, c.state.Current)
	return start, end, true
}

// Handle advances the state machine. Malformed sequences never panic;
// they are treated as no gesture.
func (c *Controller) Handle(ev Event) Result {
	switch ev.Kind {
	case EventDown:
		return c.down(ev)
	case EventMove:
		return c.move(ev)
	case EventUp:
		return c.up(ev)
	case EventCancel:
		return c.cancel(ev)
	default:
		return Result{}
	}
}

func (c *Controller) down(ev Event) Result {
	if c.state != nil {
		if ev.PointerID != c.state.PointerID {
			// A second touch point means pinch or scroll, not a slot gesture.
			if ev.Device == DeviceTouch || c.state.Device == DeviceTouch {
				c.state = nil
				return Result{Handled: true, Cancelled: true}
			}
			return Result{}
		}
		// Same pointer pressed again without a release in between.
		c.state = nil
	}

	if ev.Target != TargetBackground {
		return Result{}
	}

	c.state = &State{
		Anchor:    ev.Point,
		Current:   ev.Point,
		PointerID: ev.PointerID,
		Device:    ev.Device,
	}
	return Result{Handled: true}
}

func (c *Controller) move(ev Event) Result {
	if !c.owns(ev) {
		return Result{}
	}
	c.track(ev.Point)
	return Result{
		Handled:        true,
		PreventDefault: c.state.Dragging && c.state.Device == DeviceTouch,
	}
}

func (c *Controller) up(ev Event) Result {
	if !c.owns(ev) {
		return Result{}
	}
	c.track(ev.Point)

	st := *c.state
	c.state = nil

	var req CreationRequest
	if st.Dragging {
		req = c.rangeRequest(st.Anchor, st.Current)
		if c.cb.OnSlotDrag != nil {
			c.cb.OnSlotDrag(req.Date, req.Start, req.End, req.Anchor)
		}
	} else {
		req = c.instantRequest(st.Current)
		if c.cb.OnSlotClick != nil {
			c.cb.OnSlotClick(req.Date, req.Time)
		}
	}

	return Result{
		Handled:        true,
		PreventDefault: st.Dragging && st.Device == DeviceTouch,
		Request:        &req,
	}
}

func (c *Controller) cancel(ev Event) Result {
	if c.state == nil {
		return Result{}
	}
	if ev.PointerID != AnyPointer && ev.PointerID != c.state.PointerID {
		return Result{}
	}
	c.state = nil
	return Result{Handled: true, Cancelled: true}
}

func (c *Controller) owns(ev Event) bool {
	return c.state != nil && ev.PointerID == c.state.PointerID
}

// track records the pointer position and arms dragging once the
// displacement strictly exceeds the threshold. Dragging never reverts.
func (c *Controller) track(p Point) {
	c.state.Current = p
	if !c.state.Dragging && p.Distance(c.state.Anchor) > c.opts.Threshold {
		c.state.Dragging = true
	}
}

func (c *Controller) localY(p Point) float64 {
	return p.Y - c.column.Bounds.Y
}

func (c *Controller) instantRequest(at Point) CreationRequest {
	snap := c.opts.ClickSnap
	t := timegrid.TimeOfDay(timegrid.ClampSnapped(c.opts.Geometry.Time(c.localY(at), snap).Minutes(), snap))
	return CreationRequest{
		Kind: RequestInstant,
		Date: c.column.Date,
		Time: t,
		Anchor: Rect{
			X: c.column.Bounds.X,
			Y: c.column.Bounds.Y + c.opts.Geometry.Position(t.Minutes()),
			W: c.column.Bounds.W,
			H: c.opts.Geometry.HourHeight * float64(c.opts.ClickSnap) / 60,
		},
	}
}

func (c *Controller) rangeRequest(anchor, current Point) CreationRequest {
	start, end := c.snappedRange(anchor, current)
	g := c.opts.Geometry
	top := g.Position(start.Minutes())
	bottom := g.Position(end.Minutes())
	return CreationRequest{
		Kind:  RequestRange,
		Date:  c.column.Date,
		Start: start,
		End:   end,
		Anchor: Rect{
			X: c.column.Bounds.X,
			Y: c.column.Bounds.Y + top,
			W: c.column.Bounds.W,
			H: bottom - top,
		},
	}
}

// snappedRange snaps both edges to the drag granularity and enforces a
// minimum length of one drag unit. The end may reach EndOfDay.
func (c *Controller) snappedRange(a, b Point) (start, end timegrid.TimeOfDay) {
	top, bottom := c.localY(a), c.localY(b)
	if bottom < top {
		top, bottom = bottom, top
	}

	snap := c.opts.DragSnap
	s := timegrid.ClampSnapped(c.opts.Geometry.Time(top, snap).Minutes(), snap)
	e := c.opts.Geometry.Time(bottom, snap).Minutes()
	if e <= s {
		e = s + snap
	}
	return timegrid.TimeOfDay(s), timegrid.TimeOfDay(e)
}

package gesture

import (
	"slices"
	"time"
)

// ColumnKey identifies a mounted day column.
type ColumnKey string

// KeyFor returns the column key of a date.
func KeyFor(date time.Time) ColumnKey {
	return ColumnKey(date.Format("2006-01-02"))
}

// Arena owns one Controller per mounted day column and routes events to
// them. A pointer that goes down in a column stays captured by that column
// until it is released or cancelled.
type Arena struct {
	opts        Options
	cb          Callbacks
	controllers map[ColumnKey]*Controller
	captured    map[int]ColumnKey // pointer id -> owning column
}

// NewArena creates an empty arena. Every mounted controller shares opts and cb.
func NewArena(opts Options, cb Callbacks) *Arena {
	return &Arena{
		opts:        opts,
		cb:          cb,
		controllers: make(map[ColumnKey]*Controller),
		captured:    make(map[int]ColumnKey),
	}
}

// Mount creates the controller for a column, or updates the bounds of an
// already mounted one.
func (a *Arena) Mount(column Column) *Controller {
	key := KeyFor(column.Date)
	if c, ok := a.controllers[key]; ok {
		c.SetBounds(column.Bounds)
		return c
	}
	c := NewController(column, a.opts, a.cb)
	a.controllers[key] = c
	return c
}

// Unmount discards a column's controller and any gesture in progress on it.
func (a *Arena) Unmount(key ColumnKey) {
	c, ok := a.controllers[key]
	if !ok {
		return
	}
	c.Cancel()
	delete(a.controllers, key)
	for id, owner := range a.captured {
		if owner == key {
			delete(a.captured, id)
		}
	}
}

// UnmountAllExcept keeps only the given columns mounted.
func (a *Arena) UnmountAllExcept(keep []ColumnKey) {
	for _, key := range a.Keys() {
		if !slices.Contains(keep, key) {
			a.Unmount(key)
		}
	}
}

// Get returns a mounted controller.
func (a *Arena) Get(key ColumnKey) (*Controller, bool) {
	c, ok := a.controllers[key]
	return c, ok
}

// Keys returns the mounted column keys in date order.
func (a *Arena) Keys() []ColumnKey {
	keys := make([]ColumnKey, 0, len(a.controllers))
	for k := range a.controllers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of mounted columns.
func (a *Arena) Len() int {
	return len(a.controllers)
}

// Active returns the controller with a gesture in progress, if any.
func (a *Arena) Active() (*Controller, bool) {
	for _, key := range a.Keys() {
		if c := a.controllers[key]; c.Phase() != PhaseIdle {
			return c, true
		}
	}
	return nil, false
}

// Route delivers an event to the column that owns it. Down events go to
// the column under the pointer; later events follow the captured pointer.
func (a *Arena) Route(ev Event) Result {
	if ev.Kind == EventDown {
		return a.routeDown(ev)
	}

	if ev.Kind == EventCancel && ev.PointerID == AnyPointer {
		return a.CancelAll()
	}

	key, ok := a.captured[ev.PointerID]
	if !ok {
		return Result{}
	}
	c, ok := a.controllers[key]
	if !ok {
		delete(a.captured, ev.PointerID)
		return Result{}
	}

	res := c.Handle(ev)
	if ev.Kind == EventUp || ev.Kind == EventCancel || c.Phase() == PhaseIdle {
		delete(a.captured, ev.PointerID)
	}
	return res
}

func (a *Arena) routeDown(ev Event) Result {
	// The same pointer pressed again without a release restarts from Idle.
	if key, ok := a.captured[ev.PointerID]; ok {
		if c, ok := a.controllers[key]; ok {
			c.Cancel()
		}
		delete(a.captured, ev.PointerID)
	}

	// A second pointer while another gesture is active goes to the column
	// that owns that gesture, whichever column it lands in.
	for id, key := range a.captured {
		if id == ev.PointerID {
			continue
		}
		c, ok := a.controllers[key]
		if !ok {
			continue
		}
		res := c.Handle(ev)
		if c.Phase() == PhaseIdle {
			delete(a.captured, id)
		}
		return res
	}

	for _, key := range a.Keys() {
		c := a.controllers[key]
		if !c.Column().Bounds.Contains(ev.Point) {
			continue
		}
		res := c.Handle(ev)
		if c.Phase() != PhaseIdle {
			a.captured[ev.PointerID] = key
		} else {
			delete(a.captured, ev.PointerID)
		}
		return res
	}
	return Result{}
}

// CancelAll discards every gesture in progress.
func (a *Arena) CancelAll() Result {
	var res Result
	for _, c := range a.controllers {
		if c.Cancel() {
			res.Handled = true
			res.Cancelled = true
		}
	}
	clear(a.captured)
	return res
}

// Package gig defines the calendar event type bandcal lays out.
package gig

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/javiermolinar/bandcal/internal/dateutil"
	"github.com/javiermolinar/bandcal/internal/layout"
	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrGigNotFound = errors.New("gig not found")
)

// DefaultDuration is assumed for gigs stored without an end time.
const DefaultDuration = 2 * time.Hour

// Gig is a scheduled performance, rehearsal or other booking.
type Gig struct {
	ID         string // ULID
	ExternalID string // source UID for imported gigs, empty otherwise
	Title      string
	Venue      string
	Date       time.Time
	Start      string // "HH:MM"
	End        string // "HH:MM", empty when unknown
	CreatedAt  time.Time
}

// New creates a Gig with validation.
// date can be empty (defaults to today) or in YYYY-MM-DD format.
// end may be empty; otherwise it must be after start. An end of "00:00"
// means midnight at the end of the day.
func New(title, venue, date, start, end string) (*Gig, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	gigDate, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	startMin, err := parseHHMM(start)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}

	if end != "" {
		endMin, err := parseHHMM(end)
		if err != nil {
			return nil, fmt.Errorf("end time: %w", err)
		}
		if endMin == 0 {
			endMin = timegrid.MinutesPerDay
		}
		if endMin <= startMin {
			return nil, ErrEndBeforeStart
		}
	}

	return &Gig{
		ID:        NewID(),
		Title:     title,
		Venue:     strings.TrimSpace(venue),
		Date:      gigDate,
		Start:     start,
		End:       end,
		CreatedAt: time.Now(),
	}, nil
}

func parseHHMM(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidTimeFormat
	}
	m, err := timegrid.TimeToMinutes(s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return m, nil
}

// NewID returns a fresh lexically sortable gig identifier.
func NewID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// HasEnd reports whether the gig has an explicit end time.
func (g *Gig) HasEnd() bool {
	return g.End != ""
}

// IntervalOptions controls how a gig is turned into a layout interval.
type IntervalOptions struct {
	DefaultDuration time.Duration // used when End is empty or malformed
	FallbackStart   int           // minutes since midnight, used when Start is malformed
}

// Interval returns the gig's minutes-since-midnight range. The boolean is
// false when the start time was malformed and the fallback was used.
// Gigs that run past midnight are cut at the end of the day.
func (g *Gig) Interval(opts IntervalOptions) (layout.Interval, bool) {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}

	start, err := timegrid.TimeToMinutes(g.Start)
	ok := err == nil
	if !ok {
		start = opts.FallbackStart
	}

	end := -1
	if g.End != "" {
		if m, err := timegrid.TimeToMinutes(g.End); err == nil {
			end = m
		}
	}
	if end < 0 {
		end = start + int(opts.DefaultDuration/time.Minute)
	}
	if end <= start {
		end = timegrid.MinutesPerDay
	}
	end = min(end, timegrid.MinutesPerDay)

	return layout.Interval{Start: start, End: end}, ok
}

// OnDate reports whether the gig is scheduled on the given calendar day.
func (g *Gig) OnDate(date time.Time) bool {
	y1, m1, d1 := g.Date.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TimeRange formats the gig's times as "HH:MM-HH:MM" or "HH:MM".
func (g *Gig) TimeRange() string {
	if g.End == "" {
		return g.Start
	}
	return g.Start + "-" + g.End
}

// IsPast returns true if the gig's end (or start plus the default
// duration) has passed.
func (g *Gig) IsPast(now time.Time) bool {
	iv, _ := g.Interval(IntervalOptions{})
	end := time.Date(g.Date.Year(), g.Date.Month(), g.Date.Day(), 0, iv.End, 0, 0, now.Location())
	return now.After(end)
}

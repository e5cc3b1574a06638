// Package ics imports gigs from iCalendar files.
package ics

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/bandcal/internal/gig"
)

// Skip reasons.
const (
	ReasonAllDay    = "all-day event"
	ReasonMultiDay  = "spans more than one day"
	ReasonRecurring = "recurring event"
	ReasonNoStart   = "missing or invalid DTSTART"
)

// UntitledSummary is used for events without a SUMMARY.
const UntitledSummary = "(untitled)"

// Skipped describes a VEVENT that was not imported.
type Skipped struct {
	UID     string
	Summary string
	Reason  string
}

func (s Skipped) String() string {
	return fmt.Sprintf("%s (%s): %s", s.Summary, s.UID, s.Reason)
}

// Parse reads an iCalendar stream and returns one gig per timed VEVENT.
// Times are converted to wall-clock time in loc. Floating times (no TZID
// and no UTC suffix) are taken as already being in loc.
func Parse(r io.Reader, loc *time.Location) ([]*gig.Gig, []Skipped, error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var (
		gigs    []*gig.Gig
		skipped []Skipped
	)
	for _, ve := range cal.Events() {
		g, reason := convert(ve, loc)
		if reason != "" {
			skipped = append(skipped, Skipped{
				UID:     propValue(ve, ical.ComponentPropertyUniqueId),
				Summary: summary(ve),
				Reason:  reason,
			})
			continue
		}
		gigs = append(gigs, g)
	}

	return gigs, skipped, nil
}

func convert(ve *ical.VEvent, loc *time.Location) (*gig.Gig, string) {
	if propValue(ve, ical.ComponentPropertyRrule) != "" {
		return nil, ReasonRecurring
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return nil, ReasonNoStart
	}
	if isDateOnly(startProp) {
		return nil, ReasonAllDay
	}
	start, err := parseDateTime(startProp, loc)
	if err != nil {
		return nil, ReasonNoStart
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	end := ""
	if e, ok := eventEnd(ve, start, loc); ok && e.After(start) {
		switch {
		case e.Before(day.AddDate(0, 0, 1)):
			end = e.Format("15:04")
		case e.Equal(day.AddDate(0, 0, 1)):
			// Ends exactly at midnight; "00:00" lays out as end of day.
			end = "00:00"
		default:
			return nil, ReasonMultiDay
		}
	}

	return &gig.Gig{
		ID:         gig.NewID(),
		ExternalID: propValue(ve, ical.ComponentPropertyUniqueId),
		Title:      summary(ve),
		Venue:      strings.TrimSpace(propValue(ve, ical.ComponentPropertyLocation)),
		Date:       day,
		Start:      start.Format("15:04"),
		End:        end,
		CreatedAt:  time.Now(),
	}, ""
}

// eventEnd reads DTEND, or DTSTART plus DURATION when DTEND is absent.
// A missing or malformed end reports false and the gig keeps no end.
func eventEnd(ve *ical.VEvent, start time.Time, loc *time.Location) (time.Time, bool) {
	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		e, err := parseDateTime(endProp, loc)
		return e, err == nil
	}
	if v := propValue(ve, ical.ComponentPropertyDuration); v != "" {
		e, err := addDuration(start, v)
		return e, err == nil
	}
	return time.Time{}, false
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

func summary(ve *ical.VEvent) string {
	s := strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary))
	if s == "" {
		return UntitledSummary
	}
	return s
}

func param(prop *ical.IANAProperty, name string) string {
	if prop.ICalParameters == nil {
		return ""
	}
	if vs, ok := prop.ICalParameters[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func isDateOnly(prop *ical.IANAProperty) bool {
	if strings.EqualFold(param(prop, "VALUE"), "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

var errEmptyTime = errors.New("empty time value")

// parseDateTime handles UTC ("...Z"), TZID-qualified and floating
// DATE-TIME values and returns the instant in loc.
func parseDateTime(prop *ical.IANAProperty, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(prop.Value)
	if v == "" {
		return time.Time{}, errEmptyTime
	}

	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse("20060102T150405Z", v)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}

	src := loc
	if tzid := param(prop, "TZID"); tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			src = l
		}
	}
	t, err := time.ParseInLocation("20060102T150405", v, src)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

var (
	errBadDuration = errors.New("invalid DURATION")
	durationRe     = regexp.MustCompile(`^\+?P(?:(\d+)W|(\d+D)?(?:T(\d+H)?(\d+M)?(\d+S)?)?)$`)
)

// addDuration adds an RFC 5545 dur-value such as "PT2H30M", "P1D" or
// "P1W" to t. Weeks and days are nominal (calendar days); hours, minutes
// and seconds are exact. Negative durations are rejected.
func addDuration(t time.Time, v string) (time.Time, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	m := durationRe.FindStringSubmatch(v)
	if m == nil || strings.HasSuffix(v, "P") || strings.HasSuffix(v, "T") {
		return time.Time{}, fmt.Errorf("%w: %q", errBadDuration, v)
	}

	n := func(s string) int {
		x, _ := strconv.Atoi(strings.TrimRight(s, "WDHMS"))
		return x
	}
	if m[1] != "" {
		return t.AddDate(0, 0, 7*n(m[1])), nil
	}
	t = t.AddDate(0, 0, n(m[2]))
	return t.Add(time.Duration(n(m[3]))*time.Hour +
		time.Duration(n(m[4]))*time.Minute +
		time.Duration(n(m[5]))*time.Second), nil
}

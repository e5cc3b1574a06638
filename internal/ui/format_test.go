package ui

import (
	"testing"

	"github.com/javiermolinar/bandcal/internal/gig"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{120, "2h"},
		{150, "2h30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestAccumulateStats(t *testing.T) {
	mk := func(date, start, end string) *gig.Gig {
		g, err := gig.New("gig", "", date, start, end)
		if err != nil {
			t.Fatalf("gig.New: %v", err)
		}
		return g
	}

	gigs := []*gig.Gig{
		mk("2026-03-14", "10:00", "12:00"),
		mk("2026-03-14", "11:00", "13:00"),
		mk("2026-03-14", "20:00", "21:00"),
		mk("2026-03-10", "20:00", ""),
	}
	stats := AccumulateStats(gigs, gig.IntervalOptions{})

	if stats.Gigs != 4 || stats.BookedMinutes != 7*60 || stats.Clashes != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if ds := stats.DayStats["2026-03-14"]; ds.Gigs != 3 || ds.Minutes != 5*60 || ds.Clashes != 1 {
		t.Errorf("Saturday = %+v", ds)
	}
	if day, minutes := stats.BusiestDay(); day != "2026-03-14" || minutes != 300 {
		t.Errorf("BusiestDay = %s %d", day, minutes)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Headline set", 8); got != "Headl..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}

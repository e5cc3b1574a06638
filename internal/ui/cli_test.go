package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/bandcal/internal/config"
	"github.com/javiermolinar/bandcal/internal/db"
	"github.com/javiermolinar/bandcal/internal/gig"
)

// newTestApp returns an app on a fresh database with the clock at
// Saturday 2026-03-14 09:00.
func newTestApp(t *testing.T) *App {
	t.Helper()
	DisableColor()

	repo, err := db.New(filepath.Join(t.TempDir(), "bandcal.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	a := NewApp(repo, config.Default())
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// run executes one command line on a fresh command tree, so flag values
// never leak between invocations.
func run(t *testing.T, a *App, args ...string) string {
	t.Helper()
	fresh := NewApp(a.repo, a.config)
	fresh.now = a.now

	var out bytes.Buffer
	fresh.root.SetOut(&out)
	fresh.root.SetErr(&out)
	fresh.root.SetArgs(args)
	if err := fresh.Execute(); err != nil {
		t.Fatalf("bandcal %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestAddAndList(t *testing.T) {
	a := newTestApp(t)

	out := run(t, a, "add", "Jazz night", "--date=2026-03-14", "--start=21:00", "--end=23:30", "--venue=Blue Note")
	if !strings.Contains(out, "Jazz night 2026-03-14 21:00-23:30 @ Blue Note") {
		t.Errorf("add output = %q", out)
	}
	run(t, a, "add", "Soundcheck", "--date=today", "--start=18:00")

	out = run(t, a, "list")
	for _, want := range []string{"Sat Mar 14", "Soundcheck", "Jazz night", "@ Blue Note", "2h30m"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Soundcheck") > strings.Index(out, "Jazz night") {
		t.Errorf("gigs not ordered by start:\n%s", out)
	}

	out = run(t, a, "list", "--from=2026-03-16")
	if !strings.Contains(out, "No gigs found") {
		t.Errorf("list of an empty day = %q", out)
	}
}

func TestAddRejectsInvalidTimes(t *testing.T) {
	a := newTestApp(t)
	a.root.SetOut(&bytes.Buffer{})
	a.root.SetErr(&bytes.Buffer{})
	a.root.SetArgs([]string{"add", "Gig", "--start=21:00", "--end=20:00"})
	if err := a.Execute(); err == nil {
		t.Error("expected an error for an end before the start")
	}
}

// addedID pulls the gig ID out of "Added gig <id>: ...".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 3 {
		t.Fatalf("unexpected add output %q", out)
	}
	return strings.TrimSuffix(fields[2], ":")
}

func TestMoveAndRemove(t *testing.T) {
	a := newTestApp(t)
	id := addedID(t, run(t, a, "add", "Late set", "--date=2026-03-14", "--start=21:00", "--end=22:00"))

	out := run(t, a, "move", id, "--start=22:00", "--end=00:00")
	if !strings.Contains(out, "21:00-22:00 → 22:00-00:00") {
		t.Errorf("move output = %q", out)
	}
	g, err := a.repo.GetGig(context.Background(), id)
	if err != nil {
		t.Fatalf("GetGig: %v", err)
	}
	if g.Start != "22:00" || g.End != "00:00" || g.Date.Format("2006-01-02") != "2026-03-14" {
		t.Errorf("moved gig = %s %s-%s", g.Date.Format("2006-01-02"), g.Start, g.End)
	}

	out = run(t, a, "remove", id)
	if !strings.Contains(out, "Removed gig "+id+": Late set") {
		t.Errorf("remove output = %q", out)
	}
	if _, err := a.repo.GetGig(context.Background(), id); !errors.Is(err, gig.ErrGigNotFound) {
		t.Errorf("GetGig after remove = %v, want ErrGigNotFound", err)
	}
}

func TestMoveRejectsBadInput(t *testing.T) {
	a := newTestApp(t)
	id := addedID(t, run(t, a, "add", "Late set", "--date=2026-03-14", "--start=21:00"))

	tests := []struct {
		name string
		args []string
	}{
		{name: "end before start", args: []string{"move", id, "--start=22:00", "--end=21:00"}},
		{name: "unknown gig", args: []string{"move", "01ARZ3NDEKTSV4RRFFQ69G5FAV", "--start=22:00"}},
		{name: "remove unknown gig", args: []string{"remove", "01ARZ3NDEKTSV4RRFFQ69G5FAV"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := NewApp(a.repo, a.config)
			fresh.root.SetOut(&bytes.Buffer{})
			fresh.root.SetErr(&bytes.Buffer{})
			fresh.root.SetArgs(tt.args)
			if err := fresh.Execute(); err == nil {
				t.Errorf("bandcal %s: expected an error", strings.Join(tt.args, " "))
			}
		})
	}

	g, err := a.repo.GetGig(context.Background(), id)
	if err != nil {
		t.Fatalf("GetGig: %v", err)
	}
	if g.Start != "21:00" || g.End != "" {
		t.Errorf("rejected move changed the gig to %s-%s", g.Start, g.End)
	}
}

func TestLayoutJSON(t *testing.T) {
	a := newTestApp(t)
	run(t, a, "add", "A", "--date=2026-03-14", "--start=10:00", "--end=12:00")
	run(t, a, "add", "B", "--date=2026-03-14", "--start=11:00", "--end=13:00")
	run(t, a, "add", "Early", "--date=2026-03-14", "--start=07:00", "--end=09:00")

	out := run(t, a, "layout", "--date=2026-03-14", "--format=json")
	var doc LayoutDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if doc.Date != "2026-03-14" || doc.Height != 960 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(doc.Blocks))
	}
	byTitle := make(map[string]BlockDoc)
	for _, b := range doc.Blocks {
		byTitle[b.Title] = b
	}
	if b := byTitle["A"]; b.Top != 120 || b.Height != 120 || b.Column != 0 || b.TotalColumns != 2 {
		t.Errorf("A = %+v", b)
	}
	if b := byTitle["B"]; b.Column != 1 || b.Left != 0.5 || b.Width != 0.5 {
		t.Errorf("B = %+v", b)
	}
	if b := byTitle["Early"]; !b.ClippedTop || b.Top != 0 || b.Height != 60 {
		t.Errorf("Early = %+v", b)
	}
	if doc.Now == nil || doc.Now.Time != "09:00" || doc.Now.Y != 60 {
		t.Errorf("Now = %+v", doc.Now)
	}
}

func TestLayoutYAMLAndText(t *testing.T) {
	a := newTestApp(t)
	run(t, a, "add", "Late set", "--date=2026-03-14", "--start=22:00", "--end=00:00")

	out := run(t, a, "layout", "--date=2026-03-14", "--format=yaml")
	var doc LayoutDoc
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Start != "22:00" || doc.Blocks[0].End != "24:00" {
		t.Errorf("blocks = %+v", doc.Blocks)
	}

	out = run(t, a, "layout", "--date=2026-03-14")
	if !strings.Contains(out, "22:00-24:00") || !strings.Contains(out, "Late set") {
		t.Errorf("text layout = %q", out)
	}
}

func TestLayoutUnknownFormat(t *testing.T) {
	a := newTestApp(t)
	a.root.SetOut(&bytes.Buffer{})
	a.root.SetErr(&bytes.Buffer{})
	a.root.SetArgs([]string{"layout", "--format=xml"})
	if err := a.Execute(); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestWeek(t *testing.T) {
	a := newTestApp(t)
	run(t, a, "add", "A", "--date=2026-03-14", "--start=10:00", "--end=12:00")
	run(t, a, "add", "B", "--date=2026-03-14", "--start=11:00", "--end=13:00")
	run(t, a, "add", "C", "--date=2026-03-10", "--start=20:00")

	out := run(t, a, "week", "--date=2026-03-12")
	for _, want := range []string{"WEEK: Mon Mar 9 - Sun Mar 15, 2026", "Gigs: 3", "Booked: 6h", "Busiest: 2026-03-14 (4h)", "Clashes: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("week output missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	a := newTestApp(t)
	if out := run(t, a, "version"); !strings.HasPrefix(out, "bandcal ") {
		t.Errorf("version = %q", out)
	}
}

package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/gig"
)

// DebugLogger logs gestures, mode changes and layout fallbacks as JSON lines.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "bandcal-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	startDebugLogger(f, DebugLogPath)
	return nil
}

func startDebugLogger(w io.WriteCloser, name string) {
	debugLog = &DebugLogger{
		out:     w,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": name,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.out != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.out.Close()
	}
	debugLog = nil
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.out == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.out, "%s\n", b)
}

func debugEnabled() bool {
	return debugLog != nil && debugLog.enabled
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debugEnabled() {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogGesture logs a pointer event routed into the arena and its outcome.
func LogGesture(ev gesture.Event, res gesture.Result) {
	if !debugEnabled() {
		return
	}
	debugLog.log("GESTURE", map[string]any{
		"kind":            ev.Kind.String(),
		"pointer":         ev.PointerID,
		"device":          ev.Device.String(),
		"x":               ev.Point.X,
		"y":               ev.Point.Y,
		"handled":         res.Handled,
		"prevent_default": res.PreventDefault,
		"cancelled":       res.Cancelled,
	})
}

// LogCreateRequest logs a completed click or drag.
func LogCreateRequest(req gesture.CreationRequest) {
	if !debugEnabled() {
		return
	}
	debugLog.log("CREATE_REQUEST", map[string]any{
		"request": req.String(),
		"anchor": map[string]float64{
			"x": req.Anchor.X,
			"y": req.Anchor.Y,
			"w": req.Anchor.W,
			"h": req.Anchor.H,
		},
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if !debugEnabled() {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"reason": reason,
	})
}

// LogLayoutFallback logs a gig whose times could not be parsed.
func LogLayoutFallback(g *gig.Gig) {
	if !debugEnabled() {
		return
	}
	debugLog.log("LAYOUT_FALLBACK", map[string]any{
		"id":    g.ID,
		"title": truncateStr(g.Title, 30),
		"start": g.Start,
		"end":   g.End,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if !debugEnabled() {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// truncateStr truncates a string to max runes.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

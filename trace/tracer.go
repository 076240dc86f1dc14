package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer reports compiler progress for debugging: the fragment generated
// for each BASIC line, labels as they are minted, warnings and eliminated
// dispatch entries. A nil *Tracer is valid and traces nothing.
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// New creates a tracer. Filters are glob patterns matched against BASIC
// line numbers ("1*", "20?"); no filters traces every line.
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	globalTracer = New(enabled, filters, writer)
}

// Global returns the global tracer, or nil before Init
func Global() *Tracer {
	return globalTracer
}

// IsEnabled returns whether tracing is enabled
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.enabled
}

// matchesFilter checks if a line number matches any of the filter patterns
func (t *Tracer) matchesFilter(line string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, line); matched {
			return true
		}
	}
	return false
}

// Line logs the fragment generated for one BASIC line
func (t *Tracer) Line(line string, fragment string) {
	if !t.IsEnabled() || !t.matchesFilter(line) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] LINE %s => %s\n", line, strings.TrimRight(fragment, "\n"))
}

// Label logs a synthetic label minted while compiling line
func (t *Tracer) Label(line string, label string) {
	if !t.IsEnabled() || !t.matchesFilter(line) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE]   LABEL %s\n", label)
}

// Warning logs a non-fatal diagnostic
func (t *Tracer) Warning(line string, message string) {
	if !t.IsEnabled() || !t.matchesFilter(line) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Truncate long messages for readability
	msgDisplay := message
	if len(msgDisplay) > 60 {
		msgDisplay = msgDisplay[:57] + "..."
	}

	fmt.Fprintf(t.writer, "[TRACE] WARN %s %q\n", line, msgDisplay)
}

// Eliminated logs a dispatch entry commented out for lack of references
func (t *Tracer) Eliminated(line string) {
	if !t.IsEnabled() || !t.matchesFilter(line) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] UNREFERENCED %s\n", line)
}

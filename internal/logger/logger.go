// Package logger implements the --verbose pipeline trace. It writes
// prefixed lines to stderr so an operator can watch a query move
// through routing, retrieval, reranking and synthesis; with verbose
// off every call is a no-op.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns the trace on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether the trace is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects the trace, mainly so tests can capture it.
// The default is os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one prefixed line while holding the read lock, so
// concurrent sessions do not interleave partial lines.
func emit(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug traces a fine-grained pipeline detail.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", format, args...)
}

// Info traces a pipeline decision or result.
func Info(format string, args ...any) {
	emit("[INFO] ", format, args...)
}

// Warn traces a recoverable problem, typically one the pipeline is
// about to degrade around.
func Warn(format string, args ...any) {
	emit("[WARN] ", format, args...)
}

// Section marks the start of a named phase in the trace.
func Section(name string) {
	emit("", "\n=== %s ===", name)
}

// Timing reports how long a stage took, given its start time. Stages
// have individually tunable timeouts, and tuning them needs the
// measured latencies.
func Timing(stage string, start time.Time) {
	emit("[TIME] ", "%s: %s", stage, time.Since(start).Round(time.Millisecond))
}

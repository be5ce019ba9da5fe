// Package logger provides the pipeline's diagnostic output. Debug, Info,
// Section and Stage are gated behind the --verbose flag; Warn always
// prints, since a failed source or a misconfigured provider matters even
// in a quiet run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests swap in a
// buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one line. gated lines are dropped outside verbose mode.
func logf(gated bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints fine-grained progress, verbose mode only.
func Debug(format string, args ...any) {
	logf(true, "[DEBUG] ", format, args...)
}

// Info prints pipeline progress, verbose mode only.
func Info(format string, args ...any) {
	logf(true, "[INFO] ", format, args...)
}

// Warn prints a warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", format, args...)
}

// Section marks the start of a run in the verbose stream.
func Section(name string) {
	logf(true, "", "\n=== %s ===", name)
}

// Stage prints progress attributed to one pipeline stage, verbose mode
// only. The stage name leads the line so a run's stages scan vertically.
func Stage(stage string, format string, args ...any) {
	logf(true, "["+stage+"] ", format, args...)
}

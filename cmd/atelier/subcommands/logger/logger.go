// Package logger builds the *log.Logger atelier commands write their
// diagnostics to. Output for the user goes to stdout, never here.
package logger

import (
	"io"
	"log"
)

// Null discards everything. Tests hand this to tasks whose logging is
// not under test.
func Null() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

// Default logs to the process default destination, stderr.
func Default() *log.Logger {
	return log.Default()
}

// Package terminal provides terminal detection utilities for CLI output.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Stubbable for tests.
var (
	isTerminal = term.IsTerminal
	getenv     = os.Getenv
)

// IsInteractive reports whether stdin and stdout are both interactive
// terminals. Progress lines are suppressed when this is false.
func IsInteractive() bool {
	return isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled reports whether colored output should be produced on stdout.
// NO_COLOR (any non-empty value) wins over terminal detection; a dumb
// terminal never gets color.
func ColorEnabled() bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(int(os.Stdout.Fd()))
}

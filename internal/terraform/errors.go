package terraform

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/tfdriver/internal/foundation"
)

// errNotAnObject reports non-object JSON where an object was required.
var errNotAnObject = errors.New("expected a JSON object")

// CommandError reports a subprocess that exited nonzero when the caller
// asked for raising semantics. Captured output is absent (not empty) when
// capture was disabled for the invocation.
type CommandError struct {
	ExitCode int
	Command  string
	Stdout   foundation.Option[string]
	Stderr   foundation.Option[string]
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Command)
	if stderr, ok := e.Stderr.Get(); ok && strings.TrimSpace(stderr) != "" {
		msg += ": " + strings.TrimSpace(stderr)
	}
	return msg
}

// ParseError reports captured output that was requested as JSON but does
// not parse as JSON.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s as JSON: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

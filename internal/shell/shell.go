// Package shell runs the external tools that the emulated network is built
// from: tc, apachectl, pgrep and killall.
package shell

import (
	"context"
	"fmt"
	"strings"
)

type Shell interface {
	CommandExists(string) bool
	ExecCommand(context.Context, ...Option) ([]byte, []byte, error)
}

// ExitError is returned when a command ran and failed. Stderr holds what the
// command printed before failing.
type ExitError struct {
	Cmd    string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %s", e.Cmd, strings.Join(e.Args, " "), msg)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Package shelltest provides a scripted shell.Shell for tests.
package shelltest

import (
	"context"
	"strings"
	"sync"

	"github.com/David-Antunes/netsim/internal/shell"
)

// Result is the scripted outcome of a command line.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Recorder records every command it is asked to run and answers from
// Results, keyed by the full command line. Unknown commands succeed with no
// output.
type Recorder struct {
	mu       sync.Mutex
	Results  map[string]Result
	Missing  map[string]bool
	Commands []string
}

func New() *Recorder {
	return &Recorder{
		Results: make(map[string]Result),
		Missing: make(map[string]bool),
	}
}

// On scripts the result of cmdline.
func (r *Recorder) On(cmdline string, result Result) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Results[cmdline] = result
	return r
}

func (r *Recorder) CommandExists(cmd string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.Missing[cmd]
}

func (r *Recorder) ExecCommand(ctx context.Context, opts ...shell.Option) ([]byte, []byte, error) {
	cmdline := Line(opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, cmdline)
	res := r.Results[cmdline]
	return []byte(res.Stdout), []byte(res.Stderr), res.Err
}

// Executed returns a copy of the recorded command lines.
func (r *Recorder) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Commands...)
}

// Line renders options the way they would be typed.
func Line(opts ...shell.Option) string {
	cmd, args, _ := shell.Inspect(opts...)
	return strings.TrimSpace(cmd + " " + strings.Join(args, " "))
}

var _ shell.Shell = &Recorder{}

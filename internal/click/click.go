// Package click manages the userspace endpoints that give every emulated
// host its address.
package click

import (
	"context"
	"strings"
	"time"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/shell"
)

// Virtualizer is the process that owns the virtual endpoints.
type Virtualizer interface {
	// Running reports whether the endpoint process is alive.
	Running(ctx context.Context) bool

	// Kill terminates the endpoint process.
	Kill(ctx context.Context) error
}

type Click struct {
	shell   shell.Shell
	process string
	grace   time.Duration
	sleep   func(time.Duration)
	log     internal.Logger
}

// New returns a Virtualizer for the processes named process. After a
// successful kill it waits grace for the interfaces to go away.
func New(sh shell.Shell, process string, grace time.Duration, logger internal.Logger) *Click {
	return &Click{
		shell:   sh,
		process: process,
		grace:   grace,
		sleep:   time.Sleep,
		log:     logger,
	}
}

func (c *Click) Running(ctx context.Context) bool {
	out, _, err := c.shell.ExecCommand(ctx, shell.Command("pgrep"), shell.Args("-x", c.process))
	if err != nil {
		// pgrep exits 1 when nothing matches
		c.log.Debugf("pgrep %s: %v", c.process, err)
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

func (c *Click) Kill(ctx context.Context) error {
	_, _, err := c.shell.ExecCommand(ctx, shell.Command("killall"), shell.Args("-9", c.process))
	if err != nil {
		return err
	}
	c.sleep(c.grace)
	return nil
}

// Null is a Virtualizer with no process behind it.
type Null struct{}

func (Null) Running(context.Context) bool { return false }
func (Null) Kill(context.Context) error   { return nil }

var (
	_ Virtualizer = &Click{}
	_ Virtualizer = Null{}
)

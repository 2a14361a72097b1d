package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/David-Antunes/netsim/internal/topology"
	"github.com/peterh/liner"
)

// LinerPrompt asks on the terminal before a manual event runs. One line
// editor serves every prompt of a run, so acknowledgments piped on stdin are
// read one line per event. The prompt cannot be interrupted by ctx; Ctrl-C
// aborts it instead.
type LinerPrompt struct {
	mu    sync.Mutex
	input *liner.State
}

func (p *LinerPrompt) Confirm(ctx context.Context, e topology.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.input == nil {
		p.input = liner.NewLiner()
		p.input.SetCtrlCAborts(true)
	}

	_, err := p.input.Prompt(fmt.Sprintf("Press enter to run event:  %s", e))
	if err == liner.ErrPromptAborted {
		return context.Canceled
	}
	return err
}

// Close restores the terminal. It is a no-op when nothing was asked.
func (p *LinerPrompt) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.input == nil {
		return nil
	}
	err := p.input.Close()
	p.input = nil
	return err
}

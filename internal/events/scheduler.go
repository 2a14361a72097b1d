// Package events replays a script of link events against a running network.
//
// Events run one at a time in script order. A timed event waits for its
// delay, counted from the moment the previous event finished; a manual event
// waits for the operator. Delays are not corrected for drift, so the error
// grows with the number of events and the cost of applying each one.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/topology"
)

// Status is what happened to one event.
type Status int

const (
	Applied Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Outcome struct {
	Event  topology.Event
	Status Status
	Err    error
}

// Sleeper suspends the scheduler between events.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Prompter blocks until the operator lets a manual event run.
type Prompter interface {
	Confirm(ctx context.Context, e topology.Event) error
}

// ApplyFunc applies one event to the network.
type ApplyFunc func(ctx context.Context, e topology.Event) error

type Options struct {
	Sleeper  Sleeper
	Prompter Prompter
	Apply    ApplyFunc
	Logger   internal.Logger
}

// TimerSleeper sleeps on a real timer and wakes up early when ctx is done.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run replays events and returns one outcome per event reached. An invalid
// trigger skips its event without waiting, and a failing event is logged;
// neither stops the run. Run only returns early, with an error, when ctx is
// done or the operator prompt fails.
func Run(ctx context.Context, events []topology.Event, opts Options) ([]Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = internal.NullLogger{}
	}

	outcomes := make([]Outcome, 0, len(events))
	logger.Info("Running link events...")
	for _, e := range events {
		if e.Manual() {
			if err := opts.Prompter.Confirm(ctx, e); err != nil {
				return outcomes, fmt.Errorf("waiting to run %q: %w", e.Line, err)
			}
		} else {
			delay, err := e.Delay()
			if err != nil {
				logger.Warnf("Skipping invalid event: %s", e)
				outcomes = append(outcomes, Outcome{Event: e, Status: Skipped, Err: err})
				continue
			}
			if err := opts.Sleeper.Sleep(ctx, delay); err != nil {
				return outcomes, err
			}
		}

		logger.Infof("Updating link:  %s", e)
		if err := opts.Apply(ctx, e); err != nil {
			logger.Errorf("%v", err)
			outcomes = append(outcomes, Outcome{Event: e, Status: Failed, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Event: e, Status: Applied})
	}
	logger.Info("Done running events.")
	return outcomes, nil
}

// Count returns how many outcomes have the given status.
func Count(outcomes []Outcome, status Status) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

package application

import (
	"fmt"

	"go.uber.org/multierr"
)

// PhaseResult is the outcome of one independently attempted phase.
type PhaseResult struct {
	Name string
	Err  error
}

func (p PhaseResult) OK() bool {
	return p.Err == nil
}

func (p PhaseResult) String() string {
	if p.Err != nil {
		return fmt.Sprintf("%s: failed: %v", p.Name, p.Err)
	}
	return p.Name + ": ok"
}

// BottleneckResult is the outcome of installing one bottleneck line.
type BottleneckResult struct {
	Line string
	Err  error
}

type StartResult struct {
	Shaping     PhaseResult
	Bottlenecks []BottleneckResult
	HTTP        PhaseResult
	Mirror      PhaseResult
}

// BottlenecksApplied counts the bottleneck lines that were installed.
func (r StartResult) BottlenecksApplied() int {
	n := 0
	for _, b := range r.Bottlenecks {
		if b.Err == nil {
			n++
		}
	}
	return n
}

// Err combines every failure of the start sequence, nil when all phases and
// bottlenecks succeeded.
func (r StartResult) Err() error {
	err := multierr.Combine(r.Shaping.Err, r.HTTP.Err, r.Mirror.Err)
	for _, b := range r.Bottlenecks {
		err = multierr.Append(err, b.Err)
	}
	return err
}

type StopResult struct {
	HTTP    PhaseResult
	Shaping PhaseResult
	Mirror  PhaseResult

	// Endpoints and Artifact are best-effort cleanups; their failures are
	// recorded here but never reported by Err.
	Endpoints PhaseResult
	Artifact  PhaseResult
}

func (r StopResult) Err() error {
	return multierr.Combine(r.HTTP.Err, r.Shaping.Err, r.Mirror.Err)
}

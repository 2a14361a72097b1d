package network

import (
	"context"
	"fmt"
)

// Gateway installs, changes, removes and reports the shaping rules of one
// interface. Every call is a single synchronous attempt without retries.
type Gateway interface {
	// Start installs the root discipline and the base class.
	Start(ctx context.Context, req Request) error

	// Update attaches or changes the rule of req.TrafficClass, and steers
	// req.Pair into it when a pair is given.
	Update(ctx context.Context, req Request) error

	// Stop removes the root discipline.
	Stop(ctx context.Context, req Request) error

	// Show returns the raw status of the interface.
	Show(ctx context.Context, req Request) (string, error)
}

// Dispatch routes req to the Gateway method named by req.Command. Only Show
// returns output.
func Dispatch(ctx context.Context, g Gateway, req Request) (string, error) {
	switch req.Command {
	case Start:
		return "", g.Start(ctx, req)
	case Update:
		return "", g.Update(ctx, req)
	case Stop:
		return "", g.Stop(ctx, req)
	case Show:
		return g.Show(ctx, req)
	}
	return "", fmt.Errorf("unknown shaping command %q", req.Command)
}

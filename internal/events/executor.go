package events

import (
	"context"
	"fmt"
	"time"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/topology"
)

// LinkMirror records link changes outside the network, e.g. in a graph.
type LinkMirror interface {
	UpdateLink(ctx context.Context, class int, bandwidth string, latency string) error
}

// Executor applies an event as one shaping update on its traffic class.
type Executor struct {
	Gateway   network.Gateway
	Interface string

	// Log, Mirror and Now are optional.
	Log    *EventLog
	Mirror LinkMirror
	Now    func() time.Time

	Logger internal.Logger
}

func (x *Executor) now() time.Time {
	if x.Now != nil {
		return x.Now()
	}
	return time.Now()
}

func (x *Executor) logger() internal.Logger {
	if x.Logger != nil {
		return x.Logger
	}
	return internal.NullLogger{}
}

// Apply updates the link and then appends the event to the log. Bandwidth and
// latency go to the gateway exactly as written in the script. Once the link
// is updated the event counts as applied, even if the log or the mirror
// could not record it.
func (x *Executor) Apply(ctx context.Context, e topology.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	class, _ := e.TrafficClass()

	req := network.NewRequest(network.Update, x.Interface)
	req.TrafficClass = class
	req.Bandwidth = e.Bandwidth
	req.Latency = e.Latency
	x.logger().Debugf("%s", req)

	if err := x.Gateway.Update(ctx, req); err != nil {
		return fmt.Errorf("update %s: %w", e.LinkRef, err)
	}

	if x.Mirror != nil {
		if err := x.Mirror.UpdateLink(ctx, class, e.Bandwidth, e.Latency); err != nil {
			x.logger().Errorf("graph mirror: %v", err)
		}
	}

	if x.Log != nil {
		if err := x.Log.Append(x.now(), e); err != nil {
			x.logger().Errorf("event log: %v", err)
		}
	}
	return nil
}

// RunScript clears the event log, reads the events of topo and replays them
// through x. A missing events file fails before anything is applied.
func RunScript(ctx context.Context, topo *topology.Topology, x *Executor, opts Options) ([]Outcome, error) {
	if x.Log != nil {
		if err := x.Log.Remove(); err != nil {
			return nil, err
		}
	}
	evs, err := topo.Events()
	if err != nil {
		return nil, err
	}
	opts.Apply = x.Apply
	return Run(ctx, evs, opts)
}

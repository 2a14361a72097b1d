package events

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/topology"
)

// EventLog is the record of applied events, one line per event:
//
//	<unix time> <trigger> <link> <bandwidth kbps> <latency ms>
//
// The file is opened and closed for every line so that it is never held
// open across a sleep.
type EventLog struct {
	Path string
}

func (l *EventLog) Append(at time.Time, e topology.Event) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	_, err = fmt.Fprintf(f, "%f %s %s %s %s\n",
		float64(at.UnixNano())/float64(time.Second),
		e.Trigger,
		e.LinkRef,
		network.BandwidthToKbps(e.Bandwidth),
		network.LatencyToMs(e.Latency),
	)
	if err != nil {
		f.Close()
		return fmt.Errorf("write event log: %w", err)
	}
	return f.Close()
}

// Remove deletes the log so that a run starts from an empty file.
func (l *EventLog) Remove() error {
	err := os.Remove(l.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

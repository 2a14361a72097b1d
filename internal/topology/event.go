package topology

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/David-Antunes/netsim/internal"
)

// Event mutates the bandwidth and latency of one traffic class. Fields that
// are missing from the script line are left empty and rejected when the
// event is executed.
type Event struct {
	Trigger   string
	LinkRef   string
	Bandwidth string
	Latency   string

	// Line is the script line the event was parsed from.
	Line string
}

// ParseEvent splits "trigger linkN bandwidth latency".
func ParseEvent(line string) Event {
	fields := strings.Fields(line)
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Event{
		Trigger:   field(0),
		LinkRef:   field(1),
		Bandwidth: field(2),
		Latency:   field(3),
		Line:      strings.Join(fields, " "),
	}
}

// Manual reports whether the event waits for the operator instead of a delay.
func (e Event) Manual() bool {
	return e.Trigger == internal.ManualGate
}

// maxDelaySeconds is the longest pause a time.Duration can hold.
const maxDelaySeconds = float64(math.MaxInt64) / float64(time.Second)

// Delay is the pause before the event, counted from the end of the previous
// one. Only non-negative numbers of seconds that fit a time.Duration are
// accepted.
func (e Event) Delay() (time.Duration, error) {
	secs, err := strconv.ParseFloat(e.Trigger, 64)
	if err != nil || math.IsNaN(secs) || secs < 0 || secs >= maxDelaySeconds {
		return 0, fmt.Errorf("invalid event trigger %q", e.Trigger)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// TrafficClass parses the link reference of the event.
func (e Event) TrafficClass() (int, error) {
	return ParseTrafficClass(e.LinkRef)
}

// Validate checks the fields needed to apply the event.
func (e Event) Validate() error {
	if _, err := e.TrafficClass(); err != nil {
		return err
	}
	if e.Bandwidth == "" || e.Latency == "" {
		return fmt.Errorf("event %q: missing bandwidth or latency", e.Line)
	}
	return nil
}

func (e Event) String() string {
	return e.Line
}

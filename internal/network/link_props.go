package network

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/David-Antunes/netsim/internal"
)

// Command names the shaping operation a Request is for.
type Command string

const (
	Start  Command = "start"
	Update Command = "update"
	Stop   Command = "stop"
	Show   Command = "show"
)

// IPPair selects the traffic between two hosts, in both directions.
type IPPair struct {
	A string
	B string
}

// Request is one call on a Gateway. It is built fresh for every call.
type Request struct {
	Command      Command
	Pair         *IPPair
	Bandwidth    string
	Latency      string
	Interface    string
	TrafficClass int
}

// NewRequest returns a request carrying the default link: 1000mbit, no added
// latency, traffic class 0. An empty iface selects the loopback interface.
func NewRequest(cmd Command, iface string) Request {
	if iface == "" {
		iface = internal.DefaultInterface
	}
	return Request{
		Command:      cmd,
		Bandwidth:    internal.DefaultBandwidth,
		Latency:      internal.DefaultLatency,
		Interface:    iface,
		TrafficClass: internal.DefaultTrafficClass,
	}
}

func (r Request) String() string {
	pair := "*"
	if r.Pair != nil {
		pair = r.Pair.A + "<->" + r.Pair.B
	}
	return fmt.Sprintf("%s dev %s class %d pair %s bw %s lat %s",
		r.Command, r.Interface, r.TrafficClass, pair, r.Bandwidth, r.Latency)
}

// LinkProps is the numeric view of a bandwidth/latency pair.
type LinkProps struct {
	Bandwidth string
	Latency   string
	Kbps      float64
	Delay     time.Duration
}

// ParseLinkProps checks that bandwidth and latency carry a known unit.
func ParseLinkProps(bandwidth string, latency string) (LinkProps, error) {
	kbps, err := strconv.ParseFloat(BandwidthToKbps(bandwidth), 64)
	if err != nil {
		return LinkProps{}, fmt.Errorf("invalid bandwidth %q", bandwidth)
	}
	ms, err := strconv.ParseFloat(LatencyToMs(latency), 64)
	if err != nil {
		return LinkProps{}, fmt.Errorf("invalid latency %q", latency)
	}
	if kbps <= 0 {
		return LinkProps{}, errors.New("bandwidth must be greater than 0")
	} else if ms < 0 {
		return LinkProps{}, errors.New("latency can't be lower than 0 ms")
	}
	return LinkProps{
		Bandwidth: bandwidth,
		Latency:   latency,
		Kbps:      kbps,
		Delay:     time.Duration(ms * float64(time.Millisecond)),
	}, nil
}

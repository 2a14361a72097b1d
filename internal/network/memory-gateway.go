package network

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryLink struct {
	props   LinkProps
	pairs   []IPPair
	limiter *rate.Limiter
}

// MemoryGateway keeps the shaping state in process instead of the kernel.
// Each traffic class is modelled by a token bucket paced one packet at a time
// at the class bandwidth. It backs dry runs and tests.
type MemoryGateway struct {
	mu      sync.Mutex
	started bool
	iface   string
	links   map[int]*memoryLink
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		links: make(map[int]*memoryLink),
	}
}

func newLimiter(props LinkProps) *rate.Limiter {
	bytesPerSecond := props.Kbps * 1000 / 8
	perPacket := time.Duration(float64(time.Second) * PacketSize / bytesPerSecond)
	return rate.NewLimiter(rate.Every(perPacket), 1)
}

func (g *MemoryGateway) Start(_ context.Context, req Request) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return fmt.Errorf("root discipline already installed on %s", g.iface)
	}
	g.started = true
	g.iface = req.Interface
	return nil
}

func (g *MemoryGateway) Update(_ context.Context, req Request) error {
	props, err := ParseLinkProps(req.Bandwidth, req.Latency)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started || g.iface != req.Interface {
		return fmt.Errorf("no root discipline on %s", req.Interface)
	}

	link, ok := g.links[req.TrafficClass]
	if !ok {
		link = &memoryLink{}
		g.links[req.TrafficClass] = link
	}
	link.props = props
	link.limiter = newLimiter(props)
	if req.Pair != nil {
		link.pairs = append(link.pairs, *req.Pair)
	}
	return nil
}

func (g *MemoryGateway) Stop(_ context.Context, req Request) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return fmt.Errorf("no root discipline on %s", req.Interface)
	}
	g.started = false
	g.links = make(map[int]*memoryLink)
	return nil
}

// Show renders the state in the shape of `tc qdisc show`.
func (g *MemoryGateway) Show(_ context.Context, req Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started || g.iface != req.Interface {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "qdisc %s %s root refcnt 2 r2q 10 default 0x1\n", RootDiscipline, RootHandle)
	for _, class := range g.classes() {
		link := g.links[class]
		fmt.Fprintf(&b, "qdisc netem %s parent %s limit %d delay %s rate %s\n",
			NetemHandle(class), Classid(class), netemLimit, link.props.Delay, link.props.Bandwidth)
	}
	return b.String(), nil
}

func (g *MemoryGateway) classes() []int {
	classes := make([]int, 0, len(g.links))
	for class := range g.links {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}

// Props returns the current shaping of a traffic class.
func (g *MemoryGateway) Props(trafficClass int) (LinkProps, []IPPair, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	link, ok := g.links[trafficClass]
	if !ok {
		return LinkProps{}, nil, false
	}
	return link.props, append([]IPPair(nil), link.pairs...), true
}

// Transit reports how long a packet sent now on the traffic class takes to
// come out of the link: the time spent waiting for a token plus the latency.
func (g *MemoryGateway) Transit(trafficClass int, now time.Time) (time.Duration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	link, ok := g.links[trafficClass]
	if !ok {
		return 0, fmt.Errorf("traffic class %d is not shaped", trafficClass)
	}
	r := link.limiter.ReserveN(now, 1)
	return r.DelayFrom(now) + link.props.Delay, nil
}

// Pacing reports the Transit of one packet sent now on every shaped class.
func (g *MemoryGateway) Pacing(now time.Time) map[int]time.Duration {
	g.mu.Lock()
	classes := g.classes()
	g.mu.Unlock()

	pacing := make(map[int]time.Duration, len(classes))
	for _, class := range classes {
		if d, err := g.Transit(class, now); err == nil {
			pacing[class] = d
		}
	}
	return pacing
}

var _ Gateway = &MemoryGateway{}

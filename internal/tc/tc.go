// Package tc shapes traffic with the Linux tc tool. An htb root holds one
// class per traffic class, each class delays its packets with netem, and u32
// filters steer host pairs into their class.
package tc

import (
	"context"
	"strings"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/shell"
)

const filterPrio = "1"

type Gateway struct {
	shell  shell.Shell
	binary string
	log    internal.Logger
}

// New returns a Gateway running binary (usually "tc") through sh.
func New(sh shell.Shell, binary string, logger internal.Logger) *Gateway {
	if binary == "" {
		binary = "tc"
	}
	return &Gateway{
		shell:  sh,
		binary: binary,
		log:    logger,
	}
}

// Execute a tc command
func (g *Gateway) tcCmd(ctx context.Context, args ...string) (string, error) {
	g.log.Debugf("received tc command %v", args)
	out, _, err := g.shell.ExecCommand(ctx, shell.Command(g.binary), shell.Args(args...))
	return string(out), err
}

func (g *Gateway) Start(ctx context.Context, req network.Request) error {
	_, err := g.tcCmd(ctx,
		"qdisc", "add", "dev", req.Interface,
		"root", "handle", network.RootHandle, network.RootDiscipline, "default", "1",
	)
	if err != nil {
		return err
	}
	_, err = g.tcCmd(ctx,
		"class", "add", "dev", req.Interface,
		"parent", network.RootHandle, "classid", network.DefaultClass,
		network.RootDiscipline, "rate", req.Bandwidth,
	)
	return err
}

func (g *Gateway) Update(ctx context.Context, req network.Request) error {
	classid := network.Classid(req.TrafficClass)

	_, err := g.tcCmd(ctx,
		"class", "replace", "dev", req.Interface,
		"parent", network.RootHandle, "classid", classid,
		network.RootDiscipline, "rate", req.Bandwidth, "ceil", req.Bandwidth,
	)
	if err != nil {
		return err
	}

	_, err = g.tcCmd(ctx,
		"qdisc", "replace", "dev", req.Interface,
		"parent", classid, "handle", network.NetemHandle(req.TrafficClass),
		"netem", "limit", "1000", "delay", req.Latency,
	)
	if err != nil {
		return err
	}

	if req.Pair == nil {
		return nil
	}

	// loopback carries both directions on the same egress
	for _, dir := range [][2]string{{req.Pair.A, req.Pair.B}, {req.Pair.B, req.Pair.A}} {
		_, err = g.tcCmd(ctx,
			"filter", "add", "dev", req.Interface,
			"protocol", "ip", "parent", network.RootHandle, "prio", filterPrio,
			"u32", "match", "ip", "src", hostPrefix(dir[0]), "match", "ip", "dst", hostPrefix(dir[1]),
			"flowid", classid,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) Stop(ctx context.Context, req network.Request) error {
	_, err := g.tcCmd(ctx, "qdisc", "del", "dev", req.Interface, "root")
	return err
}

func (g *Gateway) Show(ctx context.Context, req network.Request) (string, error) {
	return g.tcCmd(ctx, "qdisc", "show", "dev", req.Interface)
}

func hostPrefix(ip string) string {
	if strings.Contains(ip, "/") {
		return ip
	}
	return ip + "/32"
}

var _ network.Gateway = &Gateway{}

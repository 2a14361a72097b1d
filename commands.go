package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/apache"
	"github.com/David-Antunes/netsim/internal/application"
	"github.com/David-Antunes/netsim/internal/click"
	"github.com/David-Antunes/netsim/internal/config"
	"github.com/David-Antunes/netsim/internal/events"
	"github.com/David-Antunes/netsim/internal/graphDB"
	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/shell"
	"github.com/David-Antunes/netsim/internal/tc"
	"github.com/David-Antunes/netsim/internal/topology"
	"github.com/fatih/color"
)

type netsim struct {
	cfg  config.Config
	log  internal.Logger
	out  io.Writer
	topo *topology.Topology

	gateway    network.Gateway
	controller *application.Controller
	mirror     *graphDB.Mirror

	sleeper  events.Sleeper
	prompter events.Prompter
}

var commandNames = []string{"start", "stop", "restart", "run", "checkstopnetsim", "buildclick", "status"}

var commands = map[string]func(*netsim, context.Context) error{
	"start":           (*netsim).start,
	"stop":            (*netsim).stop,
	"restart":         (*netsim).restart,
	"run":             (*netsim).run,
	"checkstopnetsim": (*netsim).checkStop,
	"buildclick":      (*netsim).buildClick,
	"status":          (*netsim).status,
}

// setup wires the collaborators for one invocation. A graph database that
// cannot be reached only disables the mirror.
func setup(ctx context.Context, cfg config.Config, logger internal.Logger, dir string, out io.Writer) *netsim {
	ns := &netsim{
		cfg:      cfg,
		log:      logger,
		out:      out,
		topo:     topology.New(dir, string(cfg.Events)),
		sleeper:  events.TimerSleeper{},
		prompter: &events.LinerPrompt{},
	}

	opts := application.Options{
		Interface: cfg.Interface,
		ClickConf: string(cfg.ClickConf),
		Logger:    logger,
	}
	if cfg.DryRun {
		logger.Warn("Dry run, the host is left untouched")
		ns.gateway = network.NewMemoryGateway()
		opts.Fleet = apache.Null{}
		opts.Virtualizer = click.Null{}
	} else {
		ns.gateway = tc.New(shell.DefaultShell, cfg.TC, logger)
		opts.Fleet = apache.New(shell.DefaultShell, apache.Options{
			Ctl:      cfg.ApacheCtl,
			ConfPath: string(cfg.ApacheConf),
			DocRoot:  string(cfg.ApacheDocRoot),
			Port:     cfg.ApachePort,
		}, logger)
		opts.Virtualizer = click.New(shell.DefaultShell, cfg.ClickProcess, cfg.KillGrace, logger)

		for _, bin := range []string{cfg.TC, cfg.ApacheCtl, "pgrep", "killall"} {
			if !shell.CommandExists(bin) {
				logger.Warnf("%s not found in PATH", bin)
			}
		}
	}
	opts.Gateway = ns.gateway

	if cfg.GraphDB != "" && !cfg.DryRun {
		uri := cfg.GraphDB
		if !strings.Contains(uri, "://") {
			uri = "neo4j://" + uri
		}
		m, err := graphDB.Connect(ctx, uri, cfg.GraphDBUser, cfg.GraphDBPassword)
		if err != nil {
			logger.Errorf("graph mirror disabled: %v", err)
		} else {
			ns.mirror = m
			opts.Mirror = m
		}
	}

	ns.controller = application.NewController(opts)
	return ns
}

func (ns *netsim) close(ctx context.Context) {
	if ns.mirror == nil {
		return
	}
	if err := ns.mirror.Close(ctx); err != nil {
		ns.log.Debugf("closing graph mirror: %v", err)
	}
}

// plan loads every file start needs, so that a missing one fails before the
// network is touched.
func (ns *netsim) plan() (application.StartPlan, error) {
	bottlenecks, err := ns.topo.Bottlenecks()
	if err != nil {
		return application.StartPlan{}, err
	}
	servers, err := ns.topo.Servers()
	if err != nil {
		return application.StartPlan{}, err
	}
	return application.StartPlan{Servers: servers, Bottlenecks: bottlenecks}, nil
}

func (ns *netsim) reportStart(ctx context.Context, res application.StartResult) {
	ns.log.Debugf("%d of %d bottlenecks installed", res.BottlenecksApplied(), len(res.Bottlenecks))
	ns.reportPacing(ctx)
}

// reportPacing shows the in-memory model of a dry run: the shaping state and
// how long one packet takes to cross every shaped link.
func (ns *netsim) reportPacing(ctx context.Context) {
	g, ok := ns.gateway.(*network.MemoryGateway)
	if !ok {
		return
	}
	out, _ := ns.gateway.Show(ctx, network.NewRequest(network.Show, ns.cfg.Interface))
	ns.log.Debugf("shaping state:\n%s", out)

	pacing := g.Pacing(time.Now())
	classes := make([]int, 0, len(pacing))
	for class := range pacing {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	for _, class := range classes {
		ns.log.Infof("link%d: %v per %d-byte packet", class, pacing[class], network.PacketSize)
	}
}

func (ns *netsim) start(ctx context.Context) error {
	plan, err := ns.plan()
	if err != nil {
		return err
	}
	ns.reportStart(ctx, ns.controller.Start(ctx, plan))
	return nil
}

func (ns *netsim) stop(ctx context.Context) error {
	servers, err := ns.topo.Servers()
	if err != nil {
		return err
	}
	ns.controller.Stop(ctx, servers)
	return nil
}

func (ns *netsim) restart(ctx context.Context) error {
	plan, err := ns.plan()
	if err != nil {
		return err
	}
	_, started := ns.controller.Restart(ctx, plan)
	ns.reportStart(ctx, started)
	return nil
}

func (ns *netsim) run(ctx context.Context) error {
	if _, err := ns.topo.Path(topology.Events); err != nil {
		return err
	}

	if ns.cfg.DryRun {
		// The in-memory gateway keeps nothing from an earlier start.
		if err := ns.gateway.Start(ctx, network.NewRequest(network.Start, ns.cfg.Interface)); err != nil {
			return err
		}
	}

	x := &events.Executor{
		Gateway:   ns.gateway,
		Interface: ns.cfg.Interface,
		Logger:    ns.log,
	}
	if ns.cfg.Log != "" {
		x.Log = &events.EventLog{Path: string(ns.cfg.Log)}
	}
	if ns.mirror != nil {
		x.Mirror = ns.mirror
	}

	if c, ok := ns.prompter.(io.Closer); ok {
		defer c.Close()
	}

	outcomes, err := events.RunScript(ctx, ns.topo, x, events.Options{
		Sleeper:  ns.sleeper,
		Prompter: ns.prompter,
		Logger:   ns.log,
	})
	if errors.Is(err, topology.ErrNotFound) {
		return err
	}
	if err != nil {
		ns.log.Warnf("Event run interrupted: %v", err)
	}
	ns.log.Debugf("%d applied, %d skipped, %d failed",
		events.Count(outcomes, events.Applied),
		events.Count(outcomes, events.Skipped),
		events.Count(outcomes, events.Failed))
	ns.reportPacing(ctx)
	return nil
}

func (ns *netsim) checkStop(ctx context.Context) error {
	_, _, err := ns.controller.CheckStop(ctx, ns.topo.Servers)
	return err
}

func (ns *netsim) buildClick(ctx context.Context) error {
	servers, err := ns.topo.Servers()
	if err != nil {
		return err
	}
	clients, err := ns.topo.Clients()
	if err != nil {
		return err
	}
	dns, err := ns.topo.DNS()
	if err != nil {
		return err
	}
	return ns.controller.BuildClick(servers, clients, dns)
}

func (ns *netsim) status(ctx context.Context) error {
	var (
		up   = color.New(color.FgGreen).SprintFunc()
		down = color.New(color.FgRed).SprintFunc()
	)
	state := func(running bool) string {
		if running {
			return up("running")
		}
		return down("stopped")
	}

	s := ns.controller.Signals(ctx)
	fmt.Fprintf(ns.out, "endpoints  %s\n", state(s.Endpoints))
	fmt.Fprintf(ns.out, "shaping    %s\n", state(s.Shaping))
	fmt.Fprintf(ns.out, "apache     %s\n", state(s.HTTP))
	fmt.Fprintf(ns.out, "network    %s\n", state(s.Any()))
	return nil
}

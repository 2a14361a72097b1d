// Package application drives the emulated network through its lifecycle.
// Every phase talks to one collaborator and is attempted regardless of how
// the others went, so a failing collaborator never leaves the rest of the
// network unconfigured.
package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/apache"
	"github.com/David-Antunes/netsim/internal/click"
	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/topology"
)

// Mirror receives a copy of the topology the network was started with.
type Mirror interface {
	Publish(ctx context.Context, servers []string, bottlenecks []topology.Bottleneck) error
	Clear(ctx context.Context) error
}

type Options struct {
	Gateway     network.Gateway
	Fleet       apache.Fleet
	Virtualizer click.Virtualizer

	// Mirror is optional.
	Mirror Mirror

	// Interface is the shaped interface, loopback when empty.
	Interface string

	// ClickConf is the endpoint configuration artifact.
	ClickConf string

	Logger internal.Logger
}

type Controller struct {
	gateway     network.Gateway
	fleet       apache.Fleet
	virtualizer click.Virtualizer
	mirror      Mirror
	iface       string
	clickConf   string
	log         internal.Logger
}

func NewController(opts Options) *Controller {
	if opts.ClickConf == "" {
		opts.ClickConf = internal.ClickConf
	}
	if opts.Logger == nil {
		opts.Logger = internal.NullLogger{}
	}
	return &Controller{
		gateway:     opts.Gateway,
		fleet:       opts.Fleet,
		virtualizer: opts.Virtualizer,
		mirror:      opts.Mirror,
		iface:       opts.Interface,
		clickConf:   opts.ClickConf,
		log:         opts.Logger,
	}
}

// StartPlan is the part of the topology that start installs.
type StartPlan struct {
	Servers     []string
	Bottlenecks []topology.BottleneckLine
}

// Signals are the three independent hints that a network is up.
type Signals struct {
	Endpoints bool
	Shaping   bool
	HTTP      bool
}

// Any is the running policy: one live signal is enough.
func (s Signals) Any() bool {
	return s.Endpoints || s.Shaping || s.HTTP
}

func (app *Controller) request(cmd network.Command) network.Request {
	return network.NewRequest(cmd, app.iface)
}

// shaping sends one request to the gateway.
func (app *Controller) shaping(ctx context.Context, req network.Request) (string, error) {
	return network.Dispatch(ctx, app.gateway, req)
}

func (app *Controller) Signals(ctx context.Context) Signals {
	return Signals{
		Endpoints: app.virtualizer.Running(ctx),
		Shaping:   app.shapingConfigured(ctx),
		HTTP:      app.fleet.Configured(ctx),
	}
}

// shapingConfigured reports whether a root discipline is attached.
func (app *Controller) shapingConfigured(ctx context.Context) bool {
	out, err := app.shaping(ctx, app.request(network.Show))
	if err != nil {
		app.log.Debugf("show shaping: %v", err)
		return false
	}
	return strings.Contains(out, network.RootDiscipline)
}

func (app *Controller) NetworkRunning(ctx context.Context) bool {
	return app.Signals(ctx).Any()
}

// phase runs fn and turns a failure, or a panic, into a logged result.
func (app *Controller) phase(name string, fn func() error) (res PhaseResult) {
	res.Name = name
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%s: panic: %v", name, r)
			app.log.Error(res.Err.Error())
		}
	}()
	if err := fn(); err != nil {
		res.Err = err
		app.log.Errorf("%s: %v", name, err)
	}
	return res
}

func (app *Controller) Start(ctx context.Context, plan StartPlan) StartResult {
	var res StartResult
	app.log.Info("Starting simulated network...")

	app.log.Info("Enabling traffic shaping...")
	res.Shaping = app.phase("traffic shaping", func() error {
		_, err := app.shaping(ctx, app.request(network.Start))
		return err
	})
	if res.Shaping.OK() {
		res.Bottlenecks = app.installFilters(ctx, plan.Bottlenecks)
	}

	app.log.Info("Configuring apache...")
	res.HTTP = app.phase("apache", func() error {
		if err := app.fleet.Configure(ctx, plan.Servers); err != nil {
			return err
		}
		return app.fleet.Restart(ctx)
	})

	if app.mirror != nil {
		res.Mirror = app.phase("graph mirror", func() error {
			var bottlenecks []topology.Bottleneck
			for _, line := range plan.Bottlenecks {
				if line.Err == nil {
					bottlenecks = append(bottlenecks, line.Bottleneck)
				}
			}
			return app.mirror.Publish(ctx, plan.Servers, bottlenecks)
		})
	}

	app.log.Info("Network started.")
	return res
}

// installFilters applies every bottleneck line on its own: a bad line or a
// failed update is logged and the next line is still installed.
func (app *Controller) installFilters(ctx context.Context, lines []topology.BottleneckLine) []BottleneckResult {
	results := make([]BottleneckResult, 0, len(lines))
	for _, line := range lines {
		if line.Err != nil {
			app.log.Errorf("skipping bottleneck: %v", line.Err)
			results = append(results, BottleneckResult{Line: line.Text, Err: line.Err})
			continue
		}
		req := app.request(network.Update)
		req.Pair = &network.IPPair{A: line.Bottleneck.From, B: line.Bottleneck.To}
		req.TrafficClass = line.Bottleneck.Class
		app.log.Debugf("installing bottleneck %s", req)

		res := app.phase("bottleneck "+line.Text, func() error {
			_, err := app.shaping(ctx, req)
			return err
		})
		results = append(results, BottleneckResult{Line: line.Text, Err: res.Err})
	}
	return results
}

func (app *Controller) Stop(ctx context.Context, servers []string) StopResult {
	var res StopResult
	app.log.Info("Stopping simulated network...")

	app.log.Info("Stopping apache...")
	res.HTTP = app.phase("apache", func() error {
		if err := app.fleet.Reset(ctx, servers); err != nil {
			return err
		}
		return app.fleet.Restart(ctx)
	})

	app.log.Info("Disabling traffic shaping...")
	res.Shaping = app.phase("traffic shaping", func() error {
		_, err := app.shaping(ctx, app.request(network.Stop))
		return err
	})

	app.log.Info("Destroying network interfaces...")
	res.Endpoints = PhaseResult{Name: "endpoints", Err: app.virtualizer.Kill(ctx)}
	if res.Endpoints.Err != nil {
		app.log.Debugf("endpoints: %v", res.Endpoints.Err)
	}
	res.Artifact = PhaseResult{Name: "endpoint config", Err: click.RemoveConfig(app.clickConf)}
	if res.Artifact.Err != nil {
		app.log.Debugf("endpoint config: %v", res.Artifact.Err)
	}

	if app.mirror != nil {
		res.Mirror = app.phase("graph mirror", func() error {
			return app.mirror.Clear(ctx)
		})
	}

	app.log.Info("Network stopped.")
	return res
}

// Restart stops the network and starts it again from plan. Nothing observed
// while stopping is carried over.
func (app *Controller) Restart(ctx context.Context, plan StartPlan) (StopResult, StartResult) {
	stopped := app.Stop(ctx, plan.Servers)
	return stopped, app.Start(ctx, plan)
}

// CheckStop stops the network only when it looks like it is running. The
// server list is loaded lazily, so a stopped network needs no topology.
func (app *Controller) CheckStop(ctx context.Context, servers func() ([]string, error)) (bool, StopResult, error) {
	if !app.NetworkRunning(ctx) {
		return false, StopResult{}, nil
	}
	list, err := servers()
	if err != nil {
		return true, StopResult{}, err
	}
	app.log.Info("Stopping netsim...")
	return true, app.Stop(ctx, list), nil
}

// BuildClick writes the endpoint configuration for every host.
func (app *Controller) BuildClick(servers, clients, dns []string) error {
	app.log.Debugf("Autogenerating %s from %d servers, %d clients and %d dns hosts",
		app.clickConf, len(servers), len(clients), len(dns))
	return click.WriteConfig(app.clickConf, servers, clients, dns)
}

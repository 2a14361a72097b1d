// Package apache serves HTTP from every emulated server address with a
// single Apache instance: one Listen directive and one virtual host per
// server, kept in a generated configuration file.
package apache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/shell"
)

// Fleet is the set of HTTP servers behind the emulated server addresses.
type Fleet interface {
	// Configure makes every server address serve HTTP on the next restart.
	Configure(ctx context.Context, servers []string) error

	// Reset undoes Configure.
	Reset(ctx context.Context, servers []string) error

	// Restart reloads the configuration.
	Restart(ctx context.Context) error

	// Configured reports whether the fleet configuration is in place.
	Configured(ctx context.Context) bool
}

var confTemplate = template.Must(template.New("netsim.conf").Parse(
	`# This file is autogenerated. Do not hand edit.
{{- range .Servers}}
Listen {{.}}:{{$.Port}}
{{- end}}
{{range .Servers}}
<VirtualHost {{.}}:{{$.Port}}>
    DocumentRoot {{$.DocRoot}}
</VirtualHost>
{{end -}}
`))

type Apache struct {
	shell    shell.Shell
	ctl      string
	confPath string
	docRoot  string
	port     int
	log      internal.Logger
}

type Options struct {
	Ctl      string
	ConfPath string
	DocRoot  string
	Port     int
}

func New(sh shell.Shell, opts Options, logger internal.Logger) *Apache {
	if opts.Ctl == "" {
		opts.Ctl = "apachectl"
	}
	if opts.Port == 0 {
		opts.Port = 80
	}
	return &Apache{
		shell:    sh,
		ctl:      opts.Ctl,
		confPath: opts.ConfPath,
		docRoot:  opts.DocRoot,
		port:     opts.Port,
		log:      logger,
	}
}

func (a *Apache) Configure(ctx context.Context, servers []string) error {
	f, err := os.Create(a.confPath)
	if err != nil {
		return fmt.Errorf("configure apache: %w", err)
	}
	err = confTemplate.Execute(f, struct {
		Servers []string
		Port    int
		DocRoot string
	}{servers, a.port, a.docRoot})
	if err != nil {
		f.Close()
		return fmt.Errorf("configure apache: %w", err)
	}
	a.log.Debugf("wrote %s for %d servers", a.confPath, len(servers))
	return f.Close()
}

func (a *Apache) Reset(ctx context.Context, servers []string) error {
	err := os.Remove(a.confPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset apache: %w", err)
	}
	a.log.Debugf("removed %s (%d servers)", a.confPath, len(servers))
	return nil
}

func (a *Apache) Restart(ctx context.Context) error {
	a.log.Debugf("%s restart", a.ctl)
	_, _, err := a.shell.ExecCommand(ctx, shell.Command(a.ctl), shell.Args("restart"))
	return err
}

func (a *Apache) Configured(ctx context.Context) bool {
	info, err := os.Stat(a.confPath)
	return err == nil && !info.IsDir()
}

// Null is a Fleet that serves nothing.
type Null struct{}

func (Null) Configure(context.Context, []string) error { return nil }
func (Null) Reset(context.Context, []string) error     { return nil }
func (Null) Restart(context.Context) error             { return nil }
func (Null) Configured(context.Context) bool           { return false }

var (
	_ Fleet = &Apache{}
	_ Fleet = Null{}
)

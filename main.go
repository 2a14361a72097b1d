package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/David-Antunes/netsim/internal"
	"github.com/David-Antunes/netsim/internal/config"
	"github.com/David-Antunes/netsim/internal/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netsim <topology> <command>",
		Short: "Launch a simulated network.",
		Long: `Launch a simulated network.

<topology> is the directory containing the topology files (topo.clients,
topo.servers, topo.dns, topo.bottlenecks, topo.events, where topo is the
name of the directory).

<command> is one of: ` + strings.Join(commandNames, ", "),
		Args: cobra.MatchAll(cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
			if _, ok := commands[args[1]]; !ok {
				return fmt.Errorf("invalid command %q (choose from %s)", args[1], strings.Join(commandNames, ", "))
			}
			return nil
		}),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, v.GetString("config"))
			if err != nil {
				return err
			}

			logger := internal.NewLogger(cmd.ErrOrStderr(), cfg.Quiet, cfg.Verbose)
			daemon.PrintSettings(logger, v.AllSettings(), "graphdb_password")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			ctx = daemon.CancelContext(ctx)
			ns := setup(ctx, cfg, logger, args[0], cmd.OutOrStdout())
			defer ns.close(ctx)

			return commands[args[1]](ns, ctx)
		},
	}

	addFlags(cmd.Flags())
	v.BindPFlags(cmd.Flags())

	return cmd
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringP("log", "l", "", "log file for logging events (overwrites file if it already exists)")
	flags.StringP("events", "e", "", "custom events file to use in place of the one in the topology directory")
	flags.BoolP("quiet", "q", false, "only print warnings and errors")
	flags.BoolP("verbose", "v", false, "print debug info, --quiet wins if both are present")
	flags.String("config", "", "config file (default ./"+config.DefaultFile+" when present)")
	flags.Bool("dry-run", false, "model the network in memory instead of touching the host")
}

func main() {
	if err := newRootCmd(viper.GetViper()).Execute(); err != nil {
		os.Exit(1)
	}
}

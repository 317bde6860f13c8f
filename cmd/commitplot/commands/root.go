// Package commands implements the commitplot subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/config"
	"github.com/Sumatoshi-tech/commitplot/pkg/observability"
	"github.com/Sumatoshi-tech/commitplot/pkg/report"
	"github.com/Sumatoshi-tech/commitplot/pkg/version"
)

const rootLong = `commitplot plots a repository's commit history as a scatterplot: one
circle per commit, placed by date and time of day, sized by lines changed.

Commands:
  render    Write the HTML dashboard
  stats     Print the statistics as tables
  replay    Apply a gesture script and report the final state
  export    Write the snapshot as JSON`

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	metricsOut string
	verbose    bool
	quiet      bool
	noColor    bool
	logJSON    bool
}

// app carries what a subcommand needs once the root has set up.
type app struct {
	flags     globalFlags
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.EngineMetrics
	logger    *slog.Logger
	printer   *report.Printer
}

// Execute runs the CLI with args and flushes telemetry before returning.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	runErr := root.ExecuteContext(ctx)

	return errors.Join(runErr, a.close(ctx))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "commitplot",
		Short:         "Commit history scatterplot",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default .commitplot.yaml in . or $HOME)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "suppress output")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&a.flags.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile on exit")

	root.AddCommand(
		newRenderCommand(a),
		newStatsCommand(a),
		newReplayCommand(a),
		newExportCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.flags.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(a.flags.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg

	obsCfg, err := cfg.Observability()
	if err != nil {
		return err
	}

	obsCfg.ServiceVersion = version.Version
	obsCfg.Prometheus = a.flags.metricsOut != ""
	obsCfg.LogJSON = obsCfg.LogJSON || a.flags.logJSON
	obsCfg.LogOutput = cmd.ErrOrStderr()

	switch {
	case a.flags.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case a.flags.quiet:
		obsCfg.LogLevel = slog.LevelWarn
	}

	if cmd.Name() == replayCmdName {
		obsCfg.Mode = observability.ModeReplay
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.providers = providers
	a.logger = providers.Logger

	a.metrics, err = observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	a.printer = report.NewPrinter(cmd.ErrOrStderr(), a.flags.quiet, a.flags.noColor)

	return nil
}

// close writes the metrics textfile and flushes telemetry. It is safe to
// call when setup never ran.
func (a *app) close(ctx context.Context) error {
	if a.providers.Shutdown == nil {
		return nil
	}

	var textErr error

	if a.flags.metricsOut != "" {
		textErr = observability.WriteTextfile(a.flags.metricsOut, a.providers.Registry)
	}

	return errors.Join(textErr, a.providers.Shutdown(ctx))
}

package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/report"
	"github.com/Sumatoshi-tech/commitplot/pkg/session"
)

const replayCmdName = "replay"

// ErrNoScript is returned when the --script flag is not set.
var ErrNoScript = errors.New("gesture script is required (use --script)")

func newReplayCommand(a *app) *cobra.Command {
	var (
		scriptPath string
		exportPath string
		inferTypes bool
	)

	cmd := &cobra.Command{
		Use:   replayCmdName + " <log.csv|->",
		Short: "Apply a gesture script and report the final state",
		Long: `Replay a YAML or JSON gesture script against a change log. Every gesture
is applied in order exactly as the interactive page would; rejected gestures
are counted and leave the state unchanged.`,
		Example: `  commitplot replay lines.csv --script gestures.yaml
  commitplot replay lines.csv --script gestures.yaml --export final.json.lz4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return ErrNoScript
			}

			ctx := cmd.Context()

			script, err := session.LoadScript(scriptPath)
			if err != nil {
				return err
			}

			data, err := a.load(ctx, args[0], inferTypes)
			if err != nil {
				return err
			}

			step := 0
			sink := session.SinkFunc(func(ctx context.Context, snap filter.Snapshot) error {
				step++
				a.logger.DebugContext(ctx, "gesture applied",
					"step", step, "progress", snap.TimeProgress, "visible", len(snap.Points), "selection", snap.SelectionText)

				return nil
			})

			rep, err := session.New(data.manager, sink, a.logger).Replay(ctx, script)
			if err != nil {
				return err
			}

			a.printer.Info("replayed %q: %d applied, %d rejected", script.Name, rep.Applied, rep.Rejected)

			if err = report.WriteTable(cmd.OutOrStdout(), rep.Final, report.TableOptions{}); err != nil {
				return err
			}

			if exportPath == "" {
				return nil
			}

			if err = report.SaveJSON(exportPath, rep.Final, false); err != nil {
				return err
			}

			a.printer.Success("wrote %s", exportPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "gesture script (YAML or JSON)")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the final snapshot as JSON (lz4 framed when the name ends in .lz4)")
	cmd.Flags().BoolVar(&inferTypes, "infer-types", false, "detect the language of untyped lines from the file extension")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/report"
	"github.com/Sumatoshi-tech/commitplot/pkg/session"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		view     viewFlags
		output   string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "export <log.csv|->",
		Short: "Write the snapshot for a change log as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := a.load(ctx, args[0], view.inferTypes)
			if err != nil {
				return err
			}

			sess := session.New(data.manager, nil, a.logger)

			if err = a.apply(ctx, sess, &view); err != nil {
				return err
			}

			snap := data.manager.Snapshot()

			if output == stdoutPath {
				return report.ExportJSON(cmd.OutOrStdout(), snap, compress)
			}

			if err = report.SaveJSON(output, snap, compress); err != nil {
				return err
			}

			a.printer.Success("wrote %s", output)

			return nil
		},
	}

	view.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", stdoutPath, "output file (- for stdout)")
	cmd.Flags().BoolVar(&compress, "lz4", false, "wrap the JSON in an lz4 frame")

	return cmd
}

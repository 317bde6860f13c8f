package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/report"
	"github.com/Sumatoshi-tech/commitplot/pkg/session"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		view     viewFlags
		maxFiles int
	)

	cmd := &cobra.Command{
		Use:   "stats <log.csv|->",
		Short: "Print commit statistics as terminal tables",
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

			return report.WriteTable(cmd.OutOrStdout(), data.manager.Snapshot(), report.TableOptions{MaxFiles: maxFiles})
		},
	}

	view.register(cmd)
	cmd.Flags().IntVar(&maxFiles, "files", report.DefaultMaxFiles, "number of files to list (negative hides the list)")

	return cmd
}

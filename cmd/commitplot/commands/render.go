package commands

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/plotpage"
	"github.com/Sumatoshi-tech/commitplot/pkg/session"
)

// ErrNoOutput is returned when the --output flag is not set.
var ErrNoOutput = errors.New("output file is required (use --output)")

func newRenderCommand(a *app) *cobra.Command {
	var (
		view   viewFlags
		output string
		theme  string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "render <log.csv|->",
		Short: "Write the HTML dashboard for a change log",
		Example: `  commitplot render lines.csv -o history.html
  commitplot render lines.csv -o history.html --progress 40 --region 100,0,300,200 --theme light`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}

			ctx := cmd.Context()

			data, err := a.load(ctx, args[0], view.inferTypes)
			if err != nil {
				return err
			}

			sess := session.New(data.manager, nil, a.logger)

			if err = a.apply(ctx, sess, &view); err != nil {
				return err
			}

			meta := plotpage.Meta{
				Title:    a.cfg.Render.Title,
				Source:   filepath.Base(data.source),
				Geometry: a.cfg.Geometry(),
				Skipped:  data.result.Skipped(),
			}

			if title != "" {
				meta.Title = title
			}

			meta.Theme, err = a.cfg.Theme()
			if theme != "" {
				meta.Theme, err = plotpage.ParseTheme(theme)
			}

			if err != nil {
				return err
			}

			page := plotpage.Dashboard(data.manager.Snapshot(), meta)

			err = writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return page.Render(w)
			})
			if err != nil {
				return err
			}

			a.printer.Success("wrote %s", output)

			return nil
		},
	}

	view.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file (- for stdout)")
	cmd.Flags().StringVar(&theme, "theme", "", "dark or light (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "page title (default from config)")

	return cmd
}

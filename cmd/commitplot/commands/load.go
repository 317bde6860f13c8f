package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
	"github.com/Sumatoshi-tech/commitplot/pkg/session"
)

const (
	stdoutPath = "-"
	outputPerm = 0o644
)

// loaded is a parsed change log and the manager over it.
type loaded struct {
	source  string
	result  *linelog.Result
	manager *filter.Manager
}

// load parses the change log at path and builds the commit store and filter
// manager. An empty dataset is reported but not fatal.
func (a *app) load(ctx context.Context, path string, inferTypes bool) (*loaded, error) {
	res, err := linelog.Load(ctx, path, linelog.Options{
		InferTypes: inferTypes || a.cfg.Ingest.InferTypes,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, err
	}

	a.metrics.RecordIngest(ctx, len(res.Records), res.Skipped())

	if skipped := res.Skipped(); skipped > 0 {
		a.printer.Warn("skipped %s of %d", english.Plural(skipped, "malformed row", ""), res.Rows)
	}

	store := commits.NewStore(res.Records, a.cfg.URLs())

	if validateErr := store.Validate(); validateErr != nil {
		a.logger.WarnContext(ctx, "nothing to plot", "source", path, "error", validateErr)
		a.printer.Warn("%v", validateErr)
	} else {
		a.printer.Info("loaded %s from %s", english.Plural(store.Len(), "commit", ""), path)
	}

	manager := filter.NewManager(store, a.cfg.Coordinator(),
		filter.WithLogger(a.logger),
		filter.WithMetrics(a.metrics),
		filter.WithTracer(a.providers.Tracer),
	)

	return &loaded{source: path, result: res, manager: manager}, nil
}

// viewFlags position the filters before a snapshot is taken.
type viewFlags struct {
	progress   float64
	region     string
	fraction   float64
	inferTypes bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.progress, "progress", scale.ProgressMax, "time slider position in [0,100]")
	cmd.Flags().StringVar(&f.region, "region", "", "selection rectangle x0,y0,x1,y1 in plot pixels")
	cmd.Flags().Float64Var(&f.fraction, "fraction", -1, "show the first fraction in [0,1] of commits instead of --progress")
	cmd.Flags().BoolVar(&f.inferTypes, "infer-types", false, "detect the language of untyped lines from the file extension")
}

// events turns the flags into the gestures a user would have made.
func (f *viewFlags) events() ([]session.Event, error) {
	evs := []session.Event{{Kind: session.KindSlider, Value: f.progress}}

	if f.fraction >= 0 {
		evs = []session.Event{{Kind: session.KindFraction, Value: f.fraction}}
	}

	region, err := filter.ParseRegion(f.region)
	if err != nil {
		return nil, err
	}

	if region.Active {
		evs = append(evs, session.Event{
			Kind:   session.KindRegion,
			Region: []float64{region.X0, region.Y0, region.X1, region.Y1},
		})
	}

	return evs, nil
}

// apply runs the flag gestures. Rejected values are reported and leave the
// previous state in place.
func (a *app) apply(ctx context.Context, sess *session.Session, f *viewFlags) error {
	evs, err := f.events()
	if err != nil {
		a.printer.Warn("ignoring --region: %v", err)

		evs, _ = (&viewFlags{progress: f.progress, fraction: f.fraction}).events()
	}

	for _, ev := range evs {
		applyErr := sess.Apply(ctx, ev)

		switch {
		case errors.Is(applyErr, filter.ErrInvalidFilterInput):
			a.printer.Warn("ignoring %s: %v", ev.Kind, applyErr)
		case applyErr != nil:
			return applyErr
		}
	}

	return nil
}

// writeOutput creates path ("-" is stdout) and hands it to write.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == stdoutPath {
		return write(stdout)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writeErr := write(f)
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	return nil
}

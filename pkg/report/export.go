package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/persist"
)

// ErrBadSnapshot is returned when an exported snapshot cannot be read back.
var ErrBadSnapshot = errors.New("bad snapshot document")

// ExportJSON writes snap as indented JSON, wrapped in an lz4 frame when
// compress is set.
func ExportJSON(w io.Writer, snap filter.Snapshot, compress bool) error {
	var codec persist.Codec = persist.NewJSONCodec()
	if compress {
		codec = persist.NewLZ4Codec(codec)
	}

	if err := persist.NewPersister[filter.Snapshot](codec).Write(w, snap); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	return nil
}

// ImportJSON reads a document written by ExportJSON, compressed or not.
func ImportJSON(r io.Reader) (filter.Snapshot, error) {
	snap, err := persist.NewPersister[filter.Snapshot](persist.NewJSONCodec()).Read(r)
	if err != nil {
		return filter.Snapshot{}, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	return snap, nil
}

// SaveJSON writes snap to path. The document is lz4 framed when compress is
// set or path ends in ".lz4".
func SaveJSON(path string, snap filter.Snapshot, compress bool) error {
	codec := persist.CodecFor(path, compress)

	if err := persist.NewPersister[filter.Snapshot](codec).Save(path, snap); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	return nil
}

package persist

import (
	"fmt"
	"io"
	"os"
)

const filePerm = 0o644

// Persister reads and writes documents of one type.
type Persister[T any] struct {
	codec Codec
}

// NewPersister creates a persister that writes with codec. Reads detect the
// codec from the stream.
func NewPersister[T any](codec Codec) *Persister[T] {
	return &Persister[T]{codec: codec}
}

// Write encodes doc to w.
func (p *Persister[T]) Write(w io.Writer, doc T) error {
	return p.codec.Encode(w, doc)
}

// Read decodes one document from r, compressed or not.
func (p *Persister[T]) Read(r io.Reader) (T, error) {
	var doc T

	codec, src := Sniff(r)
	if err := codec.Decode(src, &doc); err != nil {
		return doc, err
	}

	return doc, nil
}

// Save writes doc to path, replacing any existing file.
func (p *Persister[T]) Save(path string, doc T) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writeErr := p.Write(file, doc)
	closeErr := file.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	return nil
}

// Load reads the document stored at path.
func (p *Persister[T]) Load(path string) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T

		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return p.Read(file)
}

// Package persist encodes documents to streams and files, optionally wrapped
// in an lz4 frame.
package persist

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	lz4Extension  = ".lz4"
)

// Default indentation for pretty-printed JSON.
const defaultIndent = "  "

// lz4Magic opens every lz4 frame.
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// Codec defines how a document is serialized and deserialized.
type Codec interface {
	// Encode writes v to the writer.
	Encode(w io.Writer, v any) error
	// Decode reads the writer's output back into v.
	Decode(r io.Reader, v any) error
	// Extension returns the file extension for this codec (e.g., ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// LZ4Codec wraps another codec's output in an lz4 frame.
type LZ4Codec struct {
	Inner Codec
	Level lz4.CompressionLevel
}

// NewLZ4Codec wraps inner at compression level 5.
func NewLZ4Codec(inner Codec) *LZ4Codec {
	return &LZ4Codec{Inner: inner, Level: lz4.Level5}
}

// Encode implements Codec.Encode. The frame is closed before returning.
func (c *LZ4Codec) Encode(w io.Writer, v any) error {
	zw := lz4.NewWriter(w)

	if err := zw.Apply(lz4.CompressionLevelOption(c.Level)); err != nil {
		return fmt.Errorf("configure lz4: %w", err)
	}

	if err := c.Inner.Encode(zw, v); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close lz4 frame: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode.
func (c *LZ4Codec) Decode(r io.Reader, v any) error {
	return c.Inner.Decode(lz4.NewReader(r), v)
}

// Extension implements Codec.Extension, e.g. ".json.lz4".
func (c *LZ4Codec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}

// CodecFor picks the JSON codec for path, lz4 framed when path ends in
// ".lz4" or compress is set.
func CodecFor(path string, compress bool) Codec {
	if compress || strings.HasSuffix(path, lz4Extension) {
		return NewLZ4Codec(NewJSONCodec())
	}

	return NewJSONCodec()
}

// Sniff returns the codec that can read r and a reader positioned at the
// start of the stream. Streams that do not open with an lz4 frame are read
// as plain JSON.
func Sniff(r io.Reader) (Codec, io.Reader) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(lz4Magic))
	if err == nil && bytes.Equal(head, lz4Magic) {
		return NewLZ4Codec(NewJSONCodec()), br
	}

	return NewJSONCodec(), br
}

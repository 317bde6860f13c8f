package session

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScript is returned when a gesture script does not match the
// script schema.
var ErrInvalidScript = errors.New("invalid gesture script")

//go:embed script-schema.json
var scriptSchema []byte

// Script is a recorded sequence of gestures.
type Script struct {
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Events      []Event `json:"events" yaml:"events"`
}

// LoadScript reads a YAML or JSON gesture script from path and validates it.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gesture script: %w", err)
	}

	return ParseScript(data)
}

// ParseScript decodes a YAML or JSON gesture script and validates it against
// the embedded schema before decoding it into a Script.
func ParseScript(data []byte) (*Script, error) {
	var doc any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(scriptSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validate gesture script: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.Field()+": "+verr.Description())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(msgs, "; "))
	}

	var script Script

	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	return &script, nil
}

// Marshal renders the script as YAML.
func (s *Script) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal gesture script: %w", err)
	}

	return out, nil
}

package hypermedia

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Negotiable media types.
const (
	MediaJSON     = "application/json"
	MediaYAML     = "application/x-yaml"
	MediaTextYAML = "text/yaml"
	MediaForm     = "application/x-www-form-urlencoded"
	MediaHTML     = "text/html"
)

// Built-in wire format names for Emitter.Format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RenderFunc serializes a response value into its wire representation.
type RenderFunc func(v any) ([]byte, error)

// Emitter produces one output representation of a response value.
//
// It is a tagged variant: exactly one field is set. Format names a built-in
// wire codec shared by every response; Render is an inline function a
// handler installs on its response-scoped registry (for example a template
// renderer on the text/html slot). The negotiator resolves both uniformly
// through Emit.
type Emitter struct {
	Format string
	Render RenderFunc
}

// Emit serializes v using the emitter's renderer or named codec.
func (e Emitter) Emit(v any) ([]byte, error) {
	if e.Render != nil {
		return e.Render(v)
	}
	codec, ok := codecs[e.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, e.Format)
	}
	return codec(v)
}

// codecs maps built-in format names to their serializers.
var codecs = map[string]RenderFunc{
	FormatJSON: renderJSON,
	FormatYAML: renderYAML,
}

func renderJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rendering JSON: %w", err)
	}
	return data, nil
}

func renderYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rendering YAML: %w", err)
	}
	return data, nil
}

package hypermedia

import (
	"encoding/json"
	"fmt"
	"net/url"

	"gopkg.in/yaml.v3"
)

// DecoderFunc parses a raw request body into a flat field mapping.
type DecoderFunc func(data []byte) (map[string]any, error)

// DecodeJSON parses a JSON object body. Non-object documents are rejected.
func DecodeJSON(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding JSON body: %w", err)
	}
	return m, nil
}

// DecodeYAML parses a YAML mapping body. Non-mapping documents are rejected.
func DecodeYAML(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding YAML body: %w", err)
	}
	return m, nil
}

// DecodeForm parses a urlencoded form body. A key given once decodes to a
// scalar string; a repeated key decodes to a list, matching how JSON and
// YAML lists drive batch expansion.
func DecodeForm(data []byte) (map[string]any, error) {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding form body: %w", err)
	}

	m := make(map[string]any, len(values))
	for k, vals := range values {
		if len(vals) == 1 {
			m[k] = vals[0]
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		m[k] = list
	}
	return m, nil
}

// Package yamlser writes and reads backed models as YAML. Documents are
// converted to and from JSON with goccy/go-yaml, keeping key order, so the
// partial-payload rules of jsonser apply unchanged.
package yamlser

import (
	"fmt"

	"github.com/goccy/go-yaml"

	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/serialization"
	"github.com/goliatone/go-backing/serialization/jsonser"
)

// Marshal writes every stored property of model as a YAML mapping.
func Marshal(model backing.Model, opts ...jsonser.WriterOption) ([]byte, error) {
	content, err := jsonser.Marshal(model, opts...)
	if err != nil {
		return nil, err
	}
	return toYAML(content)
}

// MarshalPartial writes only the properties changed since the last baseline.
func MarshalPartial(model backing.Model, opts ...jsonser.WriterOption) ([]byte, error) {
	content, err := jsonser.MarshalPartial(model, opts...)
	if err != nil {
		return nil, err
	}
	return toYAML(content)
}

// Unmarshal decodes a YAML document into a model built by factory.
func Unmarshal(content []byte, factory serialization.ParsableFactory) (serialization.Parsable, error) {
	data, err := toJSON(content)
	if err != nil {
		return nil, err
	}
	return jsonser.Unmarshal(data, factory)
}

// UnmarshalInto populates model from a YAML document and establishes a new
// baseline.
func UnmarshalInto(content []byte, model serialization.Parsable) error {
	data, err := toJSON(content)
	if err != nil {
		return err
	}
	return jsonser.UnmarshalInto(data, model)
}

func toYAML(content []byte) ([]byte, error) {
	out, err := yaml.JSONToYAML(content)
	if err != nil {
		return nil, fmt.Errorf("yamlser: encode: %w", err)
	}
	return out, nil
}

func toJSON(content []byte) ([]byte, error) {
	out, err := yaml.YAMLToJSON(content)
	if err != nil {
		return nil, fmt.Errorf("yamlser: decode: %w", err)
	}
	return out, nil
}

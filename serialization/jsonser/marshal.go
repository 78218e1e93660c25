// Package jsonser is the JSON implementation of the serialization contracts.
package jsonser

import (
	"fmt"

	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/serialization"
)

// Marshal writes model as a JSON object. Without options every stored
// property is written.
func Marshal(model backing.Model, opts ...WriterOption) ([]byte, error) {
	if model == nil {
		return []byte("null"), nil
	}
	w := NewWriter(opts...)
	if err := w.WriteObjectValue("", model); err != nil {
		return nil, err
	}
	return w.Content()
}

// MarshalPartial writes only the properties of model changed since its last
// baseline, with explicit nulls for cleared properties.
func MarshalPartial(model backing.Model, opts ...WriterOption) ([]byte, error) {
	return Marshal(model, append([]WriterOption{WithPartialPayload(true)}, opts...)...)
}

// Unmarshal decodes content into a model built by factory. The returned model
// has a fresh baseline.
func Unmarshal(content []byte, factory serialization.ParsableFactory) (serialization.Parsable, error) {
	node, err := NewParseNode(content)
	if err != nil {
		return nil, err
	}
	return node.ObjectValue(factory)
}

// UnmarshalInto populates an existing model from content and establishes a
// new baseline.
func UnmarshalInto(content []byte, model serialization.Parsable) error {
	if model == nil {
		return fmt.Errorf("jsonser: unmarshal into nil model")
	}
	node, err := NewParseNode(content)
	if err != nil {
		return err
	}
	if node.IsNull() {
		return nil
	}
	if _, ok := node.value.(*object); !ok {
		return serialization.TypeError("object", node.value)
	}
	return serialization.Populate(node, model)
}

package jsonser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/goliatone/go-backing/serialization"
	"github.com/google/uuid"
)

// object is a decoded JSON object that remembers key order.
type object struct {
	keys   []string
	values map[string]any
}

// ParseNode reads one decoded JSON value.
type ParseNode struct {
	value any
}

var _ serialization.ParseNode = (*ParseNode)(nil)

// NewParseNode decodes content into a node tree, preserving object key order.
func NewParseNode(content []byte) (*ParseNode, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("jsonser: content is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	value, err := decodeOrdered(dec)
	if err != nil {
		return nil, fmt.Errorf("jsonser: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("jsonser: decode: unexpected trailing data")
	}
	return &ParseNode{value: value}, nil
}

// NewParseNodeFromValue wraps an already decoded value such as the output of
// json.Unmarshal into map[string]any. Object keys are visited in sorted order.
func NewParseNodeFromValue(value any) *ParseNode {
	return &ParseNode{value: value}
}

func decodeOrdered(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}
	switch delim {
	case '{':
		obj := &object{values: map[string]any{}}
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyToken)
			}
			value, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			if _, exists := obj.values[key]; !exists {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = value
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		items := []any{}
		for dec.More() {
			value, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func (n *ParseNode) ChildNode(key string) (serialization.ParseNode, error) {
	if n == nil {
		return nil, nil
	}
	switch typed := n.value.(type) {
	case *object:
		value, ok := typed.values[key]
		if !ok {
			return nil, nil
		}
		return &ParseNode{value: value}, nil
	case map[string]any:
		value, ok := typed[key]
		if !ok {
			return nil, nil
		}
		return &ParseNode{value: value}, nil
	case nil:
		return nil, nil
	default:
		return nil, serialization.TypeError("object", n.value)
	}
}

func (n *ParseNode) Keys() []string {
	if n == nil {
		return nil
	}
	switch typed := n.value.(type) {
	case *object:
		return append([]string(nil), typed.keys...)
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	default:
		return nil
	}
}

func (n *ParseNode) IsNull() bool {
	return n == nil || n.value == nil
}

func (n *ParseNode) StringValue() (*string, error) {
	if n.IsNull() {
		return nil, nil
	}
	value, ok := n.value.(string)
	if !ok {
		return nil, serialization.TypeError("string", n.value)
	}
	return &value, nil
}

func (n *ParseNode) BoolValue() (*bool, error) {
	if n.IsNull() {
		return nil, nil
	}
	value, ok := n.value.(bool)
	if !ok {
		return nil, serialization.TypeError("bool", n.value)
	}
	return &value, nil
}

func (n *ParseNode) Int64Value() (*int64, error) {
	if n.IsNull() {
		return nil, nil
	}
	switch typed := n.value.(type) {
	case json.Number:
		value, err := typed.Int64()
		if err != nil {
			return nil, serialization.TypeError("int64", n.value)
		}
		return &value, nil
	case float64:
		if typed != math.Trunc(typed) {
			return nil, serialization.TypeError("int64", n.value)
		}
		value := int64(typed)
		return &value, nil
	default:
		return nil, serialization.TypeError("int64", n.value)
	}
}

func (n *ParseNode) Float64Value() (*float64, error) {
	if n.IsNull() {
		return nil, nil
	}
	switch typed := n.value.(type) {
	case json.Number:
		value, err := typed.Float64()
		if err != nil {
			return nil, serialization.TypeError("float64", n.value)
		}
		return &value, nil
	case float64:
		return &typed, nil
	default:
		return nil, serialization.TypeError("float64", n.value)
	}
}

func (n *ParseNode) TimeValue() (*time.Time, error) {
	value, err := n.StringValue()
	if err != nil || value == nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, *value)
	if err != nil {
		return nil, fmt.Errorf("jsonser: time value: %w", err)
	}
	return &parsed, nil
}

func (n *ParseNode) UUIDValue() (*uuid.UUID, error) {
	value, err := n.StringValue()
	if err != nil || value == nil {
		return nil, err
	}
	parsed, err := uuid.Parse(*value)
	if err != nil {
		return nil, fmt.Errorf("jsonser: uuid value: %w", err)
	}
	return &parsed, nil
}

// RawValue returns the value as plain Go data: map[string]any, []any,
// string, bool, int64, float64 or nil.
func (n *ParseNode) RawValue() (any, error) {
	if n == nil {
		return nil, nil
	}
	return plain(n.value), nil
}

func plain(value any) any {
	switch typed := value.(type) {
	case *object:
		out := make(map[string]any, len(typed.keys))
		for _, key := range typed.keys {
			out[key] = plain(typed.values[key])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	default:
		return value
	}
}

func (n *ParseNode) CollectionOfStringValues() ([]string, error) {
	if n.IsNull() {
		return nil, nil
	}
	items, ok := n.value.([]any)
	if !ok {
		return nil, serialization.TypeError("array", n.value)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, serialization.TypeError("string", item)
		}
		out = append(out, value)
	}
	return out, nil
}

// ObjectValue creates a model with factory and populates it from the node.
func (n *ParseNode) ObjectValue(factory serialization.ParsableFactory) (serialization.Parsable, error) {
	if factory == nil {
		return nil, serialization.ErrNilFactory
	}
	if n.IsNull() {
		return nil, nil
	}
	switch n.value.(type) {
	case *object, map[string]any:
	default:
		return nil, serialization.TypeError("object", n.value)
	}
	model, err := factory(n)
	if err != nil {
		return nil, err
	}
	if err := serialization.Populate(n, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (n *ParseNode) CollectionOfObjectValues(factory serialization.ParsableFactory) ([]serialization.Parsable, error) {
	if n.IsNull() {
		return nil, nil
	}
	items, ok := n.value.([]any)
	if !ok {
		return nil, serialization.TypeError("array", n.value)
	}
	out := make([]serialization.Parsable, 0, len(items))
	for i, item := range items {
		model, err := (&ParseNode{value: item}).ObjectValue(factory)
		if err != nil {
			return nil, fmt.Errorf("jsonser: element %d: %w", i, err)
		}
		out = append(out, model)
	}
	return out, nil
}

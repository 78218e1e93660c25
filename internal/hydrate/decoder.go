package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-backing/serialization"
	"github.com/goliatone/go-backing/serialization/jsonser"
)

// Context identifies the payload being hydrated in hook calls and errors.
type Context struct {
	Kind string
	ID   string
}

func (c Context) String() string {
	if c.ID == "" {
		return c.Kind
	}
	return c.Kind + "/" + c.ID
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated model. Changes made
// here happen after the baseline and are tracked.
type PostHook[T serialization.Parsable] func(Context, T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T serialization.Parsable] func(*Decoder[T])

// Decoder converts decoded payload maps into backed models. Assignments run
// inside the store loading phase so a freshly hydrated model reports no
// changes.
type Decoder[T serialization.Parsable] struct {
	factory         serialization.ParsableFactory
	preHooks        []PreHook
	postHooks       []PostHook[T]
	disallowUnknown bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T serialization.Parsable](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T serialization.Parsable](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects payload keys without a field
// deserializer instead of collecting them as additional data.
func WithDisallowUnknownFields[T serialization.Parsable]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.disallowUnknown = true
	}
}

func NewDecoder[T serialization.Parsable](factory serialization.ParsableFactory, opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{factory: factory}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode builds a new model from payload applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if d.factory == nil {
		return zero, fmt.Errorf("hydrate: %s: %w", ctx, serialization.ErrNilFactory)
	}
	node, err := d.prepare(ctx, payload)
	if err != nil {
		return zero, err
	}

	parsed, err := d.factory(node)
	if err != nil {
		return zero, fmt.Errorf("hydrate: factory for %s failed: %w", ctx, err)
	}
	result, ok := parsed.(T)
	if !ok {
		return zero, fmt.Errorf("hydrate: factory for %s returned %T: %w", ctx, parsed, serialization.ErrUnexpectedType)
	}
	if err := d.populate(ctx, node, result); err != nil {
		return zero, err
	}
	return result, nil
}

// DecodeInto re-hydrates model from payload. The model re-enters the loading
// phase, so properties assigned from payload become part of the new baseline.
func (d *Decoder[T]) DecodeInto(ctx Context, payload map[string]any, model T) error {
	node, err := d.prepare(ctx, payload)
	if err != nil {
		return err
	}
	return d.populate(ctx, node, model)
}

func (d *Decoder[T]) prepare(ctx Context, payload map[string]any) (*jsonser.ParseNode, error) {
	if payload == nil {
		return nil, fmt.Errorf("hydrate: payload is nil for %s", ctx)
	}

	current, err := clonePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("hydrate: clone payload for %s: %w", ctx, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for %s failed: %w", ctx, err)
		}
		if next != nil {
			current = next
		}
	}
	return jsonser.NewParseNodeFromValue(current), nil
}

func (d *Decoder[T]) populate(ctx Context, node *jsonser.ParseNode, model T) error {
	if d.disallowUnknown {
		if unknown := unknownKeys(node, model); len(unknown) > 0 {
			return fmt.Errorf("hydrate: %s: unknown fields %v", ctx, unknown)
		}
	}
	if err := serialization.Populate(node, model); err != nil {
		return fmt.Errorf("hydrate: decode %s: %w", ctx, err)
	}
	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, model); err != nil {
			return fmt.Errorf("hydrate: post-hook for %s failed: %w", ctx, err)
		}
	}
	return nil
}

func unknownKeys(node serialization.ParseNode, model serialization.Parsable) []string {
	deserializers := model.FieldDeserializers()
	var out []string
	for _, key := range node.Keys() {
		if _, ok := deserializers[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// clonePayload deep-copies payload through JSON so hooks never mutate the
// caller's map. Numbers are kept as json.Number.
func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

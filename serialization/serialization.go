// Package serialization defines the contracts between backed models and
// format-specific writers and parse nodes.
//
// Writers read models exclusively through their backing store: a full payload
// writes every stored property, a partial payload writes only the properties
// the store reports as changed plus explicit nulls for properties cleared
// since the baseline.
package serialization

import (
	"time"

	backing "github.com/goliatone/go-backing"
	"github.com/google/uuid"
)

// FieldDeserializer assigns the value held by node to one model property.
type FieldDeserializer func(node ParseNode) error

// Parsable is a backed model that can be populated from a parse node.
type Parsable interface {
	backing.Model
	FieldDeserializers() map[string]FieldDeserializer
}

// ParsableFactory creates an empty model for node. Factories may inspect the
// node to pick a derived type.
type ParsableFactory func(node ParseNode) (Parsable, error)

// ParseNode is a read cursor over one decoded payload value.
type ParseNode interface {
	// ChildNode returns the node under key, or nil when the key is absent.
	ChildNode(key string) (ParseNode, error)
	// Keys lists object keys in payload order.
	Keys() []string
	IsNull() bool
	StringValue() (*string, error)
	BoolValue() (*bool, error)
	Int64Value() (*int64, error)
	Float64Value() (*float64, error)
	TimeValue() (*time.Time, error)
	UUIDValue() (*uuid.UUID, error)
	RawValue() (any, error)
	CollectionOfStringValues() ([]string, error)
	ObjectValue(factory ParsableFactory) (Parsable, error)
	CollectionOfObjectValues(factory ParsableFactory) ([]Parsable, error)
}

// Writer serializes values under property keys.
type Writer interface {
	WriteValue(key string, value any) error
	WriteNullValue(key string) error
	WriteObjectValue(key string, model backing.Model) error
	WriteAdditionalData(data map[string]any) error
	Content() ([]byte, error)
}

// Populate assigns every property in node to model inside a loading phase:
// the store stops tracking while values are assigned and establishes a new
// baseline afterwards. Keys without a deserializer are merged into the
// additional data bag. On error a store that was tracking before goes back
// to tracking; values assigned before the failure stay in place.
func Populate(node ParseNode, model Parsable) error {
	if node == nil || model == nil {
		return nil
	}
	store := model.BackingStore()
	tracking := store.IsInitializationCompleted()
	store.SetIsInitializationCompleted(false)
	if err := assign(node, model, store); err != nil {
		if tracking {
			resumeTracking(store)
		}
		return err
	}
	store.SetIsInitializationCompleted(true)
	return nil
}

func resumeTracking(store backing.Store) {
	if resumer, ok := store.(backing.TrackingResumer); ok {
		resumer.ResumeTracking()
		return
	}
	store.SetIsInitializationCompleted(true)
}

func assign(node ParseNode, model Parsable, store backing.Store) error {
	deserializers := model.FieldDeserializers()
	var extra map[string]any
	for _, key := range node.Keys() {
		child, err := node.ChildNode(key)
		if err != nil {
			return err
		}
		if deserialize, ok := deserializers[key]; ok {
			if err := deserialize(child); err != nil {
				return &FieldError{Key: key, Err: err}
			}
			continue
		}
		raw, err := child.RawValue()
		if err != nil {
			return &FieldError{Key: key, Err: err}
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[key] = raw
	}
	if len(extra) == 0 {
		return nil
	}
	data := backing.ValueOf[map[string]any](store, backing.AdditionalDataKey)
	if data == nil {
		data = make(map[string]any, len(extra))
	}
	for key, value := range extra {
		data[key] = value
	}
	return store.Set(backing.AdditionalDataKey, data)
}

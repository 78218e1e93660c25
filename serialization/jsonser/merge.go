package jsonser

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/serialization"
)

// MergeInto applies an RFC 7386 JSON merge patch to model. Unlike Unmarshal,
// the model keeps its baseline: every top-level key named by the patch is
// assigned through the store and becomes part of the next partial payload.
// Keys the patch sets to null are cleared.
func MergeInto(model serialization.Parsable, patch []byte) error {
	if model == nil {
		return fmt.Errorf("jsonser: merge into nil model")
	}
	patchNode, err := NewParseNode(patch)
	if err != nil {
		return err
	}
	if _, ok := patchNode.value.(*object); !ok {
		return serialization.TypeError("object", patchNode.value)
	}

	current, err := Marshal(model)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return fmt.Errorf("jsonser: merge patch: %w", err)
	}
	mergedNode, err := NewParseNode(merged)
	if err != nil {
		return err
	}

	store := model.BackingStore()
	deserializers := model.FieldDeserializers()
	var extra map[string]any
	for _, key := range patchNode.Keys() {
		child, err := mergedNode.ChildNode(key)
		if err != nil {
			return &serialization.FieldError{Key: key, Err: err}
		}
		if child == nil {
			child = &ParseNode{}
		}
		if deserialize, ok := deserializers[key]; ok {
			if err := deserialize(child); err != nil {
				return &serialization.FieldError{Key: key, Err: err}
			}
			continue
		}
		if extra == nil {
			extra = copyData(backing.ValueOf[map[string]any](store, backing.AdditionalDataKey))
		}
		if child.IsNull() {
			delete(extra, key)
			continue
		}
		raw, err := child.RawValue()
		if err != nil {
			return &serialization.FieldError{Key: key, Err: err}
		}
		extra[key] = raw
	}
	if extra == nil {
		return nil
	}
	return store.Set(backing.AdditionalDataKey, extra)
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = value
	}
	return out
}

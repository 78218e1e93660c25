package jsonser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/serialization"
	"github.com/google/uuid"
)

// ErrCycle indicates a model was reached again while it was being written.
var ErrCycle = errors.New("jsonser: cyclic model graph")

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	partial       bool
	baselineReset bool
	prefix        string
	indent        string
}

// WithPartialPayload restricts model output to changed properties.
func WithPartialPayload(partial bool) WriterOption {
	return func(cfg *writerConfig) {
		cfg.partial = partial
	}
}

// WithBaselineReset establishes a new baseline on every top-level model once
// it has been written, so the next partial payload starts empty.
func WithBaselineReset(reset bool) WriterOption {
	return func(cfg *writerConfig) {
		cfg.baselineReset = reset
	}
}

// WithIndent formats Content output like json.Indent.
func WithIndent(prefix, indent string) WriterOption {
	return func(cfg *writerConfig) {
		cfg.prefix = prefix
		cfg.indent = indent
	}
}

type field struct {
	key string
	raw []byte
}

// Writer accumulates keyed JSON values. Values written with an empty key
// become the root value.
type Writer struct {
	cfg    writerConfig
	fields []field
	index  map[string]int
	root   []byte
	active map[any]struct{}
}

var _ serialization.Writer = (*Writer)(nil)

// NewWriter constructs a Writer.
func NewWriter(opts ...WriterOption) *Writer {
	cfg := writerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Writer{cfg: cfg, index: map[string]int{}, active: map[any]struct{}{}}
}

func (w *Writer) WriteValue(key string, value any) error {
	var buf bytes.Buffer
	if err := w.encode(&buf, value, w.cfg.partial); err != nil {
		return fmt.Errorf("jsonser: write %q: %w", key, err)
	}
	w.put(key, buf.Bytes())
	return nil
}

func (w *Writer) WriteNullValue(key string) error {
	w.put(key, []byte("null"))
	return nil
}

// WriteObjectValue writes model through its backing store, honouring the
// partial payload mode.
func (w *Writer) WriteObjectValue(key string, model backing.Model) error {
	if model == nil {
		return w.WriteNullValue(key)
	}
	var buf bytes.Buffer
	if err := w.encodeModel(&buf, model, w.cfg.partial, false); err != nil {
		return fmt.Errorf("jsonser: write %q: %w", key, err)
	}
	w.put(key, buf.Bytes())
	if w.cfg.baselineReset {
		if store := model.BackingStore(); store != nil {
			store.SetIsInitializationCompleted(true)
		}
	}
	return nil
}

// WriteAdditionalData writes every entry of data as a top-level field, in key
// order.
func (w *Writer) WriteAdditionalData(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := w.WriteValue(key, data[key]); err != nil {
			return err
		}
	}
	return nil
}

// Content returns the accumulated JSON document. It returns nil when nothing
// was written.
func (w *Writer) Content() ([]byte, error) {
	var out []byte
	switch {
	case w.root != nil && len(w.fields) == 0:
		out = append([]byte(nil), w.root...)
	case w.root != nil:
		return nil, fmt.Errorf("jsonser: root value mixed with keyed fields")
	case len(w.fields) == 0:
		return nil, nil
	default:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range w.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, f.key)
			buf.Write(f.raw)
		}
		buf.WriteByte('}')
		out = buf.Bytes()
	}
	if w.cfg.indent == "" && w.cfg.prefix == "" {
		return out, nil
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, out, w.cfg.prefix, w.cfg.indent); err != nil {
		return nil, fmt.Errorf("jsonser: indent: %w", err)
	}
	return indented.Bytes(), nil
}

// Reset discards everything written so far.
func (w *Writer) Reset() {
	w.fields = nil
	w.index = map[string]int{}
	w.root = nil
}

func (w *Writer) put(key string, raw []byte) {
	if key == "" {
		w.root = raw
		return
	}
	if i, ok := w.index[key]; ok {
		w.fields[i].raw = raw
		return
	}
	w.index[key] = len(w.fields)
	w.fields = append(w.fields, field{key: key, raw: raw})
}

func writeKey(buf *bytes.Buffer, key string) {
	encoded, _ := json.Marshal(key)
	buf.Write(encoded)
	buf.WriteByte(':')
}

// encode writes value. Nested single models inherit the partial mode;
// elements of collections and maps are always written in full, so arrays
// replace wholesale as JSON merge patch expects.
func (w *Writer) encode(buf *bytes.Buffer, value any, partial bool) error {
	node := backing.Classify(value)
	switch node.Kind {
	case backing.KindNull:
		buf.WriteString("null")
		return nil
	case backing.KindScalar:
		return encodeScalar(buf, value)
	case backing.KindModel:
		return w.encodeModel(buf, node.Model(), partial, true)
	case backing.KindCollection:
		buf.WriteByte('[')
		i := 0
		for element := range node.Elements() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.encode(buf, element, false); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			i++
		}
		buf.WriteByte(']')
		return nil
	case backing.KindMap:
		buf.WriteByte('{')
		i := 0
		for key, element := range node.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(buf, key)
			if err := w.encode(buf, element, false); err != nil {
				return fmt.Errorf("entry %q: %w", key, err)
			}
			i++
		}
		buf.WriteByte('}')
		return nil
	default:
		return w.encodeOpaque(buf, value, partial)
	}
}

func (w *Writer) encodeOpaque(buf *bytes.Buffer, value any, partial bool) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		return w.encode(buf, rv.Elem().Interface(), partial)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

func encodeScalar(buf *bytes.Buffer, value any) error {
	var encoded []byte
	var err error
	switch typed := value.(type) {
	case time.Time:
		encoded, err = json.Marshal(typed.Format(time.RFC3339Nano))
	case time.Duration:
		encoded, err = json.Marshal(typed.String())
	case uuid.UUID:
		encoded, err = json.Marshal(typed.String())
	case json.Number:
		encoded = []byte(typed.String())
	default:
		encoded, err = json.Marshal(value)
	}
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

// encodeModel writes the properties of model. A nested model reached in
// partial mode without changes of its own was replaced as a whole, so it is
// written in full.
func (w *Writer) encodeModel(buf *bytes.Buffer, model backing.Model, partial, nested bool) error {
	store := model.BackingStore()
	if store == nil {
		buf.WriteString("{}")
		return nil
	}
	id := modelIdentity(store)
	if id != nil {
		if _, seen := w.active[id]; seen {
			return ErrCycle
		}
		w.active[id] = struct{}{}
		defer delete(w.active, id)
	}

	var entries []backing.Entry
	if partial {
		entries = backing.ChangedEntries(store)
		if nested && len(entries) == 0 && !hasNulls(store) {
			partial = false
			entries = nil
		}
	}
	if !partial {
		entries = backing.AllEntries(store)
	}

	written := make(map[string]struct{}, len(entries))
	var additional map[string]any
	buf.WriteByte('{')
	first := true
	next := func(key string) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeKey(buf, key)
		written[key] = struct{}{}
	}
	for _, entry := range entries {
		if entry.Key == backing.AdditionalDataKey {
			additional, _ = entry.Value.(map[string]any)
			continue
		}
		if !partial && backing.Classify(entry.Value).Kind == backing.KindNull {
			continue
		}
		next(entry.Key)
		if err := w.encode(buf, entry.Value, partial); err != nil {
			return fmt.Errorf("property %q: %w", entry.Key, err)
		}
	}
	if partial {
		for key := range store.EnumerateKeysForValuesChangedToNull() {
			if _, done := written[key]; done || key == backing.AdditionalDataKey {
				continue
			}
			next(key)
			buf.WriteString("null")
		}
	}
	for _, key := range sortedKeys(additional) {
		if _, taken := written[key]; taken {
			continue
		}
		next(key)
		if err := w.encode(buf, additional[key], false); err != nil {
			return fmt.Errorf("additional data %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func hasNulls(store backing.Store) bool {
	for range store.EnumerateKeysForValuesChangedToNull() {
		return true
	}
	return false
}

func modelIdentity(store backing.Store) any {
	if !reflect.TypeOf(store).Comparable() {
		return nil
	}
	return store
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

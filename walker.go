package backing

import (
	"encoding/json"
	"iter"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a stored value for the consistency walker.
type Kind uint8

const (
	// KindNull is a nil value or a typed nil pointer, slice or map.
	KindNull Kind = iota
	// KindScalar is an immutable primitive (string, number, bool, time, uuid).
	KindScalar
	// KindModel is a backed model.
	KindModel
	// KindCollection is an ordered collection that may hold backed models.
	KindCollection
	// KindMap is a string-keyed map that may hold backed models.
	KindMap
	// KindOpaque is any other value, compared by content at baseline.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindModel:
		return "model"
	case KindCollection:
		return "collection"
	case KindMap:
		return "map"
	default:
		return "opaque"
	}
}

// Collection is an ordered, pointer-held sequence of backed models whose
// in-place mutation is visible to the store holding it.
type Collection interface {
	Len() int
	Models() iter.Seq[Model]
}

var (
	modelType = reflect.TypeOf((*Model)(nil)).Elem()
	bytesType = reflect.TypeOf([]byte(nil))
)

// Node is a classified value.
type Node struct {
	Kind  Kind
	raw   any
	model Model
}

// Raw returns the classified value.
func (n Node) Raw() any {
	return n.raw
}

// Model returns the backed model for KindModel nodes.
func (n Node) Model() Model {
	return n.model
}

// Elements yields collection elements or map values. Map values are yielded
// in key order.
func (n Node) Elements() iter.Seq[any] {
	return func(yield func(any) bool) {
		switch n.Kind {
		case KindCollection:
			n.eachElement(yield)
		case KindMap:
			for _, value := range n.Entries() {
				if !yield(value) {
					return
				}
			}
		}
	}
}

// Entries yields key/value pairs of KindMap nodes in key order.
func (n Node) Entries() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if n.Kind != KindMap {
			return
		}
		if typed, ok := n.raw.(map[string]any); ok {
			for _, key := range sortedKeys(typed) {
				if !yield(key, typed[key]) {
					return
				}
			}
			return
		}
		rv := reflect.ValueOf(n.raw)
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, key := range keys {
			if !yield(key.String(), rv.MapIndex(key).Interface()) {
				return
			}
		}
	}
}

func (n Node) eachElement(yield func(any) bool) {
	switch typed := n.raw.(type) {
	case Collection:
		for model := range typed.Models() {
			if !yield(model) {
				return
			}
		}
	case []any:
		for _, value := range typed {
			if !yield(value) {
				return
			}
		}
	default:
		rv := reflect.ValueOf(n.raw)
		for i := 0; i < rv.Len(); i++ {
			if !yield(rv.Index(i).Interface()) {
				return
			}
		}
	}
}

// Classify assigns value to exactly one Kind.
func Classify(value any) Node {
	if isNil(value) {
		return Node{Kind: KindNull}
	}
	switch typed := value.(type) {
	case Model:
		return Node{Kind: KindModel, raw: value, model: typed}
	case Collection:
		return Node{Kind: KindCollection, raw: value}
	case []any:
		return Node{Kind: KindCollection, raw: value}
	case map[string]any:
		return Node{Kind: KindMap, raw: value}
	case string, bool, json.Number, time.Time, time.Duration, uuid.UUID,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Node{Kind: KindScalar, raw: value}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Node{Kind: KindScalar, raw: value}
	case reflect.Slice, reflect.Array:
		if rv.Type().ConvertibleTo(bytesType) && rv.Kind() == reflect.Slice {
			return Node{Kind: KindOpaque, raw: value}
		}
		if rv.Type().Elem().Implements(modelType) {
			return Node{Kind: KindCollection, raw: value}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String && rv.Type().Elem().Implements(modelType) {
			return Node{Kind: KindMap, raw: value}
		}
	}
	return Node{Kind: KindOpaque, raw: value}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// walk carries the state of one traversal over the model graph. Stores are
// keyed by identity. A store is dirty when it, or any store reachable from it
// through backed models, holds a changed key. Every store on a cycle therefore
// gets the same verdict wherever the traversal starts.
type walk struct {
	verdicts map[any]bool
	active   map[any]struct{}
	done     map[any]struct{}
	cycles   int
}

func newWalk() *walk {
	return &walk{
		verdicts: map[any]bool{},
		active:   map[any]struct{}{},
		done:     map[any]struct{}{},
	}
}

// identity returns a comparable key for store, or nil when the dynamic type
// cannot be used as a map key.
func identity(store Store) any {
	if store == nil || !reflect.TypeOf(store).Comparable() {
		return nil
	}
	return store
}

// dirty reports whether value reaches a backed model with pending changes.
func (w *walk) dirty(value any) bool {
	node := Classify(value)
	switch node.Kind {
	case KindModel:
		return w.storeChanged(node.Model().BackingStore())
	case KindCollection, KindMap:
		for element := range node.Elements() {
			if w.dirty(element) {
				return true
			}
		}
	}
	return false
}

// storeChanged reports whether store reaches a store with local changes.
// Positive verdicts are recorded as soon as they are found. A negative search
// has expanded everything it saw, so all of it is recorded clean.
func (w *walk) storeChanged(store Store) bool {
	if store == nil {
		return false
	}
	id := identity(store)
	if id == nil {
		return HasChanges(store)
	}
	if verdict, ok := w.verdicts[id]; ok {
		return verdict
	}
	seen := map[any]struct{}{}
	if w.search(store, seen) {
		return true
	}
	for id := range seen {
		w.verdicts[id] = false
	}
	return false
}

func (w *walk) search(store Store, seen map[any]struct{}) bool {
	if store == nil {
		return false
	}
	id := identity(store)
	if id == nil {
		return HasChanges(store)
	}
	if verdict, ok := w.verdicts[id]; ok {
		return verdict
	}
	if _, ok := seen[id]; ok {
		if _, ok := w.active[id]; ok {
			w.cycles++
		}
		return false
	}
	seen[id] = struct{}{}
	w.active[id] = struct{}{}
	dirty := w.reaches(store, seen)
	delete(w.active, id)
	if dirty {
		w.verdicts[id] = true
	}
	return dirty
}

// reaches checks the local changes of store and then its children. Stores of
// other implementations are asked through HasChanges and not traversed.
func (w *walk) reaches(store Store, seen map[any]struct{}) bool {
	memory, ok := store.(*InMemoryStore)
	if !ok {
		return HasChanges(store)
	}
	if memory.locallyChanged() {
		return true
	}
	for _, key := range memory.table.keys {
		if w.reachesValue(memory.table.values[key], seen) {
			return true
		}
	}
	return false
}

func (w *walk) reachesValue(value any, seen map[any]struct{}) bool {
	node := Classify(value)
	switch node.Kind {
	case KindModel:
		return w.search(node.Model().BackingStore(), seen)
	case KindCollection, KindMap:
		for element := range node.Elements() {
			if w.reachesValue(element, seen) {
				return true
			}
		}
	}
	return false
}

// begin reports whether a baseline walk reaches store for the first time.
func (w *walk) begin(store Store) bool {
	id := identity(store)
	if id == nil {
		return true
	}
	if _, ok := w.done[id]; ok {
		if _, ok := w.active[id]; ok {
			w.cycles++
		}
		return false
	}
	w.done[id] = struct{}{}
	w.active[id] = struct{}{}
	return true
}

func (w *walk) end(store Store) {
	if id := identity(store); id != nil {
		delete(w.active, id)
	}
}

// complete propagates a baseline reset into every backed model reachable
// from value.
func (w *walk) complete(value any) {
	node := Classify(value)
	switch node.Kind {
	case KindNull, KindScalar, KindOpaque:
	case KindModel:
		w.completeStore(node.Model().BackingStore())
	case KindCollection, KindMap:
		for element := range node.Elements() {
			w.complete(element)
		}
	}
}

func (w *walk) completeStore(store Store) {
	if store == nil {
		return
	}
	if memory, ok := store.(*InMemoryStore); ok {
		memory.completeInitialization(w)
		return
	}
	if !w.begin(store) {
		return
	}
	store.SetIsInitializationCompleted(true)
	w.end(store)
}

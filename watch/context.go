package watch

import (
	"encoding/json"
	"reflect"
	"time"

	backing "github.com/goliatone/go-backing"
	"github.com/google/uuid"
)

// ChangeContext carries the inputs a rule is evaluated against. Values hold
// plain data: backed models become maps of their properties, UUIDs become
// strings and named scalar types are reduced to their base kind.
type ChangeContext struct {
	Key     string
	Old     any
	New     any
	Values  map[string]any
	Changed []string
	Now     *time.Time
	Args    map[string]any
}

func (ctx ChangeContext) withDefaults() ChangeContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Values == nil {
		ctx.Values = map[string]any{}
	}
	if ctx.Changed == nil {
		ctx.Changed = []string{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// bindings returns the variables visible to every engine. Old and New are
// exposed as previous and current since new is reserved in JavaScript.
func (ctx ChangeContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"key":      ctx.Key,
		"previous": ctx.Old,
		"current":  ctx.New,
		"values":   ctx.Values,
		"changed":  ctx.Changed,
		"now":      *ctx.Now,
		"args":     ctx.Args,
	}
}

// NewChangeContext snapshots store for a change of key from oldValue to
// newValue.
func NewChangeContext(store backing.Store, key string, oldValue, newValue any) ChangeContext {
	p := newPlainer()
	ctx := ChangeContext{
		Key: key,
		Old: p.value(oldValue),
		New: p.value(newValue),
	}
	if store != nil {
		ctx.Values = p.entries(backing.AllEntries(store))
		ctx.Changed = backing.Keys(backing.ChangedEntries(store))
	}
	return ctx
}

type plainer struct {
	active map[any]struct{}
}

func newPlainer() *plainer {
	return &plainer{active: map[any]struct{}{}}
}

func (p *plainer) entries(entries []backing.Entry) map[string]any {
	out := make(map[string]any, len(entries))
	for _, entry := range entries {
		out[entry.Key] = p.value(entry.Value)
	}
	return out
}

func (p *plainer) value(value any) any {
	node := backing.Classify(value)
	switch node.Kind {
	case backing.KindNull:
		return nil
	case backing.KindScalar:
		return plainScalar(value)
	case backing.KindModel:
		store := node.Model().BackingStore()
		if store == nil {
			return map[string]any{}
		}
		if reflect.TypeOf(store).Comparable() {
			if _, seen := p.active[store]; seen {
				return nil
			}
			p.active[store] = struct{}{}
			defer delete(p.active, store)
		}
		return p.entries(backing.AllEntries(store))
	case backing.KindCollection:
		out := []any{}
		for element := range node.Elements() {
			out = append(out, p.value(element))
		}
		return out
	case backing.KindMap:
		out := map[string]any{}
		for key, element := range node.Entries() {
			out[key] = p.value(element)
		}
		return out
	default:
		return p.opaque(reflect.ValueOf(value))
	}
}

func (p *plainer) opaque(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return p.value(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, p.value(rv.Index(i).Interface()))
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = p.value(iter.Value().Interface())
		}
		return out
	default:
		return rv.Interface()
	}
}

func plainScalar(value any) any {
	switch typed := value.(type) {
	case time.Time, time.Duration:
		return value
	case uuid.UUID:
		return typed.String()
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return value
	}
}

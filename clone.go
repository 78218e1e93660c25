package backing

import "reflect"

// modelRef records a backed model by the identity of its store.
type modelRef struct {
	store any
}

type shapeList []any

type shapeMap map[string]any

// captureShape records value as it stands at a baseline: models by identity,
// collections and maps element by element, everything else deep-cloned.
func captureShape(value any) any {
	node := Classify(value)
	switch node.Kind {
	case KindNull:
		return nil
	case KindScalar:
		return value
	case KindModel:
		return modelRef{store: identity(node.Model().BackingStore())}
	case KindCollection:
		out := shapeList{}
		for element := range node.Elements() {
			out = append(out, captureShape(element))
		}
		return out
	case KindMap:
		out := shapeMap{}
		for key, element := range node.Entries() {
			out[key] = captureShape(element)
		}
		return out
	default:
		return cloneValue(reflect.ValueOf(value)).Interface()
	}
}

// sameShape reports whether value still matches a shape captured earlier.
func sameShape(shape, value any) bool {
	return equalShape(shape, captureShape(value))
}

func equalShape(a, b any) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case modelRef:
		right, ok := b.(modelRef)
		return ok && left.store != nil && left.store == right.store
	case shapeList:
		right, ok := b.(shapeList)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !equalShape(left[i], right[i]) {
				return false
			}
		}
		return true
	case shapeMap:
		right, ok := b.(shapeMap)
		if !ok || len(left) != len(right) {
			return false
		}
		for key, value := range left {
			other, exists := right[key]
			if !exists || !equalShape(value, other) {
				return false
			}
		}
		return true
	default:
		return equalPlain(reflect.ValueOf(a), reflect.ValueOf(b))
	}
}

// equalPlain compares plain data by content. Funcs and channels compare by
// identity and NaN equals NaN, so a value always matches its own clone.
func equalPlain(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		x, y := a.Complex(), b.Complex()
		return sameFloat(real(x), real(y)) && sameFloat(imag(x), imag(y))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return equalPlain(a.Elem(), b.Elem())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalPlain(a.Elem(), b.Elem())
	case reflect.Slice:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		return equalElements(a, b)
	case reflect.Array:
		return equalElements(a, b)
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !equalPlain(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equalPlain(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalElements(a, b reflect.Value) bool {
	for i := 0; i < a.Len(); i++ {
		if !equalPlain(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

func sameFloat(x, y float64) bool {
	return x == y || (x != x && y != y)
}

// cloneValue deep-copies plain data. Backed models are shared, never copied.
func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	if v.CanInterface() && v.Type().Implements(modelType) {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		if !v.CanInterface() {
			return v
		}
		return reflect.ValueOf(v.Interface()).Convert(v.Type())
	}
}

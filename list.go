package backing

import (
	"iter"
	"slices"
)

// List is an ordered collection of backed models. It is held by pointer so
// that appending to or removing from a list obtained through a getter is
// visible to the store that holds it.
type List[T Model] struct {
	items []T
}

// NewList builds a list holding items.
func NewList[T Model](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Len returns the number of elements. A nil list is empty.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the element at index i.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Append adds items to the end of the list.
func (l *List[T]) Append(items ...T) {
	l.items = append(l.items, items...)
}

// Replace swaps the element at index i.
func (l *List[T]) Replace(i int, item T) {
	l.items[i] = item
}

// RemoveAt deletes the element at index i.
func (l *List[T]) RemoveAt(i int) {
	l.items = slices.Delete(l.items, i, i+1)
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	if l == nil {
		return nil
	}
	return append([]T(nil), l.items...)
}

// All yields index/element pairs.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Models yields the elements as backed models.
func (l *List[T]) Models() iter.Seq[Model] {
	return func(yield func(Model) bool) {
		if l == nil {
			return
		}
		for _, item := range l.items {
			if !yield(item) {
				return
			}
		}
	}
}

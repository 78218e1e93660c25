// Package backing provides per-model key/value stores that track which
// properties changed since a baseline, so serializers can emit partial
// (PATCH-style) payloads while still reading the full object graph.
//
// Generated models hold exactly one Store and route every accessor through
// it using the wire property name as key:
//
//	func (u *User) DisplayName() string { return backing.ValueOf[string](u.store, "displayName") }
//	func (u *User) SetDisplayName(v string) { _ = u.store.Set("displayName", v) }
//
// Stores are not safe for concurrent use. One model instance and its store
// belong to a single logical flow (typically one request/response cycle);
// callers that share a model across goroutines must synchronise access
// themselves.
package backing

import (
	"iter"

	"github.com/google/uuid"
)

// AdditionalDataKey is the store key holding the free-form bag of properties
// that have no generated accessor.
const AdditionalDataKey = "additionalData"

//go:generate mockgen -destination=mock_store_test.go -package=backing github.com/goliatone/go-backing Model,Store

// Model is implemented by every generated model type.
type Model interface {
	BackingStore() Store
}

// Subscriber is notified synchronously on every Set.
type Subscriber func(key string, oldValue, newValue any)

// Entry is a single key/value pair returned by Enumerate.
type Entry struct {
	Key   string
	Value any
}

// Store holds the property values of one model instance.
type Store interface {
	// Get returns the value stored under key, or nil when the key was never set.
	Get(key string) (any, error)
	// Set stores value under key and notifies subscribers.
	Set(key string, value any) error
	// Enumerate returns stored pairs in insertion order. When
	// ReturnOnlyChangedValues is true only changed pairs are returned.
	Enumerate() []Entry
	// EnumerateKeysForValuesChangedToNull yields keys explicitly set to nil
	// since the last baseline. Each iteration reflects the current state.
	EnumerateKeysForValuesChangedToNull() iter.Seq[string]
	Subscribe(id string, subscriber Subscriber) error
	Unsubscribe(id string)
	Clear()
	SetIsInitializationCompleted(completed bool)
	IsInitializationCompleted() bool
	SetReturnOnlyChangedValues(only bool)
	ReturnOnlyChangedValues() bool
}

// ChangeReporter is implemented by stores that can report pending changes
// without toggling their enumeration mode.
type ChangeReporter interface {
	HasChanges() bool
}

// TrackingResumer is implemented by stores that can leave a loading phase
// without a baseline reset, keeping the changes recorded before it.
type TrackingResumer interface {
	ResumeTracking()
}

// ValueOf reads key from store and converts it to T, returning the zero value
// when the key is missing, nil or holds a different type.
func ValueOf[T any](store Store, key string) T {
	var zero T
	if store == nil {
		return zero
	}
	value, err := store.Get(key)
	if err != nil || value == nil {
		return zero
	}
	typed, ok := value.(T)
	if !ok {
		return zero
	}
	return typed
}

// Entries converts enumerated pairs into a map.
func Entries(entries []Entry) map[string]any {
	out := make(map[string]any, len(entries))
	for _, entry := range entries {
		out[entry.Key] = entry.Value
	}
	return out
}

// Keys returns the keys of entries in order.
func Keys(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Key)
	}
	return out
}

// ChangedEntries returns the changed pairs of store regardless of its current
// ReturnOnlyChangedValues mode, restoring the mode afterwards.
func ChangedEntries(store Store) []Entry {
	if store == nil {
		return nil
	}
	previous := store.ReturnOnlyChangedValues()
	store.SetReturnOnlyChangedValues(true)
	entries := store.Enumerate()
	store.SetReturnOnlyChangedValues(previous)
	return entries
}

// AllEntries returns every stored pair of store regardless of its current
// ReturnOnlyChangedValues mode, restoring the mode afterwards.
func AllEntries(store Store) []Entry {
	if store == nil {
		return nil
	}
	previous := store.ReturnOnlyChangedValues()
	store.SetReturnOnlyChangedValues(false)
	entries := store.Enumerate()
	store.SetReturnOnlyChangedValues(previous)
	return entries
}

// HasChanges reports whether store has any changed property, including
// changes reachable through nested models.
func HasChanges(store Store) bool {
	if store == nil {
		return false
	}
	if reporter, ok := store.(ChangeReporter); ok {
		return reporter.HasChanges()
	}
	return len(ChangedEntries(store)) > 0
}

// SubscribeFunc registers subscriber under a generated id and returns it.
func SubscribeFunc(store Store, subscriber Subscriber) (string, error) {
	id := uuid.NewString()
	if err := store.Subscribe(id, subscriber); err != nil {
		return "", err
	}
	return id, nil
}

// valueTable keeps values in insertion order.
type valueTable struct {
	keys   []string
	values map[string]any
}

func newValueTable() valueTable {
	return valueTable{values: map[string]any{}}
}

func (t *valueTable) get(key string) (any, bool) {
	value, ok := t.values[key]
	return value, ok
}

// put stores value and returns the previous one.
func (t *valueTable) put(key string, value any) any {
	previous, exists := t.values[key]
	if !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
	return previous
}

func (t *valueTable) len() int {
	return len(t.keys)
}

func (t *valueTable) entries() []Entry {
	out := make([]Entry, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, Entry{Key: key, Value: t.values[key]})
	}
	return out
}

func (t *valueTable) reset() {
	t.keys = nil
	t.values = map[string]any{}
}

type subscription struct {
	id       string
	callback Subscriber
}

// subscriberList keeps subscriptions in registration order.
type subscriberList struct {
	items []subscription
}

func (l *subscriberList) add(id string, callback Subscriber) {
	for i := range l.items {
		if l.items[i].id == id {
			l.items[i].callback = callback
			return
		}
	}
	l.items = append(l.items, subscription{id: id, callback: callback})
}

func (l *subscriberList) remove(id string) bool {
	for i := range l.items {
		if l.items[i].id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// notify dispatches over a copy so callbacks may subscribe, unsubscribe or
// set values on the same store.
func (l *subscriberList) notify(key string, oldValue, newValue any) {
	if len(l.items) == 0 {
		return
	}
	pending := append([]subscription(nil), l.items...)
	for _, sub := range pending {
		sub.callback(key, oldValue, newValue)
	}
}

func validateSubscription(id string, subscriber Subscriber) error {
	if id == "" {
		return storeError(OpSubscribe, "", ErrEmptySubscriptionID)
	}
	if subscriber == nil {
		return storeError(OpSubscribe, "", ErrNilSubscriber)
	}
	return nil
}

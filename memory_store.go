package backing

import (
	"iter"
	"time"
)

// keySet is an insertion-ordered set of keys.
type keySet struct {
	order []string
	index map[string]struct{}
}

func (s *keySet) has(key string) bool {
	_, ok := s.index[key]
	return ok
}

func (s *keySet) add(key string) {
	if s.index == nil {
		s.index = map[string]struct{}{}
	}
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, key)
}

func (s *keySet) remove(key string) {
	if _, ok := s.index[key]; !ok {
		return
	}
	delete(s.index, key)
	for i, existing := range s.order {
		if existing == key {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *keySet) len() int {
	return len(s.order)
}

func (s *keySet) reset() {
	s.order = nil
	s.index = nil
}

// InMemoryStore is the default Store. Properties set after the baseline are
// tracked eagerly; changes inside nested models, collections and maps are
// derived lazily on Enumerate by walking the current object graph.
type InMemoryStore struct {
	table         valueTable
	changed       keySet
	changedToNull keySet
	snapshots     map[string]any
	subscribers   subscriberList

	initializationCompleted bool
	returnOnlyChanged       bool
	snapshotsEnabled        bool
	logger                  Logger
}

var (
	_ Store           = (*InMemoryStore)(nil)
	_ ChangeReporter  = (*InMemoryStore)(nil)
	_ TrackingResumer = (*InMemoryStore)(nil)
)

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore(opts ...StoreOption) *InMemoryStore {
	cfg := applyStoreOptions(opts)
	return &InMemoryStore{
		table:                   newValueTable(),
		snapshots:               map[string]any{},
		initializationCompleted: cfg.initializationCompleted,
		returnOnlyChanged:       cfg.returnOnlyChanged,
		snapshotsEnabled:        cfg.snapshots,
		logger:                  cfg.logger,
	}
}

// Get returns the value stored under key, or nil when the key was never set.
func (s *InMemoryStore) Get(key string) (any, error) {
	if key == "" {
		return nil, storeError(OpGet, key, ErrEmptyKey)
	}
	value, _ := s.table.get(key)
	return value, nil
}

// Lookup returns the value stored under key and whether the key was ever set.
func (s *InMemoryStore) Lookup(key string) (any, bool) {
	return s.table.get(key)
}

// Set stores value under key. After the baseline the key is marked changed;
// a nil value additionally marks it changed-to-null. Subscribers are always
// notified, including while the store is still loading.
func (s *InMemoryStore) Set(key string, value any) error {
	if key == "" {
		return storeError(OpSet, key, ErrEmptyKey)
	}
	previous := s.table.put(key, value)
	if s.initializationCompleted {
		s.changed.add(key)
		if isNil(value) {
			s.changedToNull.add(key)
		} else {
			s.changedToNull.remove(key)
		}
	} else if s.snapshotsEnabled {
		s.snapshot(key, value)
	}
	s.logger.LogStore(LogEvent{Op: OpSet, Key: key})
	s.subscribers.notify(key, previous, value)
	return nil
}

// Enumerate returns stored pairs in insertion order, restricted to changed
// pairs when ReturnOnlyChangedValues is set. A pair is changed when its key
// was set after the baseline, when it reaches a nested model with changes,
// or when a collection, map or other plain value no longer matches the
// baseline snapshot.
func (s *InMemoryStore) Enumerate() []Entry {
	if !s.returnOnlyChanged {
		return s.table.entries()
	}
	start := time.Now()
	w := newWalk()
	out := make([]Entry, 0, s.changed.len())
	for _, key := range s.table.keys {
		value := s.table.values[key]
		if s.keyChanged(w, key, value) {
			out = append(out, Entry{Key: key, Value: value})
		}
	}
	s.logger.LogStore(LogEvent{
		Op:       OpEnumerate,
		Entries:  s.table.len(),
		Changed:  len(out),
		Cycles:   w.cycles,
		Duration: time.Since(start),
	})
	return out
}

// HasChanges reports whether Enumerate would return anything in
// changed-only mode.
func (s *InMemoryStore) HasChanges() bool {
	return newWalk().storeChanged(s)
}

func (s *InMemoryStore) keyChanged(w *walk, key string, value any) bool {
	if s.changed.has(key) || s.drifted(key, value) {
		return true
	}
	return w.dirty(value)
}

// locallyChanged reports changes of this store alone, ignoring nested models.
func (s *InMemoryStore) locallyChanged() bool {
	if s.changed.len() > 0 {
		return true
	}
	for _, key := range s.table.keys {
		if s.drifted(key, s.table.values[key]) {
			return true
		}
	}
	return false
}

func (s *InMemoryStore) drifted(key string, value any) bool {
	if !s.snapshotsEnabled {
		return false
	}
	shape, ok := s.snapshots[key]
	if !ok {
		return false
	}
	return !sameShape(shape, value)
}

func (s *InMemoryStore) snapshot(key string, value any) {
	switch Classify(value).Kind {
	case KindCollection, KindMap, KindOpaque:
		s.snapshots[key] = captureShape(value)
	default:
		delete(s.snapshots, key)
	}
}

// EnumerateKeysForValuesChangedToNull yields keys explicitly set to nil since
// the baseline, in the order they were nulled.
func (s *InMemoryStore) EnumerateKeysForValuesChangedToNull() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, key := range append([]string(nil), s.changedToNull.order...) {
			if !s.changedToNull.has(key) {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Subscribe registers subscriber under id, replacing any existing one.
func (s *InMemoryStore) Subscribe(id string, subscriber Subscriber) error {
	if err := validateSubscription(id, subscriber); err != nil {
		return err
	}
	s.subscribers.add(id, subscriber)
	s.logger.LogStore(LogEvent{Op: OpSubscribe, Key: id})
	return nil
}

// Unsubscribe removes the subscriber registered under id.
func (s *InMemoryStore) Unsubscribe(id string) {
	if s.subscribers.remove(id) {
		s.logger.LogStore(LogEvent{Op: OpUnsubscribe, Key: id})
	}
}

// Clear drops every value and all change tracking. Subscribers and flags are
// kept.
func (s *InMemoryStore) Clear() {
	s.table.reset()
	s.changed.reset()
	s.changedToNull.reset()
	s.snapshots = map[string]any{}
	s.logger.LogStore(LogEvent{Op: OpClear})
}

// SetIsInitializationCompleted toggles the baseline flag. Switching it on
// resets change tracking for this store and every backed model reachable
// from it.
func (s *InMemoryStore) SetIsInitializationCompleted(completed bool) {
	if !completed {
		s.initializationCompleted = false
		return
	}
	start := time.Now()
	w := newWalk()
	s.completeInitialization(w)
	s.logger.LogStore(LogEvent{
		Op:       OpBaseline,
		Entries:  s.table.len(),
		Cycles:   w.cycles,
		Duration: time.Since(start),
	})
}

func (s *InMemoryStore) completeInitialization(w *walk) {
	if !w.begin(s) {
		return
	}
	s.initializationCompleted = true
	s.changed.reset()
	s.changedToNull.reset()
	s.snapshots = map[string]any{}
	for _, key := range s.table.keys {
		value := s.table.values[key]
		w.complete(value)
		if s.snapshotsEnabled {
			s.snapshot(key, value)
		}
	}
	w.end(s)
}

// ResumeTracking switches tracking back on without resetting it. Changes
// recorded before the loading phase are reported again; values assigned
// during it are not.
func (s *InMemoryStore) ResumeTracking() {
	s.initializationCompleted = true
}

// IsInitializationCompleted reports the baseline flag.
func (s *InMemoryStore) IsInitializationCompleted() bool {
	return s.initializationCompleted
}

// SetReturnOnlyChangedValues toggles Enumerate filtering.
func (s *InMemoryStore) SetReturnOnlyChangedValues(only bool) {
	s.returnOnlyChanged = only
}

// ReturnOnlyChangedValues reports the Enumerate filtering mode.
func (s *InMemoryStore) ReturnOnlyChangedValues() bool {
	return s.returnOnlyChanged
}

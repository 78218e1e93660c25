package backing

import "iter"

// UntrackedStore stores values and notifies subscribers but never records
// changes. Enumerate always returns every pair, so models built on it are
// always serialized in full.
type UntrackedStore struct {
	table       valueTable
	subscribers subscriberList

	initializationCompleted bool
	returnOnlyChanged       bool
}

var (
	_ Store          = (*UntrackedStore)(nil)
	_ ChangeReporter = (*UntrackedStore)(nil)
)

// NewUntrackedStore constructs an empty tracking-disabled store.
func NewUntrackedStore() *UntrackedStore {
	return &UntrackedStore{table: newValueTable(), initializationCompleted: true}
}

func (s *UntrackedStore) Get(key string) (any, error) {
	if key == "" {
		return nil, storeError(OpGet, key, ErrEmptyKey)
	}
	value, _ := s.table.get(key)
	return value, nil
}

func (s *UntrackedStore) Set(key string, value any) error {
	if key == "" {
		return storeError(OpSet, key, ErrEmptyKey)
	}
	previous := s.table.put(key, value)
	s.subscribers.notify(key, previous, value)
	return nil
}

func (s *UntrackedStore) Enumerate() []Entry {
	return s.table.entries()
}

func (s *UntrackedStore) EnumerateKeysForValuesChangedToNull() iter.Seq[string] {
	return func(func(string) bool) {}
}

// HasChanges always reports false; an untracked model never contributes to a
// parent's partial payload unless the parent sets it again.
func (s *UntrackedStore) HasChanges() bool {
	return false
}

func (s *UntrackedStore) Subscribe(id string, subscriber Subscriber) error {
	if err := validateSubscription(id, subscriber); err != nil {
		return err
	}
	s.subscribers.add(id, subscriber)
	return nil
}

func (s *UntrackedStore) Unsubscribe(id string) {
	s.subscribers.remove(id)
}

func (s *UntrackedStore) Clear() {
	s.table.reset()
}

func (s *UntrackedStore) SetIsInitializationCompleted(completed bool) {
	s.initializationCompleted = completed
}

func (s *UntrackedStore) IsInitializationCompleted() bool {
	return s.initializationCompleted
}

func (s *UntrackedStore) SetReturnOnlyChangedValues(only bool) {
	s.returnOnlyChanged = only
}

func (s *UntrackedStore) ReturnOnlyChangedValues() bool {
	return s.returnOnlyChanged
}

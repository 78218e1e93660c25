package backing

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistrySealsOnFirstStore(t *testing.T) {
	registry := NewRegistry(nil)
	if registry.Sealed() {
		t.Fatalf("expected new registry to be open")
	}
	if err := registry.Override(nil); !errors.Is(err, ErrNilFactory) {
		t.Fatalf("expected ErrNilFactory, got %v", err)
	}
	if err := registry.Override(UntrackedFactory()); err != nil {
		t.Fatalf("override: %v", err)
	}

	store := registry.NewStore()
	if _, ok := store.(*UntrackedStore); !ok {
		t.Fatalf("expected overridden factory to be used, got %T", store)
	}
	if !registry.Sealed() {
		t.Fatalf("expected registry to be sealed after producing a store")
	}
	if err := registry.Override(InMemoryFactory()); !errors.Is(err, ErrFactorySealed) {
		t.Fatalf("expected ErrFactorySealed, got %v", err)
	}
	if _, ok := registry.NewStore().(*UntrackedStore); !ok {
		t.Fatalf("expected sealed registry to keep its factory")
	}
}

func TestInMemoryFactoryAppliesOptions(t *testing.T) {
	factory := InMemoryFactory(WithInitializationCompleted(false), WithReturnOnlyChangedValues(true))
	store := NewStore(factory)

	if store.IsInitializationCompleted() {
		t.Fatalf("expected factory option to leave store loading")
	}
	if !store.ReturnOnlyChangedValues() {
		t.Fatalf("expected factory option to enable changed-only mode")
	}
	if NewStore(factory) == store {
		t.Fatalf("expected a new store per call")
	}
}

func TestFactoryFuncNilFallsBack(t *testing.T) {
	var factory FactoryFunc
	if _, ok := factory.NewStore().(*InMemoryStore); !ok {
		t.Fatalf("expected nil FactoryFunc to produce an InMemoryStore")
	}
}

func TestUntrackedStoreNeverReportsChanges(t *testing.T) {
	store := NewUntrackedStore()
	var keys []string
	_ = store.Subscribe("keys", func(key string, _, _ any) { keys = append(keys, key) })

	_ = store.Set("id", "u-1")
	_ = store.Set("name", nil)
	store.SetReturnOnlyChangedValues(true)

	if got := Keys(store.Enumerate()); !slices.Equal(got, []string{"id", "name"}) {
		t.Fatalf("expected every pair, got %v", got)
	}
	if HasChanges(store) {
		t.Fatalf("expected untracked store to report no changes")
	}
	if got := nullKeys(store); len(got) != 0 {
		t.Fatalf("expected no null keys, got %v", got)
	}
	if !slices.Equal(keys, []string{"id", "name"}) {
		t.Fatalf("expected subscribers notified, got %v", keys)
	}
	if err := store.Set("", 1); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestUntrackedChildDoesNotDirtyParent(t *testing.T) {
	child := &untracked{store: NewUntrackedStore()}
	parent := newNode().load(t, "child", child)

	_ = child.store.Set("name", "Ada")

	if HasChanges(parent.store) {
		t.Fatalf("expected untracked child to leave parent clean")
	}
}

type untracked struct {
	store *UntrackedStore
}

func (u *untracked) BackingStore() Store { return u.store }

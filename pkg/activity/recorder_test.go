package activity

import (
	"context"
	"errors"
	"testing"

	backing "github.com/goliatone/go-backing"
)

func newRecorder(t *testing.T, store backing.Store, capture *CaptureHook, opts ...RecorderOption) *Recorder {
	t.Helper()
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})
	recorder, err := Record(store, emitter, opts...)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return recorder
}

func TestRecorderEmitsChangedAndCleared(t *testing.T) {
	store := backing.NewInMemoryStore()
	capture := &CaptureHook{}
	newRecorder(t, store, capture, WithTemplate(ChangeEventInput{ObjectType: "user", ObjectID: "u-1", ActorID: "admin"}))

	_ = store.Set("displayName", "Ada")
	_ = store.Set("displayName", nil)

	verbs := capture.Verbs()
	if len(verbs) != 2 || verbs[0] != VerbPropertyChanged || verbs[1] != VerbPropertyCleared {
		t.Fatalf("unexpected verbs: %v", verbs)
	}
	first := capture.Events[0]
	if first.ObjectID != "u-1" || first.ActorID != "admin" || first.Property != "displayName" || first.Channel != DefaultChannel {
		t.Fatalf("unexpected event fields: %+v", first)
	}
	if capture.Events[1].Metadata["old_value"] != "Ada" {
		t.Fatalf("expected cleared event to carry old value, got %+v", capture.Events[1].Metadata)
	}
}

func TestRecorderSkipsLoadingPhase(t *testing.T) {
	store := backing.NewInMemoryStore(backing.WithInitializationCompleted(false))
	capture := &CaptureHook{}
	newRecorder(t, store, capture)

	_ = store.Set("id", "u-1")
	store.SetIsInitializationCompleted(true)
	_ = store.Set("id", "u-2")

	if len(capture.Events) != 1 {
		t.Fatalf("expected only post-baseline set recorded, got %d", len(capture.Events))
	}
}

func TestRecorderRecordLoading(t *testing.T) {
	store := backing.NewInMemoryStore(backing.WithInitializationCompleted(false))
	capture := &CaptureHook{}
	newRecorder(t, store, capture, WithRecordLoading(true))

	_ = store.Set("id", "u-1")

	if len(capture.Events) != 1 {
		t.Fatalf("expected loading set recorded, got %d", len(capture.Events))
	}
}

func TestRecorderBaseline(t *testing.T) {
	store := backing.NewInMemoryStore()
	capture := &CaptureHook{}
	recorder := newRecorder(t, store, capture)

	_ = store.Set("id", "u-1")
	_ = store.Set("displayName", "Ada")
	if err := recorder.Baseline(context.Background()); err != nil {
		t.Fatalf("baseline: %v", err)
	}

	last := capture.Events[len(capture.Events)-1]
	if last.Verb != VerbBaseline {
		t.Fatalf("expected baseline event, got %s", last.Verb)
	}
	keys, _ := last.Metadata["keys"].([]string)
	if len(keys) != 2 || keys[0] != "id" || keys[1] != "displayName" {
		t.Fatalf("expected changed keys listed, got %v", last.Metadata["keys"])
	}
	if backing.HasChanges(store) {
		t.Fatalf("expected baseline to reset change tracking")
	}
}

func TestRecorderCollectsHookErrors(t *testing.T) {
	boom := errors.New("sink down")
	store := backing.NewInMemoryStore()
	capture := &CaptureHook{Err: boom}
	recorder := newRecorder(t, store, capture)

	if err := store.Set("id", "u-1"); err != nil {
		t.Fatalf("set must not fail on hook errors: %v", err)
	}
	if !errors.Is(recorder.Err(), boom) {
		t.Fatalf("expected hook error collected, got %v", recorder.Err())
	}

	var handled []error
	other := newRecorder(t, backing.NewInMemoryStore(), &CaptureHook{Err: boom}, WithErrorHandler(func(err error) {
		handled = append(handled, err)
	}))
	_ = other.store.Set("id", "u-1")
	if len(handled) != 1 || other.Err() != nil {
		t.Fatalf("expected error routed to handler, got %v / %v", handled, other.Err())
	}
}

func TestRecorderClose(t *testing.T) {
	store := backing.NewInMemoryStore()
	capture := &CaptureHook{}
	recorder := newRecorder(t, store, capture)

	recorder.Close()
	_ = store.Set("id", "u-1")

	if len(capture.Events) != 0 {
		t.Fatalf("expected no events after close, got %d", len(capture.Events))
	}
}

func TestRecordRejectsNilStore(t *testing.T) {
	if _, err := Record(nil, NewEmitter(nil, Config{})); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

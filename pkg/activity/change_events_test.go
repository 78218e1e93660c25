package activity

import (
	"testing"
	"time"

	backing "github.com/goliatone/go-backing"
)

type fakeModel struct{}

func (fakeModel) BackingStore() backing.Store { return backing.NewUntrackedStore() }

func TestBuildPropertyChangedEventRecordsScalarValues(t *testing.T) {
	meta := map[string]any{"request_id": "r-1"}
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	event := BuildPropertyChangedEvent(ChangeEventInput{
		ActorID:    " actor ",
		ObjectType: "user",
		ObjectID:   "u-1",
		Key:        "displayName",
		OldValue:   "Ada",
		NewValue:   "Grace",
		Metadata:   meta,
		OccurredAt: at,
	})

	if event.Verb != VerbPropertyChanged {
		t.Fatalf("expected verb %s got %s", VerbPropertyChanged, event.Verb)
	}
	if event.ObjectType != "user" || event.ObjectID != "u-1" || event.Property != "displayName" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["key"] != "displayName" || event.Metadata["old_value"] != "Ada" || event.Metadata["new_value"] != "Grace" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["request_id"] != "r-1" {
		t.Fatalf("expected metadata passthrough, got %+v", event.Metadata)
	}
	event.Metadata["request_id"] = "changed"
	if meta["request_id"] != "r-1" {
		t.Fatalf("expected input metadata untouched")
	}
	if !event.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", event.OccurredAt)
	}
}

func TestBuildPropertyChangedEventRecordsCompositeKinds(t *testing.T) {
	event := BuildPropertyChangedEvent(ChangeEventInput{
		Key:      "manager",
		OldValue: []any{"a"},
		NewValue: fakeModel{},
	})

	if event.ObjectType != DefaultObjectType || event.ObjectID != DefaultObjectType {
		t.Fatalf("expected default object fields, got %+v", event)
	}
	if event.Metadata["new_kind"] != "model" || event.Metadata["old_kind"] != "collection" {
		t.Fatalf("expected kinds recorded, got %+v", event.Metadata)
	}
	if _, ok := event.Metadata["new_value"]; ok {
		t.Fatalf("expected composite value omitted, got %+v", event.Metadata)
	}
}

func TestBuildPropertyClearedEvent(t *testing.T) {
	event := BuildPropertyClearedEvent(ChangeEventInput{ObjectID: "u-1", Key: "displayName", OldValue: "Ada"})

	if event.Verb != VerbPropertyCleared {
		t.Fatalf("expected verb %s got %s", VerbPropertyCleared, event.Verb)
	}
	if event.Metadata["old_value"] != "Ada" {
		t.Fatalf("expected old value, got %+v", event.Metadata)
	}
	if _, ok := event.Metadata["new_value"]; ok {
		t.Fatalf("expected no new value for cleared property")
	}
}

func TestBuildBaselineEventListsKeys(t *testing.T) {
	keys := []string{"displayName", "manager"}
	event := BuildBaselineEvent(ChangeEventInput{ObjectID: "u-1", Keys: keys})

	if event.Verb != VerbBaseline || event.Property != "" {
		t.Fatalf("unexpected baseline event: %+v", event)
	}
	got, ok := event.Metadata["keys"].([]string)
	if !ok || len(got) != 2 || got[0] != "displayName" {
		t.Fatalf("expected keys metadata, got %v", event.Metadata["keys"])
	}
	got[0] = "changed"
	if keys[0] != "displayName" {
		t.Fatalf("expected input keys untouched")
	}
}

package activity

import (
	"strings"
	"time"

	backing "github.com/goliatone/go-backing"
)

const (
	VerbPropertyChanged = "model.property.changed"
	VerbPropertyCleared = "model.property.cleared"
	VerbBaseline        = "model.baseline"

	// DefaultObjectType is used when the input names no model type.
	DefaultObjectType = "model"
)

// ChangeEventInput describes the common fields for model change events.
type ChangeEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Key        string
	OldValue   any
	NewValue   any
	// Keys lists the properties a baseline discarded as changed.
	Keys       []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildPropertyChangedEvent constructs an event for a property set to a
// non-nil value.
func BuildPropertyChangedEvent(input ChangeEventInput) Event {
	event := buildChangeEvent(VerbPropertyChanged, input)
	event.Metadata = withValue(event.Metadata, "old", input.OldValue)
	event.Metadata = withValue(event.Metadata, "new", input.NewValue)
	return event
}

// BuildPropertyClearedEvent constructs an event for a property set to nil.
func BuildPropertyClearedEvent(input ChangeEventInput) Event {
	event := buildChangeEvent(VerbPropertyCleared, input)
	event.Metadata = withValue(event.Metadata, "old", input.OldValue)
	return event
}

// BuildBaselineEvent constructs an event for a completed initialization that
// reset change tracking.
func BuildBaselineEvent(input ChangeEventInput) Event {
	event := buildChangeEvent(VerbBaseline, input)
	if len(input.Keys) > 0 {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["keys"] = append([]string{}, input.Keys...)
	}
	return event
}

func buildChangeEvent(verb string, input ChangeEventInput) Event {
	metadata := cloneMap(input.Metadata)
	key := strings.TrimSpace(input.Key)
	if key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = key
	}

	objectType := strings.TrimSpace(input.ObjectType)
	if objectType == "" {
		objectType = DefaultObjectType
	}
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Property:   key,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// withValue records value under name_value when it is a scalar. Models,
// collections and other composite values are recorded by kind only.
func withValue(metadata map[string]any, name string, value any) map[string]any {
	node := backing.Classify(value)
	switch node.Kind {
	case backing.KindNull:
		return metadata
	case backing.KindScalar:
		metadata = ensureMetadata(metadata)
		metadata[name+"_value"] = value
	default:
		metadata = ensureMetadata(metadata)
		metadata[name+"_kind"] = node.Kind.String()
	}
	return metadata
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

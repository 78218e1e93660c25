// Package testmodels holds generated-style models used by tests and examples.
package testmodels

import (
	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/serialization"
	"github.com/google/uuid"
)

// User mirrors the shape of a generated directory user model.
type User struct {
	store backing.Store
}

var _ serialization.Parsable = (*User)(nil)

// NewUser builds a user backed by a store from the default registry.
func NewUser() *User {
	return NewUserWithFactory(nil)
}

// NewUserWithFactory builds a user backed by a store from factory.
func NewUserWithFactory(factory backing.Factory) *User {
	u := &User{store: backing.NewStore(factory)}
	u.SetAdditionalData(map[string]any{})
	return u
}

// CreateUserFromDiscriminatorValue is the parse-node factory for User.
func CreateUserFromDiscriminatorValue(serialization.ParseNode) (serialization.Parsable, error) {
	return NewUser(), nil
}

func (u *User) BackingStore() backing.Store {
	return u.store
}

func (u *User) ID() string {
	return backing.ValueOf[string](u.store, "id")
}

func (u *User) SetID(value string) {
	_ = u.store.Set("id", value)
}

func (u *User) DisplayName() *string {
	value, _ := u.store.Get("displayName")
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}

func (u *User) SetDisplayName(value *string) {
	if value == nil {
		_ = u.store.Set("displayName", nil)
		return
	}
	_ = u.store.Set("displayName", *value)
}

func (u *User) AccountEnabled() bool {
	return backing.ValueOf[bool](u.store, "accountEnabled")
}

func (u *User) SetAccountEnabled(value bool) {
	_ = u.store.Set("accountEnabled", value)
}

func (u *User) ExternalID() uuid.UUID {
	return backing.ValueOf[uuid.UUID](u.store, "externalId")
}

func (u *User) SetExternalID(value uuid.UUID) {
	_ = u.store.Set("externalId", value)
}

func (u *User) BusinessPhones() []string {
	return backing.ValueOf[[]string](u.store, "businessPhones")
}

func (u *User) SetBusinessPhones(value []string) {
	_ = u.store.Set("businessPhones", value)
}

func (u *User) Manager() *User {
	return backing.ValueOf[*User](u.store, "manager")
}

func (u *User) SetManager(value *User) {
	if value == nil {
		_ = u.store.Set("manager", nil)
		return
	}
	_ = u.store.Set("manager", value)
}

func (u *User) Colleagues() *backing.List[*User] {
	return backing.ValueOf[*backing.List[*User]](u.store, "colleagues")
}

func (u *User) SetColleagues(value *backing.List[*User]) {
	_ = u.store.Set("colleagues", value)
}

func (u *User) Reports() map[string]*User {
	return backing.ValueOf[map[string]*User](u.store, "reports")
}

func (u *User) SetReports(value map[string]*User) {
	_ = u.store.Set("reports", value)
}

func (u *User) AdditionalData() map[string]any {
	return backing.ValueOf[map[string]any](u.store, backing.AdditionalDataKey)
}

func (u *User) SetAdditionalData(value map[string]any) {
	_ = u.store.Set(backing.AdditionalDataKey, value)
}

func (u *User) FieldDeserializers() map[string]serialization.FieldDeserializer {
	return map[string]serialization.FieldDeserializer{
		"id": func(node serialization.ParseNode) error {
			value, err := node.StringValue()
			if err != nil {
				return err
			}
			if value != nil {
				u.SetID(*value)
			}
			return nil
		},
		"displayName": func(node serialization.ParseNode) error {
			value, err := node.StringValue()
			if err != nil {
				return err
			}
			u.SetDisplayName(value)
			return nil
		},
		"accountEnabled": func(node serialization.ParseNode) error {
			value, err := node.BoolValue()
			if err != nil {
				return err
			}
			if value != nil {
				u.SetAccountEnabled(*value)
			}
			return nil
		},
		"externalId": func(node serialization.ParseNode) error {
			value, err := node.UUIDValue()
			if err != nil {
				return err
			}
			if value != nil {
				u.SetExternalID(*value)
			}
			return nil
		},
		"businessPhones": func(node serialization.ParseNode) error {
			value, err := node.CollectionOfStringValues()
			if err != nil {
				return err
			}
			u.SetBusinessPhones(value)
			return nil
		},
		"manager": func(node serialization.ParseNode) error {
			value, err := node.ObjectValue(CreateUserFromDiscriminatorValue)
			if err != nil {
				return err
			}
			if value == nil {
				u.SetManager(nil)
				return nil
			}
			u.SetManager(value.(*User))
			return nil
		},
		"colleagues": func(node serialization.ParseNode) error {
			values, err := node.CollectionOfObjectValues(CreateUserFromDiscriminatorValue)
			if err != nil {
				return err
			}
			if values == nil {
				u.SetColleagues(nil)
				return nil
			}
			list := backing.NewList[*User]()
			for _, value := range values {
				if user, ok := value.(*User); ok {
					list.Append(user)
				}
			}
			u.SetColleagues(list)
			return nil
		},
		"reports": func(node serialization.ParseNode) error {
			if node.IsNull() {
				u.SetReports(nil)
				return nil
			}
			reports := map[string]*User{}
			for _, key := range node.Keys() {
				child, err := node.ChildNode(key)
				if err != nil {
					return err
				}
				value, err := child.ObjectValue(CreateUserFromDiscriminatorValue)
				if err != nil {
					return err
				}
				if value != nil {
					reports[key] = value.(*User)
				}
			}
			u.SetReports(reports)
			return nil
		},
	}
}

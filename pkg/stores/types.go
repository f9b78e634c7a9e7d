package stores

import (
	"bytes"
	"context"
	"encoding/json"
)

// Todo is the sole persisted entity.
type Todo struct {
	ID        string `json:"id" validate:"required,recordid"`
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

// Optional marks a value as present or absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// UnmarshalJSON marks the value as present when its key appears in the
// document. An explicit null is treated as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// TodoUpdate is a partial update. Only fields that are set are written.
type TodoUpdate struct {
	Title     Optional[string] `json:"title"`
	Completed Optional[bool]   `json:"completed"`
}

// IsEmpty reports whether no field is set.
func (u TodoUpdate) IsEmpty() bool {
	return !u.Title.IsSet() && !u.Completed.IsSet()
}

// apply merges the set fields over t.
func (u TodoUpdate) apply(t *Todo) {
	if title, ok := u.Title.Get(); ok {
		t.Title = title
	}
	if completed, ok := u.Completed.Get(); ok {
		t.Completed = completed
	}
}

// Store defines the interface for the todo persistence layer.
//
// Update and Remove resolve a missing record to a nil result with a nil
// error; every other failure is returned as an error.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) error

	// Reads. Result order is unspecified.
	FetchAll(ctx context.Context) ([]*Todo, error)
	FetchByCompleted(ctx context.Context, completed bool) ([]*Todo, error)

	// Writes
	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error)
	Remove(ctx context.Context, id string) (*string, error)
}

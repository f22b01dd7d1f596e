// Package learning provides the learning item domain model and its store.
package learning

import (
	"context"
	"errors"
)

//go:generate mockgen -source=repository.go -destination=../mocks/learning/mock_repository.go -package=mock_learning

// ErrNotFound is returned when no item exists for the requested id.
var ErrNotFound = errors.New("learning item not found")

// Filter narrows FindAll. Empty fields match everything.
type Filter struct {
	Status     Status
	Topic      string
	Difficulty Difficulty
}

// Repository persists learning items keyed by id.
type Repository interface {
	// FindByID returns nil without an error when the item does not exist.
	FindByID(ctx context.Context, id string) (*Item, error)
	FindAll(ctx context.Context, filter Filter) ([]Item, error)
	Create(ctx context.Context, item *Item) error
	// Update loads the item, applies fn and persists the result atomically.
	// History records appended by fn are stored; existing ones are never rewritten.
	Update(ctx context.Context, id string, fn func(item *Item) error) (*Item, error)
}

// Package session keeps one navbar state per browser session.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

// ErrNotFound is returned by Get when the session has no stored state.
var ErrNotFound = errors.New("session not found")

// UpdateFunc computes the next state from the current one.
// Returning an error aborts the update and leaves the stored state untouched.
type UpdateFunc func(current domain.State) (domain.State, error)

// Store persists navbar state per session id.
//
// Update must be atomic per id: two concurrent updates of the same session
// are applied one after the other, never interleaved.
type Store interface {
	Get(ctx context.Context, id string) (domain.State, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (prev, next domain.State, err error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like something NewID produced.
// Anything else is treated as a missing session.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Load returns the stored state, or the initial state when the session is
// unknown.
func Load(ctx context.Context, s Store, id string) (domain.State, error) {
	st, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return domain.InitialState(), nil
	}
	return st, err
}

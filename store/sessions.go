package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Sessions is a typed session store keyed by generated run identifiers.
// T is serialized through JSON, so it must round-trip cleanly.
type Sessions[T any] struct {
	adapter Adapter
}

// NewSessions creates a session store on top of an adapter.
func NewSessions[T any](adapter Adapter) *Sessions[T] {
	return &Sessions[T]{adapter: adapter}
}

// Create stores an initial value under a fresh run identifier and
// returns the identifier.
func (s *Sessions[T]) Create(ctx context.Context, value T) (string, error) {
	id := uuid.NewString()
	if err := s.Put(ctx, id, value); err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves a session by identifier. Returns ok=false when the
// identifier is unknown.
func (s *Sessions[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var value T

	raw, ok, err := s.adapter.Get(ctx, id)
	if err != nil || !ok {
		return value, ok, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("store: decode session %s: %w", id, err)
	}
	return value, true, nil
}

// Put stores a session value under an existing identifier.
func (s *Sessions[T]) Put(ctx context.Context, id string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode session %s: %w", id, err)
	}
	return s.adapter.Set(ctx, id, raw)
}

// Delete removes a session.
func (s *Sessions[T]) Delete(ctx context.Context, id string) error {
	return s.adapter.Delete(ctx, id)
}

// IDs returns all active session identifiers.
func (s *Sessions[T]) IDs(ctx context.Context) ([]string, error) {
	return s.adapter.Keys(ctx)
}

// Len returns the number of active sessions.
func (s *Sessions[T]) Len(ctx context.Context) (int, error) {
	return s.adapter.Len(ctx)
}

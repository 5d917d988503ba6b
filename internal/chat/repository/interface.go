// Package repository defines the key-value session store seam. Handlers
// and use cases depend only on this interface; the shipped backing is the
// in-memory store in repository/memory, a durable store can slot in behind
// the same interface.
package repository

import (
	"context"

	"datachat/internal/chat"
)

// Repository is the session store.
type Repository interface {
	// GetSession returns the session with the given ID, or ErrSessionNotFound.
	GetSession(ctx context.Context, id string) (*chat.Session, error)

	// SaveSession inserts or replaces a session and refreshes its TTL.
	SaveSession(ctx context.Context, session *chat.Session) error

	// DeleteSession removes a session. Deleting an unknown ID is not an error.
	DeleteSession(ctx context.Context, id string) error

	// CountSessions returns the number of live sessions.
	CountSessions(ctx context.Context) int
}

package session

import "context"

// Store defines the interface for caching authenticated sessions.
type Store interface {
	// Create stores a session under key, replacing any existing entry.
	// CreatedAt is set by the store.
	Create(ctx context.Context, key string, data *SessionData) error

	// Get retrieves a session by key.
	// Returns nil if the session is not found (not an error).
	Get(ctx context.Context, key string) (*SessionData, error)

	// Delete deletes a session by key.
	Delete(ctx context.Context, key string) error

	// Close closes the store and releases any resources.
	Close() error
}

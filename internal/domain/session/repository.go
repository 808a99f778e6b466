package session

import (
	"context"
	"errors"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists the bearer token of a browser session under TokenKey.
type TokenStore interface {
	// Load returns ErrTokenNotFound when nothing is stored.
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	// Delete is a no-op for unknown sessions.
	Delete(ctx context.Context, sessionID string) error
}

package tokenmock

import (
	"context"

	"bookkeeping-web/internal/domain/session"
)

// Store is an in-memory session.TokenStore. The Fn hooks, when set, replace
// the default behaviour.
type Store struct {
	Tokens map[string]string

	LoadFn   func(ctx context.Context, sessionID string) (string, error)
	SaveFn   func(ctx context.Context, sessionID, token string) error
	DeleteFn func(ctx context.Context, sessionID string) error
}

func New() *Store { return &Store{Tokens: map[string]string{}} }

func (m *Store) Load(ctx context.Context, sessionID string) (string, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx, sessionID)
	}
	tok, ok := m.Tokens[sessionID]
	if !ok {
		return "", session.ErrTokenNotFound
	}
	return tok, nil
}

func (m *Store) Save(ctx context.Context, sessionID, token string) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, sessionID, token)
	}
	if m.Tokens == nil {
		m.Tokens = map[string]string{}
	}
	m.Tokens[sessionID] = token
	return nil
}

func (m *Store) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, sessionID)
	}
	delete(m.Tokens, sessionID)
	return nil
}

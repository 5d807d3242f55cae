package ports

import (
	"context"
	"errors"
	"pathmatrix-service/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Port: storage for per-user sessions.
type SessionStore interface {
	// Return the session or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Create or replace a session.
	Save(ctx context.Context, s *domain.Session) error
}

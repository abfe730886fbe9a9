package driven

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// SessionStore persists the authentication session between runs.
type SessionStore interface {
	// LoadSession returns the stored session.
	// Returns domain.ErrNotFound when nobody is signed in.
	LoadSession(ctx context.Context) (*domain.Session, error)

	// SaveSession replaces the stored session.
	SaveSession(ctx context.Context, session domain.Session) error

	// ClearSession removes the stored session. Clearing an empty store is not an error.
	ClearSession(ctx context.Context) error
}

package driven

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// AuthAPI exchanges credentials for a session.
type AuthAPI interface {
	// Login authenticates an existing account.
	// Returns domain.ErrAuthInvalid wrapped with the backend message on rejection.
	Login(ctx context.Context, form domain.LoginForm) (*domain.Session, error)

	// Signup registers a new account and returns its session.
	Signup(ctx context.Context, form domain.SignupForm) (*domain.Session, error)
}

// UserAPI manages the signed-in user's account.
type UserAPI interface {
	// Me returns the profile of the session owner.
	Me(ctx context.Context) (*domain.UserProfile, error)

	// UpdateProfile uploads profile changes, including an optional avatar.
	UpdateProfile(ctx context.Context, form domain.ProfileForm) error

	// DeleteAccount removes the session owner's account.
	DeleteAccount(ctx context.Context) error
}

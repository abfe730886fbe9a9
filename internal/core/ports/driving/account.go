package driving

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// AuthService manages the authenticated session.
type AuthService interface {
	// Login authenticates and stores the session.
	Login(ctx context.Context, form domain.LoginForm) (*domain.User, error)

	// Signup registers an account and stores the session.
	Signup(ctx context.Context, form domain.SignupForm) (*domain.User, error)

	// Logout discards the stored session.
	Logout(ctx context.Context) error

	// Session returns the stored session.
	// Returns domain.ErrAuthRequired when nobody is signed in.
	Session(ctx context.Context) (*domain.Session, error)

	// IsTokenValid reports whether a stored token exists and has not expired.
	IsTokenValid(ctx context.Context) bool

	// HasDoctorRole reports whether the session belongs to a doctor.
	HasDoctorRole(ctx context.Context) bool

	// CurrentUser returns the signed-in user.
	// Returns domain.ErrAuthRequired when nobody is signed in.
	CurrentUser(ctx context.Context) (*domain.User, error)

	// SubscribeUser receives the signed-in user, nil after logout.
	SubscribeUser(fn func(*domain.User)) func()
}

// UserService manages the signed-in user's profile.
type UserService interface {
	// Profile fetches the profile and publishes it.
	Profile(ctx context.Context) (*domain.UserProfile, error)

	// EnsureLoaded returns the cached profile, fetching it on first use.
	EnsureLoaded(ctx context.Context) (*domain.UserProfile, error)

	// Update uploads profile changes and refreshes the cached profile.
	Update(ctx context.Context, form domain.ProfileForm) (*domain.UserProfile, error)

	// DeleteAccount removes the account and logs out.
	DeleteAccount(ctx context.Context) error

	// SubscribeProfile receives every published profile.
	SubscribeProfile(fn func(*domain.UserProfile)) func()
}

package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ensure UserService implements the interface.
var _ driving.UserService = (*UserService)(nil)

// UserService caches the signed-in user's profile.
type UserService struct {
	api     driven.UserAPI
	auth    driving.AuthService
	profile *Subject[*domain.UserProfile]
}

// NewUserService creates a new user service.
func NewUserService(api driven.UserAPI, auth driving.AuthService) *UserService {
	s := &UserService{
		api:     api,
		auth:    auth,
		profile: NewBehaviorSubject[*domain.UserProfile](nil),
	}
	// A different or absent user invalidates the cached profile.
	auth.SubscribeUser(func(u *domain.User) {
		if cached, _ := s.profile.Value(); cached != nil && (u == nil || u.ID != cached.ID) {
			s.profile.Publish(nil)
		}
	})
	return s
}

// Profile fetches the profile and publishes it.
func (s *UserService) Profile(ctx context.Context) (*domain.UserProfile, error) {
	p, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	s.profile.Publish(p)
	return p, nil
}

// EnsureLoaded returns the cached profile, fetching it on first use.
func (s *UserService) EnsureLoaded(ctx context.Context) (*domain.UserProfile, error) {
	if cached, _ := s.profile.Value(); cached != nil {
		return cached, nil
	}
	return s.Profile(ctx)
}

// Update uploads profile changes and refreshes the cached profile.
func (s *UserService) Update(ctx context.Context, form domain.ProfileForm) (*domain.UserProfile, error) {
	if err := ValidateStruct(form); err != nil {
		return nil, err
	}
	if form.AvatarPath != "" {
		if _, err := os.Stat(form.AvatarPath); err != nil {
			return nil, fmt.Errorf("%w: avatar: %v", domain.ErrInvalidInput, err)
		}
	}
	if err := s.api.UpdateProfile(ctx, form); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx)
}

// DeleteAccount removes the account and logs out.
func (s *UserService) DeleteAccount(ctx context.Context) error {
	if err := s.api.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.profile.Publish(nil)
	return s.auth.Logout(ctx)
}

// SubscribeProfile receives every published profile.
func (s *UserService) SubscribeProfile(fn func(*domain.UserProfile)) func() {
	return s.profile.Subscribe(fn)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService logs users in and out and answers session questions.
type AuthService struct {
	api      driven.AuthAPI
	sessions driven.SessionStore
	user     *Subject[*domain.User]
	clock    func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(api driven.AuthAPI, sessions driven.SessionStore) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		user:     NewBehaviorSubject[*domain.User](nil),
		clock:    time.Now,
	}
}

// Login authenticates and stores the session.
func (s *AuthService) Login(ctx context.Context, form domain.LoginForm) (*domain.User, error) {
	if err := ValidateStruct(form); err != nil {
		return nil, err
	}
	session, err := s.api.Login(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.store(ctx, session)
}

// Signup registers an account and stores the session.
func (s *AuthService) Signup(ctx context.Context, form domain.SignupForm) (*domain.User, error) {
	if err := ValidateStruct(form); err != nil {
		return nil, err
	}
	session, err := s.api.Signup(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return s.store(ctx, session)
}

// Logout discards the stored session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.user.Publish(nil)
	return nil
}

// Session returns the stored session.
// Returns domain.ErrAuthRequired when nobody is signed in.
func (s *AuthService) Session(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.LoadSession(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthRequired
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Token == "" {
		return nil, domain.ErrAuthRequired
	}
	return session, nil
}

// IsTokenValid reports whether a stored token exists and has not expired.
// The token's exp claim wins over the expiry recorded at login.
func (s *AuthService) IsTokenValid(ctx context.Context) bool {
	session, err := s.Session(ctx)
	if err != nil {
		return false
	}
	return s.valid(session)
}

// HasDoctorRole reports whether a valid session belongs to a doctor.
func (s *AuthService) HasDoctorRole(ctx context.Context) bool {
	session, err := s.Session(ctx)
	if err != nil || !s.valid(session) {
		return false
	}
	if role, ok := tokenRole(session.Token); ok {
		return role == domain.RoleDoctor
	}
	return session.User.IsDoctor()
}

// CurrentUser returns the signed-in user.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !s.valid(session) {
		return nil, domain.ErrAuthExpired
	}
	user := session.User
	return &user, nil
}

// SubscribeUser receives the signed-in user, nil after logout.
func (s *AuthService) SubscribeUser(fn func(*domain.User)) func() {
	return s.user.Subscribe(fn)
}

func (s *AuthService) store(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if exp, ok := tokenExpiry(session.Token); ok && session.ExpiresAt.IsZero() {
		session.ExpiresAt = exp
	}
	if err := s.sessions.SaveSession(ctx, *session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	logger.Debug("signed in as %s (%s)", session.User.Email, session.User.Role)

	user := session.User
	s.user.Publish(&user)
	return &user, nil
}

func (s *AuthService) valid(session *domain.Session) bool {
	now := s.clock()
	if exp, ok := tokenExpiry(session.Token); ok {
		return now.Before(exp)
	}
	return !session.Expired(now)
}

// tokenClaims decodes the claims of a JWT without verifying its signature.
// The backend verifies tokens; the client only reads them.
func tokenClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func tokenExpiry(token string) (time.Time, bool) {
	claims, ok := tokenClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func tokenRole(token string) (domain.Role, bool) {
	claims, ok := tokenClaims(token)
	if !ok {
		return 0, false
	}
	for _, key := range []string{"role_id", "role"} {
		switch v := claims[key].(type) {
		case float64:
			return domain.Role(int(v)), true
		case string:
			if r, ok := domain.ParseRole(v); ok {
				return r, true
			}
			if n, err := strconv.Atoi(v); err == nil {
				return domain.Role(n), true
			}
		}
	}
	return 0, false
}

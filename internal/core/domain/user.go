package domain

import "time"

// Role identifies the kind of account.
type Role int

// Account roles as assigned by the backend.
const (
	RolePatient Role = 1
	RoleDoctor  Role = 2
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleDoctor
}

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	default:
		return "unknown"
	}
}

// ParseRole accepts a role name or its numeric id.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "patient", "1":
		return RolePatient, true
	case "doctor", "2":
		return RoleDoctor, true
	default:
		return 0, false
	}
}

// User is the account summary returned at login.
type User struct {
	ID    int
	Name  string
	Email string
	Role  Role
}

// IsDoctor reports whether the user manages listings.
func (u User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// UserProfile is the full profile of the signed-in user.
// Empty optional fields mean "not set".
type UserProfile struct {
	ID          int
	Role        Role
	Name        string
	Email       string
	PhoneNumber string
	Avatar      string
	Bio         string
}

// Session is an authenticated session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Expired reports whether the session is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// LoginForm holds login credentials.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,contains_letter,contains_number"`
}

// SignupForm holds registration data.
type SignupForm struct {
	Name     string `validate:"required,min=2,max=50,letters_only"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,contains_letter,contains_number"`
	Role     Role   `validate:"required,oneof=1 2"`
}

// ProfileForm holds a profile update. AvatarPath, when set, names a local
// image file to upload.
type ProfileForm struct {
	Name        string `validate:"required,min=2,max=50,letters_only"`
	Email       string `validate:"required,email"`
	PhoneNumber string
	Bio         string
	AvatarPath  string
}

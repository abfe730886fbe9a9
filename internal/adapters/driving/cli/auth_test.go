package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func TestAuthLogin_Flags(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "auth", "login", "--email", "grey@example.com", "--password", "password1")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Meredith Grey (patient).")
	assert.True(t, env.auth.IsTokenValid(context.Background()))
}

func TestAuthLogin_Prompts(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	stdin = strings.NewReader("grey@example.com\npassword1\n")

	out, err := runCmd(t, "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "(doctor)")
	assert.True(t, env.auth.HasDoctorRole(context.Background()))
}

func TestAuthLogin_ValidationErrors(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "auth", "login", "--email", "not-an-email", "--password", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed:")
	assert.Contains(t, err.Error(), "email: Please enter a valid email")
	assert.Contains(t, err.Error(), "password: Minimum length is 8")
	assert.False(t, env.auth.IsTokenValid(context.Background()))
}

func TestAuthLogin_PasswordNeedsNumber(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "auth", "login", "--email", "grey@example.com", "--password", "passwordonly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password: Must contain at least one number")
}

func TestAuthLogin_Rejected(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "auth", "login", "--email", "grey@example.com", "--password", "wrongpass1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestAuthSignup(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "auth", "signup",
		"--name", "Jane Doe", "--email", "jane@example.com", "--password", "password1", "--role", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Jane Doe. Your account was created as a doctor.")
}

func TestAuthSignup_InvalidRole(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "auth", "signup",
		"--name", "Jane Doe", "--email", "jane@example.com", "--password", "password1", "--role", "nurse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid role "nurse"`)
}

func TestAuthSignup_InvalidName(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "auth", "signup",
		"--name", "J4ne", "--email", "jane@example.com", "--password", "password1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: Must contain only letters")
}

func TestAuthStatus(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")

	env.signIn(t)
	out, err = runCmd(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Meredith Grey <grey@example.com>")
	assert.Contains(t, out, "Role: patient")
	assert.Contains(t, out, "Token expires: never")
}

func TestAuthLogout(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)
	env.signIn(t)

	out, err := runCmd(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.False(t, env.auth.IsTokenValid(context.Background()))

	_, err = env.sessions.LoadSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuth_NotConfigured(t *testing.T) {
	setupTestServices(t, domain.RolePatient)
	SetServices(nil)

	for _, sub := range []string{"login", "signup", "logout", "status"} {
		_, err := runCmd(t, "auth", sub)
		require.Error(t, err, sub)
		assert.Contains(t, err.Error(), "auth service not configured", sub)
	}
}

func TestFormatExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		want    string
	}{
		{name: "no expiry", expires: time.Time{}, want: "never"},
		{name: "past", expires: now.Add(-time.Hour), want: "expired"},
		{name: "under a minute", expires: now.Add(20 * time.Second), want: "expired"},
		{name: "future", expires: now.Add(90 * time.Minute), want: "in 1h30m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatExpiry(tt.expires, now))
		})
	}
}

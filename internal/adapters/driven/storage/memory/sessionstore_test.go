package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func TestSessionStore_EmptyReturnsNotFound(t *testing.T) {
	store := NewSessionStore()

	s, err := store.LoadSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, s)
}

func TestSessionStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := domain.Session{
		Token:     "tok",
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		User:      domain.User{ID: 3, Name: "Ann", Role: domain.RoleDoctor},
	}
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, *got)

	// Mutating the returned copy does not affect the store.
	got.Token = "changed"
	again, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token)

	require.NoError(t, store.ClearSession(ctx))
	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

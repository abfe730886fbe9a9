package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

func TestBookmarkService_SaveGetListRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewBookmarkService(memory.NewBookmarkStore(), nil)

	b, err := svc.Save(ctx, "  cheap  ", domain.ParseQueryString("custom_price=lte:100"))
	require.NoError(t, err)
	assert.Equal(t, "cheap", b.Name)
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := svc.Get(ctx, "cheap")
	require.NoError(t, err)
	assert.Equal(t, "lte:100", got.Query.Get("custom_price"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Remove(ctx, "cheap"))
	_, err = svc.Get(ctx, "cheap")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, "cheap"), domain.ErrNotFound)
}

func TestBookmarkService_SaveKeepsIDOnOverwrite(t *testing.T) {
	ctx := context.Background()
	svc := NewBookmarkService(memory.NewBookmarkStore(), nil)

	first, err := svc.Save(ctx, "mine", domain.ParseQueryString("page=1"))
	require.NoError(t, err)
	second, err := svc.Save(ctx, "mine", domain.ParseQueryString("page=2"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	got, _ := svc.Get(ctx, "mine")
	assert.Equal(t, "2", got.Query.Get("page"))
}

func TestBookmarkService_SaveRequiresName(t *testing.T) {
	svc := NewBookmarkService(memory.NewBookmarkStore(), nil)

	_, err := svc.Save(context.Background(), "   ", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookmarkService_History(t *testing.T) {
	ctx := context.Background()
	history := memory.NewLocationStore()
	router := NewRouter(history, nil)
	svc := NewBookmarkService(memory.NewBookmarkStore(), history)

	for _, raw := range []string{"page=1", "page=2", "page=3"} {
		router.Navigate(ctx, domain.ParseQueryString(raw), driving.NavigateOptions{})
	}

	recent, err := svc.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].Query.Get("page"))

	all, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := NewBookmarkService(memory.NewBookmarkStore(), nil).History(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

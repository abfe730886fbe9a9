package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

func newSyncFixture(t *testing.T, location string, debounce time.Duration) (*FilterSynchronizer, *Router, *mockCatalogAPI) {
	t.Helper()
	api := &mockCatalogAPI{page: domain.ServicePage{Documents: makeServices(1, 2, 3), Count: 3}}
	router := NewRouter(nil, domain.ParseQueryString(location))
	s := NewFilterSynchronizer(NewFilterForm(), router, NewCatalogService(api), SyncConfig{
		PageSize: 10,
		Debounce: debounce,
	})
	t.Cleanup(s.Stop)
	return s, router, api
}

func TestFilterSync_DefaultConfig(t *testing.T) {
	s := NewFilterSynchronizer(NewFilterForm(), NewRouter(nil, nil), NewCatalogService(&mockCatalogAPI{}), SyncConfig{})
	assert.Equal(t, DefaultSyncConfig(), s.cfg)
}

func TestFilterSync_StartPatchesFormAndFetchesOnce(t *testing.T) {
	s, router, api := newSyncFixture(t,
		"custom_price=gte:100&custom_price=lte:500&service_id=3,1&page=2", time.Hour)

	require.NoError(t, s.Start(context.Background()))

	form := s.Form().Value()
	require.NotNil(t, form.Price.Min)
	assert.Equal(t, 100, *form.Price.Min)
	assert.Equal(t, 500, *form.Price.Max)
	assert.Nil(t, form.Duration.Min)
	assert.Equal(t, []int{1, 3}, form.TemplateIDs)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"gte:100", "lte:500"}, calls[0].Values("custom_price"))
	assert.Equal(t, "1,3", calls[0].Get("service_id"))
	assert.Equal(t, "2", calls[0].Get("page"))
	assert.Equal(t, "10", calls[0].Get("perPage"))

	// Initialisation does not navigate.
	assert.Equal(t, "2", router.Current().Get("page"))
	assert.False(t, router.Current().Has("perPage"))
}

func TestFilterSync_DeepLinkWithPageAndPerPage(t *testing.T) {
	s, _, api := newSyncFixture(t, "custom_duration=lte:60&sort=price&page=2&perPage=10", time.Hour)

	require.NoError(t, s.Start(context.Background()))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"lte:60"}, calls[0].Values("custom_duration"))
	assert.Equal(t, "price", calls[0].Get("sort"))
	assert.Equal(t, "2", calls[0].Get("page"))
	assert.Equal(t, "10", calls[0].Get("perPage"))
	assert.Equal(t, "", calls[0].Get("service_id"))
	assert.True(t, calls[0].Has("service_id"))
}

func TestFilterSync_EmptyLocationFetchesWithoutBounds(t *testing.T) {
	s, _, api := newSyncFixture(t, "", time.Hour)

	require.NoError(t, s.Start(context.Background()))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Has("custom_price"))
	assert.False(t, calls[0].Has("page"))
	assert.Nil(t, s.Form().Value().Price.Min)
}

func TestFilterSync_BurstOfEditsFetchesOnceWithFinalValue(t *testing.T) {
	s, router, api := newSyncFixture(t, "page=3", 40*time.Millisecond)
	require.NoError(t, s.Start(context.Background()))

	for _, limit := range []int{300, 400, 500} {
		s.Form().Update(func(f *domain.FilterState) { f.Price.Max = domain.IntPtr(limit) })
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(api.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"lte:500"}, calls[1].Values("custom_price"))
	assert.Equal(t, "1", calls[1].Get("page"))
	assert.Equal(t, "10", calls[1].Get("perPage"))

	current := router.Current()
	assert.Equal(t, "1", current.Get("page"))
	assert.Equal(t, "lte:500", current.Get("custom_price"))
}

func TestFilterSync_FlushAppliesImmediately(t *testing.T) {
	s, router, api := newSyncFixture(t, "", time.Hour)
	require.NoError(t, s.Start(context.Background()))

	s.Form().Update(func(f *domain.FilterState) { f.TemplateIDs = []int{4} })
	assert.Len(t, api.Calls(), 1)

	s.Flush()

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "4", calls[1].Get("service_id"))
	assert.Equal(t, "4", router.Current().Get("service_id"))
}

func TestFilterSync_LocationChangeRepatchesFormWithoutFetching(t *testing.T) {
	s, router, api := newSyncFixture(t, "", time.Hour)
	require.NoError(t, s.Start(context.Background()))

	router.Navigate(context.Background(), domain.ParseQueryString("custom_price=gte:50&sort=duration"),
		driving.NavigateOptions{})

	form := s.Form().Value()
	require.NotNil(t, form.Price.Min)
	assert.Equal(t, 50, *form.Price.Min)
	assert.Equal(t, "duration", form.Sort)
	assert.Len(t, api.Calls(), 1)
}

func TestFilterSync_StopDropsPendingEdit(t *testing.T) {
	s, _, api := newSyncFixture(t, "", 20*time.Millisecond)
	require.NoError(t, s.Start(context.Background()))

	s.Form().Update(func(f *domain.FilterState) { f.Sort = "price" })
	s.Stop()
	time.Sleep(60 * time.Millisecond)

	assert.Len(t, api.Calls(), 1)
	assert.ErrorIs(t, s.Start(context.Background()), domain.ErrStopped)
}

func TestFilterSync_StartTwice(t *testing.T) {
	s, _, _ := newSyncFixture(t, "", time.Hour)
	require.NoError(t, s.Start(context.Background()))

	assert.ErrorIs(t, s.Start(context.Background()), domain.ErrAlreadyStarted)
}

func TestFilterSync_FetchErrorsArePublished(t *testing.T) {
	api := &mockCatalogAPI{listErr: domain.ErrServiceUnavailable}
	s := NewFilterSynchronizer(NewFilterForm(), NewRouter(nil, nil), NewCatalogService(api), SyncConfig{Debounce: time.Hour})
	defer s.Stop()

	var mu sync.Mutex
	var errs []error
	s.SubscribeErrors(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	s.Form().Update(func(f *domain.FilterState) { f.Sort = "price" })
	s.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[1], domain.ErrServiceUnavailable)
}

func TestFilterSync_SetPageSizeAppliesToLaterFetches(t *testing.T) {
	s, _, api := newSyncFixture(t, "", time.Hour)
	require.NoError(t, s.Start(context.Background()))

	s.SetPageSize(0)
	s.SetPageSize(40)
	s.Form().Update(func(f *domain.FilterState) { f.Sort = "price" })
	s.Flush()

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "10", calls[0].Get("perPage"))
	assert.Equal(t, "40", calls[1].Get("perPage"))
}

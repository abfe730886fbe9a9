package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// fakeCatalogAPI serves total listings split by the perPage parameter.
type fakeCatalogAPI struct {
	mu      sync.Mutex
	total   int
	queries []domain.QueryParameterSet
	saved   []domain.ServiceForm
	deleted []int
	listErr error
}

func (f *fakeCatalogAPI) ListServices(_ context.Context, q domain.QueryParameterSet) (domain.ServicePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q.Clone())
	if f.listErr != nil {
		return domain.ServicePage{}, f.listErr
	}

	page, ok := q.Int(domain.ParamPage)
	if !ok || page < 1 {
		page = 1
	}
	perPage, ok := q.Int(domain.ParamPerPage)
	if !ok || perPage < 1 {
		perPage = domain.DefaultPageSize
	}

	docs := []domain.DoctorService{}
	for i := (page-1)*perPage + 1; i <= min(page*perPage, f.total); i++ {
		docs = append(docs, listing(i))
	}
	return domain.ServicePage{Documents: docs, Count: f.total}, nil
}

func (f *fakeCatalogAPI) lastQuery() domain.QueryParameterSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeCatalogAPI) ListByDoctor(_ context.Context, doctorID int) ([]domain.DoctorService, error) {
	return []domain.DoctorService{{ID: 99, Title: "My consultation", DoctorName: fmt.Sprintf("Doctor %d", doctorID)}}, nil
}

func (f *fakeCatalogAPI) GetService(_ context.Context, id int) (*domain.DoctorService, error) {
	if id > f.total {
		return nil, domain.ErrNotFound
	}
	svc := listing(id)
	return &svc, nil
}

func (f *fakeCatalogAPI) SaveService(_ context.Context, form domain.ServiceForm, id int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, form)
	if id == 0 {
		return "Service created", nil
	}
	return "", nil
}

func (f *fakeCatalogAPI) DeleteService(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalogAPI) ListTemplates(context.Context) ([]domain.ServiceTemplate, error) {
	return []domain.ServiceTemplate{
		{TemplateID: 1, Name: "Consultation", DefaultDuration: 30, DefaultPrice: 50},
		{TemplateID: 2, Name: "Check-up", DefaultDuration: 60, DefaultPrice: 120},
	}, nil
}

func (f *fakeCatalogAPI) ListTemplateNames(context.Context) ([]domain.TemplateName, error) {
	return []domain.TemplateName{{TemplateID: 1, Name: "Consultation"}, {TemplateID: 2, Name: "Check-up"}}, nil
}

func (f *fakeCatalogAPI) GetTemplate(context.Context, int) (*domain.ServiceTemplate, error) {
	return nil, domain.ErrNotFound
}

func listing(id int) domain.DoctorService {
	return domain.DoctorService{
		ID:         id,
		DoctorName: "Dr Grey",
		Title:      fmt.Sprintf("Service %d", id),
		Price:      20,
		Duration:   30,
		TemplateID: 1,
	}
}

// fakeAuthAPI accepts any well-formed credentials.
type fakeAuthAPI struct {
	role domain.Role
}

func (f fakeAuthAPI) Login(_ context.Context, form domain.LoginForm) (*domain.Session, error) {
	if form.Password == "wrongpass1" {
		return nil, fmt.Errorf("%w: bad credentials", domain.ErrAuthInvalid)
	}
	return &domain.Session{
		Token: "opaque",
		User:  domain.User{ID: 7, Name: "Meredith Grey", Email: form.Email, Role: f.role},
	}, nil
}

func (f fakeAuthAPI) Signup(_ context.Context, form domain.SignupForm) (*domain.Session, error) {
	return &domain.Session{
		Token: "opaque",
		User:  domain.User{ID: 8, Name: form.Name, Email: form.Email, Role: form.Role},
	}, nil
}

// fakeUserAPI keeps a single profile in memory.
type fakeUserAPI struct {
	mu      sync.Mutex
	profile domain.UserProfile
	deleted bool
}

func (f *fakeUserAPI) Me(context.Context) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	return &p, nil
}

func (f *fakeUserAPI) UpdateProfile(_ context.Context, form domain.ProfileForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile.Name = form.Name
	f.profile.Email = form.Email
	f.profile.PhoneNumber = form.PhoneNumber
	f.profile.Bio = form.Bio
	return nil
}

func (f *fakeUserAPI) DeleteAccount(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = true
	return nil
}

// testEnv holds the real services installed for a command test.
type testEnv struct {
	api       *fakeCatalogAPI
	userAPI   *fakeUserAPI
	sessions  *memory.SessionStore
	history   *memory.LocationStore
	router    *services.Router
	auth      *services.AuthService
	bookmarks *services.BookmarkService
	settings  *services.SettingsService
}

// setupTestServices installs services backed by fakes and memory stores.
// role is the role the fake backend assigns on login.
func setupTestServices(t *testing.T, role domain.Role) *testEnv {
	t.Helper()

	api := &fakeCatalogAPI{total: 23}
	userAPI := &fakeUserAPI{profile: domain.UserProfile{
		ID: 7, Role: role, Name: "Meredith Grey", Email: "grey@example.com",
	}}
	sessions := memory.NewSessionStore()
	history := memory.NewLocationStore()

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.SetPageSize(5))

	catalog := services.NewCatalogService(api)
	router := services.NewRouter(history, nil)
	auth := services.NewAuthService(fakeAuthAPI{role: role}, sessions)
	bookmarks := services.NewBookmarkService(memory.NewBookmarkStore(), history)

	SetServices(&Services{
		Catalog:   catalog,
		Router:    router,
		Auth:      auth,
		User:      services.NewUserService(userAPI, auth),
		Bookmarks: bookmarks,
		Settings:  settings,
		NewBrowser: func(s domain.CatalogSettings) driving.CatalogBrowser {
			form := services.NewFilterForm()
			return driving.CatalogBrowser{
				Form: form,
				Sync: services.NewFilterSynchronizer(form, router, catalog, services.SyncConfig{
					PageSize: s.PageSize,
					Debounce: s.Debounce,
				}),
				Pager: services.NewCatalogPage(router, catalog, s),
			}
		},
	})

	prevBootstrap := bootstrap
	bootstrap = nil
	t.Cleanup(func() {
		SetServices(nil)
		bootstrap = prevBootstrap
		stdin = os.Stdin
	})

	return &testEnv{
		api:       api,
		userAPI:   userAPI,
		sessions:  sessions,
		history:   history,
		router:    router,
		auth:      auth,
		bookmarks: bookmarks,
		settings:  settings,
	}
}

// signIn logs in through the auth service.
func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), domain.LoginForm{
		Email:    "grey@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
}

// runCmd executes the root command with args and returns the combined output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// state does not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

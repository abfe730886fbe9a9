package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// mockCatalogAPI serves total listings split by the perPage parameter.
type mockCatalogAPI struct {
	total     int
	templates []domain.ServiceTemplate
	owned     map[int][]domain.DoctorService
	queries   []domain.QueryParameterSet
	err       error
}

func (m *mockCatalogAPI) ListServices(_ context.Context, q domain.QueryParameterSet) (domain.ServicePage, error) {
	m.queries = append(m.queries, q.Clone())
	if m.err != nil {
		return domain.ServicePage{}, m.err
	}
	page, _ := q.Int(domain.ParamPage)
	page = max(page, 1)
	size, _ := q.Int(domain.ParamPerPage)
	size = max(size, 1)

	var docs []domain.DoctorService
	for i := (page - 1) * size; i < min(page*size, m.total); i++ {
		docs = append(docs, domain.DoctorService{ID: i + 1, Title: fmt.Sprintf("Service %d", i+1), Price: 20})
	}
	return domain.ServicePage{Documents: docs, Count: m.total}, nil
}

func (m *mockCatalogAPI) ListByDoctor(_ context.Context, doctorID int) ([]domain.DoctorService, error) {
	return m.owned[doctorID], m.err
}

func (m *mockCatalogAPI) GetService(_ context.Context, id int) (*domain.DoctorService, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id > m.total {
		return nil, domain.ErrNotFound
	}
	return &domain.DoctorService{ID: id, Title: fmt.Sprintf("Service %d", id), DoctorName: "Dr Grey"}, nil
}

func (m *mockCatalogAPI) SaveService(context.Context, domain.ServiceForm, int) (string, error) {
	return "", m.err
}

func (m *mockCatalogAPI) DeleteService(context.Context, int) error { return m.err }

func (m *mockCatalogAPI) ListTemplates(context.Context) ([]domain.ServiceTemplate, error) {
	return m.templates, m.err
}

func (m *mockCatalogAPI) ListTemplateNames(context.Context) ([]domain.TemplateName, error) {
	return nil, m.err
}

func (m *mockCatalogAPI) GetTemplate(context.Context, int) (*domain.ServiceTemplate, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalogAPI) lastQuery() domain.QueryParameterSet {
	if len(m.queries) == 0 {
		return nil
	}
	return m.queries[len(m.queries)-1]
}

type mockAuthAPI struct{}

func (mockAuthAPI) Login(context.Context, domain.LoginForm) (*domain.Session, error) {
	return nil, domain.ErrAuthInvalid
}

func (mockAuthAPI) Signup(context.Context, domain.SignupForm) (*domain.Session, error) {
	return nil, domain.ErrAuthInvalid
}

// newTestServer wires real services around the mock backend. A non-nil
// user is stored as the signed-in session.
func newTestServer(t *testing.T, api *mockCatalogAPI, user *domain.User) (*Server, *services.BookmarkService) {
	t.Helper()

	sessions := memory.NewSessionStore()
	if user != nil {
		require.NoError(t, sessions.SaveSession(context.Background(), domain.Session{Token: "opaque", User: *user}))
	}
	bookmarks := services.NewBookmarkService(memory.NewBookmarkStore(), nil)

	server, err := NewServer(&Ports{
		Catalog:   services.NewCatalogService(api),
		Auth:      services.NewAuthService(mockAuthAPI{}, sessions),
		Bookmarks: bookmarks,
	})
	require.NoError(t, err)
	return server, bookmarks
}

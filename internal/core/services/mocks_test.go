package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCatalogAPI implements driven.CatalogAPI for testing.
type mockCatalogAPI struct {
	mu sync.Mutex

	page     domain.ServicePage
	pageFn   func(domain.QueryParameterSet) domain.ServicePage
	listErr  error
	calls    []domain.QueryParameterSet
	byDoctor []domain.DoctorService
	service  *domain.DoctorService
	deleted  []int
	saved    []domain.ServiceForm
	saveErr  error
	delErr   error

	templates []domain.ServiceTemplate
	names     []domain.TemplateName
}

var _ driven.CatalogAPI = (*mockCatalogAPI)(nil)

func (m *mockCatalogAPI) ListServices(_ context.Context, q domain.QueryParameterSet) (domain.ServicePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, q.Clone())
	if m.listErr != nil {
		return domain.ServicePage{}, m.listErr
	}
	if m.pageFn != nil {
		return m.pageFn(q), nil
	}
	return m.page, nil
}

func (m *mockCatalogAPI) ListByDoctor(_ context.Context, _ int) ([]domain.DoctorService, error) {
	return m.byDoctor, nil
}

func (m *mockCatalogAPI) GetService(_ context.Context, id int) (*domain.DoctorService, error) {
	if m.service == nil || m.service.ID != id {
		return nil, domain.ErrNotFound
	}
	svc := *m.service
	return &svc, nil
}

func (m *mockCatalogAPI) SaveService(_ context.Context, form domain.ServiceForm, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, form)
	if id == 0 {
		return "Service created", nil
	}
	return "Service updated", nil
}

func (m *mockCatalogAPI) DeleteService(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogAPI) ListTemplates(_ context.Context) ([]domain.ServiceTemplate, error) {
	return m.templates, nil
}

func (m *mockCatalogAPI) ListTemplateNames(_ context.Context) ([]domain.TemplateName, error) {
	return m.names, nil
}

func (m *mockCatalogAPI) GetTemplate(_ context.Context, id int) (*domain.ServiceTemplate, error) {
	for _, t := range m.templates {
		if t.TemplateID == id {
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogAPI) Calls() []domain.QueryParameterSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueryParameterSet, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockAuthAPI implements driven.AuthAPI for testing.
type mockAuthAPI struct {
	session *domain.Session
	err     error
	logins  int
}

var _ driven.AuthAPI = (*mockAuthAPI)(nil)

func (m *mockAuthAPI) Login(_ context.Context, _ domain.LoginForm) (*domain.Session, error) {
	m.logins++
	if m.err != nil {
		return nil, m.err
	}
	s := *m.session
	return &s, nil
}

func (m *mockAuthAPI) Signup(_ context.Context, form domain.SignupForm) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := *m.session
	s.User.Name = form.Name
	s.User.Role = form.Role
	return &s, nil
}

// mockUserAPI implements driven.UserAPI for testing.
type mockUserAPI struct {
	profile *domain.UserProfile
	meCalls int
	updated []domain.ProfileForm
	deleted bool
	meErr   error
}

var _ driven.UserAPI = (*mockUserAPI)(nil)

func (m *mockUserAPI) Me(_ context.Context) (*domain.UserProfile, error) {
	m.meCalls++
	if m.meErr != nil {
		return nil, m.meErr
	}
	p := *m.profile
	return &p, nil
}

func (m *mockUserAPI) UpdateProfile(_ context.Context, form domain.ProfileForm) error {
	m.updated = append(m.updated, form)
	m.profile.Name = form.Name
	m.profile.Email = form.Email
	return nil
}

func (m *mockUserAPI) DeleteAccount(_ context.Context) error {
	m.deleted = true
	return nil
}

// --- Helpers ---

func makeServices(ids ...int) []domain.DoctorService {
	docs := make([]domain.DoctorService, len(ids))
	for i, id := range ids {
		docs[i] = domain.DoctorService{ID: id, Title: "Service", Price: 100, Duration: 30}
	}
	return docs
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, role domain.Role, exp time.Time) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"sub":     "1",
		"role_id": int(role),
		"exp":     exp.Unix(),
	})
}

package myservices

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

type fakeCatalogAPI struct {
	owned     map[int][]domain.DoctorService
	deleted   []int
	deleteErr error
}

func (f *fakeCatalogAPI) ListServices(context.Context, domain.QueryParameterSet) (domain.ServicePage, error) {
	return domain.ServicePage{}, nil
}

func (f *fakeCatalogAPI) ListByDoctor(_ context.Context, doctorID int) ([]domain.DoctorService, error) {
	return f.owned[doctorID], nil
}

func (f *fakeCatalogAPI) GetService(context.Context, int) (*domain.DoctorService, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCatalogAPI) SaveService(context.Context, domain.ServiceForm, int) (string, error) {
	return "", nil
}

func (f *fakeCatalogAPI) DeleteService(_ context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalogAPI) ListTemplates(context.Context) ([]domain.ServiceTemplate, error) {
	return nil, nil
}

func (f *fakeCatalogAPI) ListTemplateNames(context.Context) ([]domain.TemplateName, error) {
	return nil, nil
}

func (f *fakeCatalogAPI) GetTemplate(context.Context, int) (*domain.ServiceTemplate, error) {
	return nil, domain.ErrNotFound
}

type nopAuthAPI struct{}

func (nopAuthAPI) Login(context.Context, domain.LoginForm) (*domain.Session, error) {
	return nil, domain.ErrAuthInvalid
}

func (nopAuthAPI) Signup(context.Context, domain.SignupForm) (*domain.Session, error) {
	return nil, domain.ErrAuthInvalid
}

func newTestView(t *testing.T, api *fakeCatalogAPI, user *domain.User) *View {
	t.Helper()
	sessions := memory.NewSessionStore()
	if user != nil {
		require.NoError(t, sessions.SaveSession(context.Background(), domain.Session{Token: "opaque", User: *user}))
	}
	auth := services.NewAuthService(nopAuthAPI{}, sessions)
	return NewView(nil, nil, services.NewCatalogService(api), auth)
}

func load(v *View) {
	cmd := v.Init()
	if cmd != nil {
		v.Update(cmd())
	}
}

func doctorAPI() *fakeCatalogAPI {
	return &fakeCatalogAPI{owned: map[int][]domain.DoctorService{
		7: {
			{ID: 11, Title: "Consultation", Price: 40},
			{ID: 12, Title: "Follow-up", Price: 25},
		},
	}}
}

var doctor = &domain.User{ID: 7, Name: "Dr Grey", Role: domain.RoleDoctor}

func TestView_LoadsDoctorListings(t *testing.T) {
	v := newTestView(t, doctorAPI(), doctor)

	load(v)

	require.NoError(t, v.Err())
	require.Len(t, v.Services(), 2)
	assert.Contains(t, v.View(), "Consultation")
}

func TestView_SignedOut(t *testing.T) {
	v := newTestView(t, doctorAPI(), nil)

	load(v)

	assert.ErrorIs(t, v.Err(), domain.ErrAuthRequired)
	assert.Contains(t, v.View(), "Sign in to manage your listings.")
}

func TestView_PatientForbidden(t *testing.T) {
	v := newTestView(t, doctorAPI(), &domain.User{ID: 7, Role: domain.RolePatient})

	load(v)

	assert.ErrorIs(t, v.Err(), domain.ErrForbidden)
	assert.Contains(t, v.View(), "Only doctors can manage listings.")
}

func TestView_DeleteRequiresConfirmation(t *testing.T) {
	api := doctorAPI()
	v := newTestView(t, api, doctor)
	load(v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), `Delete "Consultation" (#11)?`)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, []int{11}, api.deleted)
	require.Len(t, v.Services(), 1)
	assert.Equal(t, 12, v.Services()[0].ID)
	assert.Contains(t, v.View(), "Deleted listing #11")
}

func TestView_DeleteCancelled(t *testing.T) {
	api := doctorAPI()
	v := newTestView(t, api, doctor)
	load(v)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Nil(t, cmd)
	assert.Empty(t, api.deleted)
	assert.Len(t, v.Services(), 2)
}

func TestView_DeleteFailure(t *testing.T) {
	api := doctorAPI()
	api.deleteErr = errors.New("backend down")
	v := newTestView(t, api, doctor)
	load(v)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "backend down")
	assert.Len(t, v.Services(), 2)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := newTestView(t, doctorAPI(), doctor)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NilServices(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "You have no listings yet.")
}

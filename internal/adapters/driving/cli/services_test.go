package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func TestServicesList_FirstPage(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] Service 1 - Dr Grey (20.00, 30 min)")
	assert.Contains(t, out, "[5] Service 5")
	assert.NotContains(t, out, "Service 6")
	assert.Contains(t, out, "23 services  [1] 2 3 … 5")
	assert.Contains(t, out, "Location: ?perPage=5")
	assert.Equal(t, "5", env.api.lastQuery().Get(domain.ParamPerPage))
}

func TestServicesList_PageFlag(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "list", "--page", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Service 11")
	assert.NotContains(t, out, "Service 10 ")
	assert.Contains(t, out, "Location: ?page=3&perPage=5")
}

func TestServicesList_URL(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "list", "--url", "?custom_price=gte:10&page=2")
	require.NoError(t, err)

	assert.Contains(t, out, "Service 6")
	q := env.api.lastQuery()
	assert.Equal(t, "2", q.Get(domain.ParamPage))
	assert.Equal(t, []string{"gte:10"}, q.Values(domain.ParamCustomPrice))
}

func TestServicesList_FilterResetsPage(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--url", "?page=3", "--price-min", "10", "--price-max", "100")
	require.NoError(t, err)

	q := env.api.lastQuery()
	assert.Equal(t, "1", q.Get(domain.ParamPage))
	assert.Equal(t, []string{"gte:10", "lte:100"}, q.Values(domain.ParamCustomPrice))
	assert.True(t, q.Has(domain.ParamServiceID))
}

func TestServicesList_TemplatesAndSort(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--url", "?custom_price=gte:10", "--template", "3,1,3", "--sort", "price")
	require.NoError(t, err)

	q := env.api.lastQuery()
	assert.Equal(t, "1,3", q.Get(domain.ParamServiceID))
	assert.Equal(t, "price", q.Get(domain.ParamSort))
	assert.Equal(t, []string{"gte:10"}, q.Values(domain.ParamCustomPrice))
}

func TestServicesList_ClearingBoundDropsParam(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--url", "?custom_price=lte:100", "--price-max", "0")
	require.NoError(t, err)

	assert.False(t, env.api.lastQuery().Has(domain.ParamCustomPrice))
}

func TestServicesList_FlagsDoNotLeak(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--url", "?page=4")
	require.NoError(t, err)
	_, err = runCmd(t, "services", "list", "--price-min", "5")
	require.NoError(t, err)

	q := env.api.lastQuery()
	assert.Equal(t, "1", q.Get(domain.ParamPage))
	assert.Equal(t, []string{"gte:5"}, q.Values(domain.ParamCustomPrice))
}

func TestServicesList_Last(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--page", "2")
	require.NoError(t, err)

	out, err := runCmd(t, "services", "list", "--last")
	require.NoError(t, err)
	assert.Contains(t, out, "Service 6")
	assert.Contains(t, out, "page=2")
}

func TestServicesList_LastWithoutHistory(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--last")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no previous location recorded")
}

func TestServicesList_URLAndLastExclusive(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "list", "--last", "--url", "?page=2")
	require.Error(t, err)
}

func TestServicesList_JSON(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "list", "--json")
	require.NoError(t, err)

	assert.Contains(t, out, `"Count": 23`)
	assert.Contains(t, out, `"Title": "Service 1"`)
	assert.NotContains(t, out, "Location:")
}

func TestServicesList_BackendError(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)
	env.api.listErr = domain.ErrServiceUnavailable

	_, err := runCmd(t, "services", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing services failed")
}

func TestServicesList_NotConfigured(t *testing.T) {
	setupTestServices(t, domain.RolePatient)
	SetServices(nil)

	_, err := runCmd(t, "services", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestServicesShow(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Service 3")
	assert.Contains(t, out, "Doctor:   Dr Grey")
	assert.Contains(t, out, "Duration: 30 min")
}

func TestServicesShow_Errors(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	_, err := runCmd(t, "services", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid id "abc"`)

	_, err = runCmd(t, "services", "show", "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServicesTemplates(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	out, err := runCmd(t, "services", "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Consultation (50.00, 30 min)")
	assert.Contains(t, out, "[2] Check-up (120.00, 60 min)")

	out, err = runCmd(t, "services", "templates", "--names")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] Check-up")
	assert.NotContains(t, out, "120.00")
}

func TestServicesMine_Guards(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		setupTestServices(t, domain.RoleDoctor)

		_, err := runCmd(t, "services", "mine")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not signed in")
	})

	t.Run("patient", func(t *testing.T) {
		env := setupTestServices(t, domain.RolePatient)
		env.signIn(t)

		_, err := runCmd(t, "services", "mine")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only available to doctors")
	})
}

func TestServicesMine(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	env.signIn(t)

	out, err := runCmd(t, "services", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "[99] My consultation - Doctor 7")
}

func TestServicesSave(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	env.signIn(t)

	out, err := runCmd(t, "services", "save", "--template", "2", "--price", "75", "--description", "Home visit")
	require.NoError(t, err)
	assert.Contains(t, out, "Service created")

	require.Len(t, env.api.saved, 1)
	form := env.api.saved[0]
	assert.Equal(t, 2, form.TemplateID)
	require.NotNil(t, form.CustomPrice)
	assert.InDelta(t, 75.0, *form.CustomPrice, 0.001)
	assert.Nil(t, form.CustomDuration)
	assert.Equal(t, "Home visit", form.CustomDescription)
}

func TestServicesSave_Update(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	env.signIn(t)

	out, err := runCmd(t, "services", "save", "--id", "4", "--template", "1", "--duration", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "Listing saved.")
	require.Len(t, env.api.saved, 1)
	require.NotNil(t, env.api.saved[0].CustomDuration)
	assert.Equal(t, 45, *env.api.saved[0].CustomDuration)
}

func TestServicesSave_RequiresTemplate(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	env.signIn(t)

	_, err := runCmd(t, "services", "save", "--price", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template")
	assert.Empty(t, env.api.saved)
}

func TestServicesDelete(t *testing.T) {
	env := setupTestServices(t, domain.RoleDoctor)
	env.signIn(t)

	out, err := runCmd(t, "services", "delete", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted listing 4.")
	assert.Equal(t, []int{4}, env.api.deleted)
}

func TestServicesDelete_Patient(t *testing.T) {
	env := setupTestServices(t, domain.RolePatient)
	env.signIn(t)

	_, err := runCmd(t, "services", "delete", "4")
	require.Error(t, err)
	assert.Empty(t, env.api.deleted)
}

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		name   string
		window domain.ButtonWindow
		want   string
	}{
		{
			name:   "hidden",
			window: domain.ButtonWindow{PageCount: 1, Indices: []int{}, Hidden: true},
			want:   "",
		},
		{
			name:   "no gaps",
			window: domain.ButtonWindow{PageCount: 3, Indices: []int{0, 1, 2}, Active: 1},
			want:   "1 [2] 3",
		},
		{
			name: "trailing gap",
			window: domain.ButtonWindow{
				PageCount: 5, Indices: []int{0, 1, 2, 4}, Active: 0, TrailingEllipsis: true,
			},
			want: "[1] 2 3 … 5",
		},
		{
			name: "both gaps",
			window: domain.ButtonWindow{
				PageCount: 10, Indices: []int{0, 3, 4, 5, 9}, Active: 4,
				LeadingEllipsis: true, TrailingEllipsis: true,
			},
			want: "1 … 4 [5] 6 … 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWindow(tt.window))
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, raw := range []string{"", "0", "-3", "x1"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

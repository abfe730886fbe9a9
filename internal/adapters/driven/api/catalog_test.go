package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func TestClient_ListServices(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data":{"count":23,"documents":[
			{"id":5,"doctor_name":"Dr. Who","title":"Checkup","price":"120.50","duration":30,"description":"d","service_id":2},
			{"id":7,"title":"X-ray","price":80,"duration":"15","description":"","service_id":3}
		]}}`))
	}, nil)

	query := domain.ParseQueryString("custom_price=gte:10&custom_price=lte:500&service_id=2,3&page=2&perPage=10")
	page, err := c.ListServices(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "/api/services", gotPath)
	assert.Equal(t, []string{"gte:10", "lte:500"}, gotQuery["custom_price"])
	assert.Equal(t, []string{"2,3"}, gotQuery["service_id"])
	assert.Equal(t, []string{"10"}, gotQuery["perPage"])

	assert.Equal(t, 23, page.Count)
	require.Len(t, page.Documents, 2)
	assert.Equal(t, domain.DoctorService{
		ID: 5, DoctorName: "Dr. Who", Title: "Checkup", Price: 120.5, Duration: 30, Description: "d", TemplateID: 2,
	}, page.Documents[0])
	assert.Equal(t, 15, page.Documents[1].Duration)
}

func TestClient_ListServicesWithoutQuery(t *testing.T) {
	var raw string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RequestURI()
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]any{"count": 0, "documents": nil}})
	}, nil)

	page, err := c.ListServices(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "/api/services", raw)
	assert.Empty(t, page.Documents)
}

func TestClient_ListByDoctorAndGetService(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/services/doctor/11":
			writeJSON(t, w, http.StatusOK, map[string]any{"data": []map[string]any{{"id": 1}, {"id": 2}}})
		case "/api/services/4":
			writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]any{"id": 4, "title": "Checkup"}})
		case "/api/services/5":
			writeJSON(t, w, http.StatusOK, map[string]any{"data": nil})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, nil)
	ctx := context.Background()

	docs, err := c.ListByDoctor(ctx, 11)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	svc, err := c.GetService(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Checkup", svc.Title)

	_, err = c.GetService(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_SaveService(t *testing.T) {
	type call struct {
		path string
		body map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, call{r.URL.Path, body})
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "ok"})
	}, nil)
	ctx := context.Background()
	price := 99.5

	msg, err := c.SaveService(ctx, domain.ServiceForm{TemplateID: 3, CustomPrice: &price, CustomDescription: "Short"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)

	_, err = c.SaveService(ctx, domain.ServiceForm{TemplateID: 3}, 12)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, "/api/services/form", calls[0].path)
	assert.Equal(t, map[string]any{
		"service_id": 3.0, "custom_price": 99.5, "custom_duration": nil, "custom_description": "Short",
	}, calls[0].body)
	assert.Equal(t, "/api/services/form/12", calls[1].path)
	assert.Nil(t, calls[1].body["custom_description"])
}

func TestClient_DeleteService(t *testing.T) {
	var method string
	var body map[string]int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "deleted"})
	}, nil)

	require.NoError(t, c.DeleteService(context.Background(), 7))

	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, map[string]int{"id": 7}, body)
}

func TestClient_Templates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/service-templates":
			_, _ = w.Write([]byte(`{"data":{"count":1,"documents":[{"template_id":1,"name":"Consultation",` +
				`"default_duration":30,"default_price":"50.00","default_description":"Talk"}]}}`))
		case "/api/service-templates/names":
			_, _ = w.Write([]byte(`{"data":[{"template_id":1,"name":"Consultation"}]}`))
		case "/api/service-templates/1":
			_, _ = w.Write([]byte(`{"data":{"template_id":1,"name":"Consultation","default_duration":30}}`))
		default:
			writeJSON(t, w, http.StatusNotFound, map[string]any{"error": "Template not found"})
		}
	}, nil)
	ctx := context.Background()

	templates, err := c.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, 50.0, templates[0].DefaultPrice)

	names, err := c.ListTemplateNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateName{{TemplateID: 1, Name: "Consultation"}}, names)

	tpl, err := c.GetTemplate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, tpl.DefaultDuration)

	_, err = c.GetTemplate(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Template not found", Message(err))
}

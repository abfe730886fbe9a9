package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

func newTestCatalog(api *mockCatalogAPI) *services.CatalogService {
	return services.NewCatalogService(api)
}

// makeReadResourceRequest builds a ReadResourceRequest for uri.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractServiceID(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		want   int
		wantOK bool
	}{
		{"valid", "medmart://services/42", 42, true},
		{"invalid prefix", "file://services/42", 0, false},
		{"not a number", "medmart://services/abc", 0, false},
		{"zero", "medmart://services/0", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := extractServiceID(tt.uri)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestServer_handleTemplatesResource(t *testing.T) {
	api := &mockCatalogAPI{templates: []domain.ServiceTemplate{
		{TemplateID: 2, Name: "Vaccination", DefaultPrice: 15},
	}}
	server, _ := newTestServer(t, api, nil)

	result, err := server.handleTemplatesResource(context.Background(), makeReadResourceRequest("medmart://templates"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"name": "Vaccination"`)
}

func TestServer_handleTemplatesResourceError(t *testing.T) {
	server, _ := newTestServer(t, &mockCatalogAPI{err: domain.ErrServiceUnavailable}, nil)

	_, err := server.handleTemplatesResource(context.Background(), makeReadResourceRequest("medmart://templates"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing templates")
}

func TestServer_handleBookmarksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists bookmarks with locations", func(t *testing.T) {
		server, bookmarks := newTestServer(t, &mockCatalogAPI{}, nil)
		_, err := bookmarks.Save(ctx, "cheap", domain.ParseQueryString("page=2"))
		require.NoError(t, err)

		result, err := server.handleBookmarksResource(ctx, makeReadResourceRequest("medmart://bookmarks"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"name": "cheap"`)
		assert.Contains(t, result.Contents[0].Text, `"location": "?page=2"`)
	})

	t.Run("no bookmark service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: newTestCatalog(&mockCatalogAPI{})})
		require.NoError(t, err)

		result, err := server.handleBookmarksResource(ctx, makeReadResourceRequest("medmart://bookmarks"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleServiceResource(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, &mockCatalogAPI{total: 3}, nil)

	t.Run("found", func(t *testing.T) {
		result, err := server.handleServiceResource(ctx, makeReadResourceRequest("medmart://services/2"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"title": "Service 2"`)
	})

	t.Run("invalid URI", func(t *testing.T) {
		_, err := server.handleServiceResource(ctx, makeReadResourceRequest("medmart://services/x"))
		require.Error(t, err)
	})

	t.Run("missing listing", func(t *testing.T) {
		_, err := server.handleServiceResource(ctx, makeReadResourceRequest("medmart://services/9"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

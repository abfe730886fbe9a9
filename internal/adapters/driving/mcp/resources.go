package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for medmart resources.
	uriScheme = "medmart://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Service templates available in the catalog",
		MIMEType:    mimeJSON,
	}, s.handleTemplatesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "bookmarks",
		Name:        "bookmarks",
		Description: "Saved catalog locations",
		MIMEType:    mimeJSON,
	}, s.handleBookmarksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "services/{serviceId}",
		Name:        "service",
		Description: "A single catalog listing",
		MIMEType:    mimeJSON,
	}, s.handleServiceResource)
}

// handleTemplatesResource returns every service template.
func (s *Server) handleTemplatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	templates, err := s.ports.Catalog.LoadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return jsonResult(req.Params.URI, templateOutputs(templates))
}

// handleBookmarksResource returns the saved bookmarks with their locations.
func (s *Server) handleBookmarksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type bookmarkInfo struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}

	infos := []bookmarkInfo{}
	if s.ports.Bookmarks != nil {
		bookmarks, err := s.ports.Bookmarks.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing bookmarks: %w", err)
		}
		for _, b := range bookmarks {
			infos = append(infos, bookmarkInfo{Name: b.Name, Location: b.Query.String()})
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleServiceResource returns one listing by id.
func (s *Server) handleServiceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractServiceID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	svc, err := s.ports.Catalog.LoadByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting service %d: %w", id, err)
	}
	return jsonResult(req.Params.URI, serviceOutput(*svc))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractServiceID extracts the listing id from a URI like medmart://services/{serviceId}.
func extractServiceID(uri string) (int, bool) {
	const prefix = uriScheme + "services/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

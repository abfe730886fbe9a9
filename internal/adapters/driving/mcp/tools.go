package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// defaultPerPage applies when a caller does not choose a page size.
const defaultPerPage = domain.DefaultPageSize

// ListServicesInput is the input schema for the list_services tool.
type ListServicesInput struct {
	Query       string `json:"query,omitempty" jsonschema:"catalog location query string such as ?custom_price=gte:10&page=2; filter fields below override it"`
	PriceMin    *int   `json:"price_min,omitempty" jsonschema:"minimum price"`
	PriceMax    *int   `json:"price_max,omitempty" jsonschema:"maximum price"`
	DurationMin *int   `json:"duration_min,omitempty" jsonschema:"minimum appointment length in minutes"`
	DurationMax *int   `json:"duration_max,omitempty" jsonschema:"maximum appointment length in minutes"`
	TemplateIDs []int  `json:"template_ids,omitempty" jsonschema:"only listings of these service templates"`
	Sort        string `json:"sort,omitempty" jsonschema:"backend sort key"`
	Page        int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PerPage     int    `json:"per_page,omitempty" jsonschema:"listings per page (default 10)"`
}

// ListServicesOutput is the output schema for the list_services tool.
type ListServicesOutput struct {
	Services   []ServiceOutput `json:"services"`
	Count      int             `json:"count"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Location   string          `json:"location"`
}

// ServiceOutput is a single listing.
type ServiceOutput struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Doctor      string  `json:"doctor"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration_minutes"`
	Description string  `json:"description,omitempty"`
	TemplateID  int     `json:"template_id"`
}

// GetServiceInput is the input schema for the get_service tool.
type GetServiceInput struct {
	ID int `json:"id" jsonschema:"listing id"`
}

// ListTemplatesInput is the input schema for the list_templates tool.
type ListTemplatesInput struct{}

// ListTemplatesOutput is the output schema for the list_templates tool.
type ListTemplatesOutput struct {
	Templates []TemplateOutput `json:"templates"`
}

// TemplateOutput is a single service template.
type TemplateOutput struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Duration    int     `json:"default_duration_minutes"`
	Price       float64 `json:"default_price"`
	Description string  `json:"default_description,omitempty"`
}

// MyServicesInput is the input schema for the my_services tool.
type MyServicesInput struct{}

// MyServicesOutput is the output schema for the my_services tool.
type MyServicesOutput struct {
	Services []ServiceOutput `json:"services"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_services",
		Description: "List healthcare services in the catalog, filtered by price, duration and template, one page at a time",
	}, s.handleListServices)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_service",
		Description: "Get a single catalog listing by id",
	}, s.handleGetService)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the service templates doctors offer listings for",
	}, s.handleListTemplates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "my_services",
		Description: "List the signed-in doctor's own listings",
	}, s.handleMyServices)
}

// catalogQuery turns tool input into catalog query parameters.
func catalogQuery(input ListServicesInput) domain.QueryParameterSet {
	params := domain.ParseQueryString(input.Query)
	filters := domain.ParseQueryParams(params)

	if input.PriceMin != nil {
		filters.Price.Min = input.PriceMin
	}
	if input.PriceMax != nil {
		filters.Price.Max = input.PriceMax
	}
	if input.DurationMin != nil {
		filters.Duration.Min = input.DurationMin
	}
	if input.DurationMax != nil {
		filters.Duration.Max = input.DurationMax
	}
	if len(input.TemplateIDs) > 0 {
		filters.TemplateIDs = input.TemplateIDs
	}
	if input.Sort != "" {
		filters.Sort = input.Sort
	}

	merged := params.Merge(domain.BuildQueryParams(filters))
	if input.Page > 0 {
		merged.SetInt(domain.ParamPage, input.Page)
	}
	if input.PerPage > 0 {
		merged.SetInt(domain.ParamPerPage, input.PerPage)
	}
	if _, ok := merged.Int(domain.ParamPage); !ok {
		merged.SetInt(domain.ParamPage, 1)
	}
	if _, ok := merged.Int(domain.ParamPerPage); !ok {
		merged.SetInt(domain.ParamPerPage, defaultPerPage)
	}
	return merged
}

func (s *Server) handleListServices(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListServicesInput,
) (*mcp.CallToolResult, ListServicesOutput, error) {
	params := catalogQuery(input)
	page, _ := params.Int(domain.ParamPage)
	perPage, _ := params.Int(domain.ParamPerPage)

	s.log.Debug().Str("query", params.String()).Msg("list_services")
	result, err := s.ports.Catalog.LoadPage(ctx, params)
	if err != nil {
		return nil, ListServicesOutput{}, err
	}

	return nil, ListServicesOutput{
		Services:   serviceOutputs(result.Documents),
		Count:      result.Count,
		Page:       page,
		TotalPages: domain.PageCount(result.Count, perPage),
		Location:   params.String(),
	}, nil
}

func (s *Server) handleGetService(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetServiceInput,
) (*mcp.CallToolResult, ServiceOutput, error) {
	if input.ID <= 0 {
		return nil, ServiceOutput{}, fmt.Errorf("%w: id must be positive", domain.ErrInvalidInput)
	}
	svc, err := s.ports.Catalog.LoadByID(ctx, input.ID)
	if err != nil {
		return nil, ServiceOutput{}, err
	}
	return nil, serviceOutput(*svc), nil
}

func (s *Server) handleListTemplates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListTemplatesInput,
) (*mcp.CallToolResult, ListTemplatesOutput, error) {
	templates, err := s.ports.Catalog.LoadTemplates(ctx)
	if err != nil {
		return nil, ListTemplatesOutput{}, err
	}
	return nil, ListTemplatesOutput{Templates: templateOutputs(templates)}, nil
}

func (s *Server) handleMyServices(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ MyServicesInput,
) (*mcp.CallToolResult, MyServicesOutput, error) {
	if err := services.RequireDoctor(ctx, s.ports.Auth); err != nil {
		return nil, MyServicesOutput{}, err
	}
	user, err := s.ports.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, MyServicesOutput{}, err
	}
	mine, err := s.ports.Catalog.LoadByDoctor(ctx, user.ID)
	if err != nil {
		return nil, MyServicesOutput{}, err
	}
	return nil, MyServicesOutput{Services: serviceOutputs(mine)}, nil
}

func serviceOutput(d domain.DoctorService) ServiceOutput {
	return ServiceOutput{
		ID:          d.ID,
		Title:       d.Title,
		Doctor:      d.DoctorName,
		Price:       d.Price,
		Duration:    d.Duration,
		Description: d.Description,
		TemplateID:  d.TemplateID,
	}
}

func serviceOutputs(docs []domain.DoctorService) []ServiceOutput {
	out := make([]ServiceOutput, len(docs))
	for i := range docs {
		out[i] = serviceOutput(docs[i])
	}
	return out
}

func templateOutputs(templates []domain.ServiceTemplate) []TemplateOutput {
	out := make([]TemplateOutput, len(templates))
	for i, t := range templates {
		out[i] = TemplateOutput{
			ID:          t.TemplateID,
			Name:        t.Name,
			Duration:    t.DefaultDuration,
			Price:       t.DefaultPrice,
			Description: t.DefaultDescription,
		}
	}
	return out
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// Ensure Client implements the catalog port.
var _ driven.CatalogAPI = (*Client)(nil)

// ListServices fetches one page of listings: GET /services?{query}.
func (c *Client) ListServices(ctx context.Context, query domain.QueryParameterSet) (domain.ServicePage, error) {
	path := "/services"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp dataEnvelope[pageData]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.ServicePage{}, err
	}
	return domain.ServicePage{
		Documents: servicesToDomain(resp.Data.Documents),
		Count:     resp.Data.Count,
	}, nil
}

// ListByDoctor fetches every listing of a doctor: GET /services/doctor/:id.
func (c *Client) ListByDoctor(ctx context.Context, doctorID int) ([]domain.DoctorService, error) {
	var resp dataEnvelope[[]serviceDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/services/doctor/"+strconv.Itoa(doctorID), nil, &resp); err != nil {
		return nil, err
	}
	return servicesToDomain(resp.Data), nil
}

// GetService fetches one listing: GET /services/:id.
func (c *Client) GetService(ctx context.Context, id int) (*domain.DoctorService, error) {
	var resp dataEnvelope[*serviceDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/services/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	svc := resp.Data.toDomain()
	return &svc, nil
}

// SaveService creates (id 0) or updates a listing: POST /services/form[/:id].
// It returns the backend's confirmation message.
func (c *Client) SaveService(ctx context.Context, form domain.ServiceForm, id int) (string, error) {
	path := "/services/form"
	if id != 0 {
		path += "/" + strconv.Itoa(id)
	}

	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, path, newServiceFormBody(form), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeleteService removes a listing: DELETE /services with body {id}.
func (c *Client) DeleteService(ctx context.Context, id int) error {
	body := struct {
		ID int `json:"id"`
	}{ID: id}
	return c.doJSON(ctx, http.MethodDelete, "/services", body, nil)
}

// ListTemplates fetches every service template: GET /service-templates.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.ServiceTemplate, error) {
	var resp dataEnvelope[templatePage]
	if err := c.doJSON(ctx, http.MethodGet, "/service-templates", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.ServiceTemplate, len(resp.Data.Documents))
	for i, d := range resp.Data.Documents {
		out[i] = d.toDomain()
	}
	return out, nil
}

// ListTemplateNames fetches id/name pairs: GET /service-templates/names.
func (c *Client) ListTemplateNames(ctx context.Context) ([]domain.TemplateName, error) {
	var resp dataEnvelope[[]templateNameDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/service-templates/names", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.TemplateName, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = domain.TemplateName{TemplateID: d.TemplateID, Name: d.Name}
	}
	return out, nil
}

// GetTemplate fetches one template: GET /service-templates/:id.
func (c *Client) GetTemplate(ctx context.Context, id int) (*domain.ServiceTemplate, error) {
	var resp dataEnvelope[*templateDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/service-templates/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("template %d: %w", id, domain.ErrNotFound)
	}
	t := resp.Data.toDomain()
	return &t, nil
}

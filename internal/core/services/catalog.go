package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService fetches listings and broadcasts them as page snapshots.
// Every snapshot carries documents and count together, so subscribers never
// observe one without the other.
type CatalogService struct {
	api driven.CatalogAPI

	page      *Subject[domain.ServicePage]
	templates *Subject[[]domain.ServiceTemplate]
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(api driven.CatalogAPI) *CatalogService {
	return &CatalogService{
		api:       api,
		page:      NewBehaviorSubject(domain.ServicePage{Documents: []domain.DoctorService{}}),
		templates: NewBehaviorSubject([]domain.ServiceTemplate{}),
	}
}

// LoadPage fetches one page of listings and publishes it.
// On failure nothing is published.
func (s *CatalogService) LoadPage(ctx context.Context, params domain.QueryParameterSet) (domain.ServicePage, error) {
	logger.Debug("load services %s", params)

	page, err := s.api.ListServices(ctx, params)
	if err != nil {
		return domain.ServicePage{}, fmt.Errorf("load services: %w", err)
	}
	if page.Documents == nil {
		page.Documents = []domain.DoctorService{}
	}

	logger.Debug("loaded %d of %d services", len(page.Documents), page.Count)
	s.publish(page)
	return page, nil
}

// Page returns the latest published page.
func (s *CatalogService) Page() (domain.ServicePage, bool) {
	return s.page.Value()
}

// SubscribePage receives every published page.
func (s *CatalogService) SubscribePage(fn func(domain.ServicePage)) func() {
	return s.page.Subscribe(fn)
}

// SubscribeResults receives the documents of every published page.
func (s *CatalogService) SubscribeResults(fn func([]domain.DoctorService)) func() {
	return s.page.Subscribe(func(p domain.ServicePage) {
		fn(p.Documents)
	})
}

// SubscribeCount receives the total of every published page.
func (s *CatalogService) SubscribeCount(fn func(int)) func() {
	return s.page.Subscribe(func(p domain.ServicePage) {
		fn(p.Count)
	})
}

// DeleteItem deletes a listing and removes it from the published results.
// The count is not adjusted until the next load.
func (s *CatalogService) DeleteItem(ctx context.Context, id int) error {
	if err := s.api.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("delete service %d: %w", id, err)
	}

	s.page.Update(func(current domain.ServicePage) domain.ServicePage {
		return current.Without(id)
	})
	return nil
}

// LoadByDoctor fetches a doctor's own listings and publishes them.
func (s *CatalogService) LoadByDoctor(ctx context.Context, doctorID int) ([]domain.DoctorService, error) {
	docs, err := s.api.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("load services for doctor %d: %w", doctorID, err)
	}
	if docs == nil {
		docs = []domain.DoctorService{}
	}
	s.publish(domain.ServicePage{Documents: docs, Count: len(docs)})
	return docs, nil
}

// LoadByID fetches a listing and publishes it as the only result.
func (s *CatalogService) LoadByID(ctx context.Context, id int) (*domain.DoctorService, error) {
	svc, err := s.api.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load service %d: %w", id, err)
	}
	s.publish(domain.ServicePage{Documents: []domain.DoctorService{*svc}, Count: 1})
	return svc, nil
}

// Save creates (id 0) or updates a listing.
func (s *CatalogService) Save(ctx context.Context, form domain.ServiceForm, id int) (string, error) {
	if err := ValidateStruct(form); err != nil {
		return "", err
	}
	msg, err := s.api.SaveService(ctx, form, id)
	if err != nil {
		if id == 0 {
			return "", fmt.Errorf("create service: %w", err)
		}
		return "", fmt.Errorf("update service %d: %w", id, err)
	}
	return msg, nil
}

// LoadTemplates fetches and publishes all service templates.
func (s *CatalogService) LoadTemplates(ctx context.Context) ([]domain.ServiceTemplate, error) {
	templates, err := s.api.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	s.templates.Publish(slices.Clone(templates))
	return templates, nil
}

// SubscribeTemplates receives every published template list.
func (s *CatalogService) SubscribeTemplates(fn func([]domain.ServiceTemplate)) func() {
	return s.templates.Subscribe(fn)
}

// TemplateNames returns id/name pairs for every template.
func (s *CatalogService) TemplateNames(ctx context.Context) ([]domain.TemplateName, error) {
	names, err := s.api.ListTemplateNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load template names: %w", err)
	}
	return names, nil
}

// Template returns a single template.
func (s *CatalogService) Template(ctx context.Context, id int) (*domain.ServiceTemplate, error) {
	t, err := s.api.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load template %d: %w", id, err)
	}
	return t, nil
}

func (s *CatalogService) publish(page domain.ServicePage) {
	s.page.Publish(page)
}

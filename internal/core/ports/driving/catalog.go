package driving

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// CatalogService loads service listings and broadcasts them to subscribers.
// Subscribers receive the latest published value immediately on subscribe.
// The returned function cancels the subscription.
type CatalogService interface {
	// LoadPage fetches one page of listings and publishes documents and
	// count together.
	LoadPage(ctx context.Context, params domain.QueryParameterSet) (domain.ServicePage, error)

	// Page returns the latest published page.
	Page() (domain.ServicePage, bool)

	// SubscribePage receives every published page.
	SubscribePage(fn func(domain.ServicePage)) func()

	// SubscribeResults receives the documents of every published page.
	SubscribeResults(fn func([]domain.DoctorService)) func()

	// SubscribeCount receives the total of every published page.
	SubscribeCount(fn func(int)) func()

	// DeleteItem deletes a listing and removes it from the published results.
	// The published count is left unchanged.
	DeleteItem(ctx context.Context, id int) error

	// LoadByDoctor fetches and publishes a doctor's own listings.
	LoadByDoctor(ctx context.Context, doctorID int) ([]domain.DoctorService, error)

	// LoadByID fetches a single listing and publishes it as the only result.
	LoadByID(ctx context.Context, id int) (*domain.DoctorService, error)

	// Save creates (id 0) or updates a listing.
	Save(ctx context.Context, form domain.ServiceForm, id int) (string, error)

	// LoadTemplates fetches and publishes all service templates.
	LoadTemplates(ctx context.Context) ([]domain.ServiceTemplate, error)

	// SubscribeTemplates receives every published template list.
	SubscribeTemplates(fn func([]domain.ServiceTemplate)) func()

	// TemplateNames returns id/name pairs for the filter multi-select.
	TemplateNames(ctx context.Context) ([]domain.TemplateName, error)

	// Template returns a single template.
	Template(ctx context.Context, id int) (*domain.ServiceTemplate, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// CatalogAPI reads and writes service listings on the marketplace backend.
type CatalogAPI interface {
	// ListServices returns one page of listings matching the query parameters.
	ListServices(ctx context.Context, query domain.QueryParameterSet) (domain.ServicePage, error)

	// ListByDoctor returns every listing owned by a doctor.
	ListByDoctor(ctx context.Context, doctorID int) ([]domain.DoctorService, error)

	// GetService returns a single listing.
	// Returns domain.ErrNotFound if it does not exist.
	GetService(ctx context.Context, id int) (*domain.DoctorService, error)

	// SaveService creates a listing when id is 0, otherwise updates it.
	// Returns the backend confirmation message.
	SaveService(ctx context.Context, form domain.ServiceForm, id int) (string, error)

	// DeleteService removes a listing.
	DeleteService(ctx context.Context, id int) error

	// ListTemplates returns all service templates.
	ListTemplates(ctx context.Context) ([]domain.ServiceTemplate, error)

	// ListTemplateNames returns id/name pairs for every template.
	ListTemplateNames(ctx context.Context) ([]domain.TemplateName, error)

	// GetTemplate returns a single template.
	GetTemplate(ctx context.Context, id int) (*domain.ServiceTemplate, error)
}

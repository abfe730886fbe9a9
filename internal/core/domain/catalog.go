package domain

// DoctorService is a service listing offered by a doctor.
type DoctorService struct {
	ID          int
	DoctorName  string
	Title       string
	Price       float64
	Duration    int
	Description string

	// TemplateID links the listing to its ServiceTemplate.
	TemplateID int
}

// ServiceTemplate is a catalog-wide service type that doctors customise.
type ServiceTemplate struct {
	TemplateID         int
	Name               string
	DefaultDuration    int
	DefaultPrice       float64
	DefaultDescription string
}

// TemplateName is the id/name pair used by the template multi-select.
type TemplateName struct {
	TemplateID int
	Name       string
}

// ServicePage is one page of catalog results.
// Documents and Count are always published together.
type ServicePage struct {
	Documents []DoctorService

	// Count is the total number of matches across all pages.
	Count int
}

// Without returns a copy of the page with every document matching id removed.
// Count is left unchanged.
func (p ServicePage) Without(id int) ServicePage {
	docs := make([]DoctorService, 0, len(p.Documents))
	for _, d := range p.Documents {
		if d.ID != id {
			docs = append(docs, d)
		}
	}
	return ServicePage{Documents: docs, Count: p.Count}
}

// ServiceForm is a doctor's create/update request for a listing.
type ServiceForm struct {
	TemplateID        int      `validate:"required,gte=1"`
	CustomPrice       *float64 `validate:"omitempty,gte=0"`
	CustomDuration    *int     `validate:"omitempty,gte=0"`
	CustomDescription string   `validate:"omitempty,max=2000"`
}

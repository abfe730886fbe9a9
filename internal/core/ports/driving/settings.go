package driving

import (
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIBaseURL updates the backend address.
	SetAPIBaseURL(url string) error

	// SetPageSize updates the number of listings per page.
	SetPageSize(size int) error

	// SetRadius updates the number of neighbour page buttons.
	SetRadius(radius int) error

	// SetDebounce updates the filter edit quiet period.
	SetDebounce(d time.Duration) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}

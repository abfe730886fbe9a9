package services

import (
	"fmt"
	"net/url"
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAPIBaseURL      = "api.base_url"
	keyAPITimeout      = "api.timeout"
	keyAPIRetryMax     = "api.retry_max"
	keyAPIRateLimit    = "api.rate_limit"
	keyCatalogPageSize = "catalog.page_size"
	keyCatalogRadius   = "catalog.radius"
	keyCatalogDebounce = "catalog.debounce"
	keyCatalogFirst    = "catalog.show_first_button"
	keyCatalogLast     = "catalog.show_last_button"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:   s.getString(keyAPIBaseURL, defaults.API.BaseURL),
			Timeout:   s.getDuration(keyAPITimeout, defaults.API.Timeout),
			RetryMax:  s.getInt(keyAPIRetryMax, defaults.API.RetryMax),
			RateLimit: s.getFloat(keyAPIRateLimit, defaults.API.RateLimit),
		},
		Catalog: domain.CatalogSettings{
			PageSize:        s.getInt(keyCatalogPageSize, defaults.Catalog.PageSize),
			Radius:          s.getInt(keyCatalogRadius, defaults.Catalog.Radius),
			Debounce:        s.getDuration(keyCatalogDebounce, defaults.Catalog.Debounce),
			ShowFirstButton: s.getBool(keyCatalogFirst, defaults.Catalog.ShowFirstButton),
			ShowLastButton:  s.getBool(keyCatalogLast, defaults.Catalog.ShowLastButton),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyAPIBaseURL, settings.API.BaseURL},
		{keyAPITimeout, settings.API.Timeout.String()},
		{keyAPIRetryMax, settings.API.RetryMax},
		{keyAPIRateLimit, settings.API.RateLimit},
		{keyCatalogPageSize, settings.Catalog.PageSize},
		{keyCatalogRadius, settings.Catalog.Radius},
		{keyCatalogDebounce, settings.Catalog.Debounce.String()},
		{keyCatalogFirst, settings.Catalog.ShowFirstButton},
		{keyCatalogLast, settings.Catalog.ShowLastButton},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetAPIBaseURL updates the backend address.
func (s *SettingsService) SetAPIBaseURL(raw string) error {
	if err := validateBaseURL(raw); err != nil {
		return err
	}
	return s.update(func(a *domain.AppSettings) { a.API.BaseURL = raw })
}

// SetPageSize updates the number of listings per page.
func (s *SettingsService) SetPageSize(size int) error {
	if size < 1 || size > domain.MaxPageSize {
		return fmt.Errorf("%w: page size must be between 1 and %d", domain.ErrInvalidInput, domain.MaxPageSize)
	}
	return s.update(func(a *domain.AppSettings) { a.Catalog.PageSize = size })
}

// SetRadius updates the number of neighbour page buttons.
func (s *SettingsService) SetRadius(radius int) error {
	if radius < 0 || radius > domain.MaxButtonRadius {
		return fmt.Errorf("%w: radius must be between 0 and %d", domain.ErrInvalidInput, domain.MaxButtonRadius)
	}
	return s.update(func(a *domain.AppSettings) { a.Catalog.Radius = radius })
}

// SetDebounce updates the filter edit quiet period.
func (s *SettingsService) SetDebounce(d time.Duration) error {
	if d <= 0 || d > 10*time.Second {
		return fmt.Errorf("%w: debounce must be between 1ms and 10s", domain.ErrInvalidInput)
	}
	return s.update(func(a *domain.AppSettings) { a.Catalog.Debounce = d })
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := validateBaseURL(settings.API.BaseURL); err != nil {
		return err
	}
	if settings.Catalog.PageSize < 1 || settings.Catalog.PageSize > domain.MaxPageSize {
		return fmt.Errorf("%w: page size %d out of range", domain.ErrInvalidInput, settings.Catalog.PageSize)
	}
	if settings.Catalog.Radius < 0 || settings.Catalog.Radius > domain.MaxButtonRadius {
		return fmt.Errorf("%w: radius %d out of range", domain.ErrInvalidInput, settings.Catalog.Radius)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) update(fn func(*domain.AppSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(settings)
	return s.Save(settings)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: API URL must be an absolute http(s) URL: %q", domain.ErrInvalidInput, raw)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d := s.configStore.GetDuration(key)
	if d <= 0 {
		return defaultVal
	}
	return d
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultAPIBaseURL, s.API.BaseURL)
	assert.Equal(t, 15*time.Second, s.API.Timeout)
	assert.Equal(t, 3, s.API.RetryMax)
	assert.Equal(t, 10, s.Catalog.PageSize)
	assert.Equal(t, 2, s.Catalog.Radius)
	assert.Equal(t, 300*time.Millisecond, s.Catalog.Debounce)
	assert.True(t, s.Catalog.ShowFirstButton)
	assert.True(t, s.Catalog.ShowLastButton)
}

func TestCatalogSettings_WindowOptions(t *testing.T) {
	c := DefaultAppSettings().Catalog
	assert.Equal(t, DefaultWindowOptions(95, 10, 5), c.WindowOptions(95, 5))

	c.PageSize = 20
	c.ShowLastButton = false
	w := ComputeWindow(c.WindowOptions(95, 0))
	assert.Equal(t, []int{0, 1, 2}, w.Indices)
	assert.False(t, w.TrailingEllipsis)
}

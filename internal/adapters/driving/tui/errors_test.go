package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingCatalogService,
		ErrMissingRouter,
		ErrMissingAuthService,
		ErrMissingBrowserFactory,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingCatalogService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingCatalogService.Error(), "catalog service")
}

func TestErrMissingRouter_Message(t *testing.T) {
	assert.Contains(t, ErrMissingRouter.Error(), "router")
}

func TestErrMissingBrowserFactory_Message(t *testing.T) {
	assert.Contains(t, ErrMissingBrowserFactory.Error(), "browser factory")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.NotNil(t, tuiCmd.RunE)
}

func TestTUIPorts(t *testing.T) {
	setupTestServices(t, domain.RolePatient)

	ports := tuiPorts()
	require.NoError(t, ports.Validate())
	assert.NotNil(t, ports.Bookmarks)
	assert.NotNil(t, ports.Settings)
}

func TestTUI_MissingServices(t *testing.T) {
	setupTestServices(t, domain.RolePatient)
	SetServices(nil)

	_, err := runCmd(t, "tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
	assert.ErrorIs(t, err, tui.ErrInvalidPorts)
}

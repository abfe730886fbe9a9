package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for medmart.

Browse the catalog with live filters and page buttons, sign in, manage
your listings as a doctor and reopen bookmarks.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  /        - Edit filters
  ←/→      - Previous / next page
  Esc      - Back
  q        - Quit

Edits to config.toml while the TUI is open apply to the next catalog view.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Catalog:    catalogService,
		Router:     routerService,
		Auth:       authService,
		Bookmarks:  bookmarkService,
		Settings:   settingsService,
		NewBrowser: newBrowser,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	app.WithContext(ctx)

	p := app.NewProgram()

	if configWatcher != nil {
		go func() {
			err := configWatcher.Watch(ctx, func() {
				p.Send(messages.SettingsReloaded{Settings: settingsOrDefault()})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

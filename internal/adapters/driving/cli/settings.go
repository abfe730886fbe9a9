package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend address and catalog browsing options.

Settings are stored in ~/.medmart/config.toml and can also be edited by hand.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting.

Keys:
  api-url     backend address, e.g. https://medmart.example/api
  page-size   listings per page (1-100)
  radius      page buttons shown on each side of the current page (0-10)
  debounce    quiet period before filter edits apply, e.g. 300ms`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	// Values such as -1 are arguments, not shorthand flags.
	settingsSetCmd.Flags().SetInterspersed(false)

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsWizardCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.API.Timeout)
	cmd.Printf("  Retries: %d\n", settings.API.RetryMax)
	if settings.API.RateLimit > 0 {
		cmd.Printf("  Rate limit: %.1f req/s\n", settings.API.RateLimit)
	} else {
		cmd.Printf("  Rate limit: off\n")
	}
	cmd.Println()

	cmd.Println("[Catalog]")
	cmd.Printf("  Page size: %d\n", settings.Catalog.PageSize)
	cmd.Printf("  Button radius: %d\n", settings.Catalog.Radius)
	cmd.Printf("  Filter debounce: %s\n", settings.Catalog.Debounce)
	cmd.Printf("  First/last buttons: %s/%s\n",
		yesNo(settings.Catalog.ShowFirstButton), yesNo(settings.Catalog.ShowLastButton))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'medmart settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, value := args[0], args[1]

	var err error
	switch key {
	case "api-url":
		err = settingsService.SetAPIBaseURL(value)
	case "page-size":
		var n int
		if n, err = strconv.Atoi(value); err == nil {
			err = settingsService.SetPageSize(n)
		}
	case "radius":
		var n int
		if n, err = strconv.Atoi(value); err == nil {
			err = settingsService.SetRadius(n)
		}
	case "debounce":
		var d time.Duration
		if d, err = time.ParseDuration(value); err == nil {
			err = settingsService.SetDebounce(d)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("medmart Settings Wizard")
	cmd.Println("=======================")
	cmd.Println("Press Enter to keep the value in brackets.")
	cmd.Println()

	reader := bufio.NewReader(stdin)

	cmd.Printf("Backend URL [%s]: ", settings.API.BaseURL)
	if input := readLine(reader); input != "" {
		if err := settingsService.SetAPIBaseURL(input); err != nil {
			return fmt.Errorf("failed to set backend URL: %w", err)
		}
	}

	cmd.Printf("Listings per page [%d]: ", settings.Catalog.PageSize)
	pageSize := parseIntDefault(readLine(reader), settings.Catalog.PageSize)
	if err := settingsService.SetPageSize(pageSize); err != nil {
		return fmt.Errorf("failed to set page size: %w", err)
	}

	cmd.Printf("Page buttons on each side [%d]: ", settings.Catalog.Radius)
	radius := parseIntDefault(readLine(reader), settings.Catalog.Radius)
	if err := settingsService.SetRadius(radius); err != nil {
		return fmt.Errorf("failed to set radius: %w", err)
	}

	cmd.Printf("Filter debounce [%s]: ", settings.Catalog.Debounce)
	if input := readLine(reader); input != "" {
		d, err := time.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", input, err)
		}
		if err := settingsService.SetDebounce(d); err != nil {
			return fmt.Errorf("failed to set debounce: %w", err)
		}
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func parseIntDefault(input string, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// settingsOrDefault returns stored settings, falling back to defaults.
func settingsOrDefault() domain.AppSettings {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}

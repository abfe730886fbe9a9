package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// EnvAPIURL overrides the configured backend address.
const EnvAPIURL = "MEDMART_API_URL"

// annotationNoBootstrap marks commands that run without services.
const annotationNoBootstrap = "medmart/no-bootstrap"

// version is set at build time via SetVersion.
var version = "dev"

// Options are the global flags handed to the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.medmart.
	ConfigDir string

	// APIURL overrides the configured backend address.
	APIURL string

	// Ephemeral keeps session, history and bookmarks in memory.
	Ephemeral bool
}

// ConfigWatcher reloads settings when the config file changes.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services are the driving ports the commands call into.
type Services struct {
	Catalog   driving.CatalogService
	Router    driving.Router
	Auth      driving.AuthService
	User      driving.UserService
	Bookmarks driving.BookmarkService
	Settings  driving.SettingsService

	// NewBrowser builds the filter synchroniser and pager for an
	// interactive catalog session.
	NewBrowser func(settings domain.CatalogSettings) driving.CatalogBrowser

	// Watcher is optional.
	Watcher ConfigWatcher
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases them.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()
	opts      Options
	verbose   bool

	catalogService  driving.CatalogService
	routerService   driving.Router
	authService     driving.AuthService
	userService     driving.UserService
	bookmarkService driving.BookmarkService
	settingsService driving.SettingsService
	newBrowser      func(domain.CatalogSettings) driving.CatalogBrowser
	configWatcher   ConfigWatcher
)

var rootCmd = &cobra.Command{
	Use:   "medmart",
	Short: "Browse and manage healthcare services from the terminal",
	Long: `medmart is a terminal client for the medmart services marketplace.

Browse doctor-offered services with price, duration and template filters,
manage your own listings as a doctor, and keep bookmarks of catalog views.

Catalog views are addressed by query strings, so any view can be reopened:
  medmart services list --url '?custom_price=gte:10&page=2'`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func init() {
	cobra.EnableTraverseRunHooks = true

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.ConfigDir, "config", "", "config directory (default ~/.medmart)")
	flags.StringVar(&opts.APIURL, "api-url", "", "backend URL (overrides config and "+EnvAPIURL+")")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep session, history and bookmarks in memory")
}

// SetVersion sets the version reported by `medmart version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	catalogService = s.Catalog
	routerService = s.Router
	authService = s.Auth
	userService = s.User
	bookmarkService = s.Bookmarks
	settingsService = s.Settings
	newBrowser = s.NewBrowser
	configWatcher = s.Watcher
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, skip := cmd.Annotations[annotationNoBootstrap]; skip || bootstrap == nil {
		return nil
	}

	resolved := opts
	if resolved.APIURL == "" {
		resolved.APIURL = os.Getenv(EnvAPIURL)
	}

	services, release, err := bootstrap(commandContext(cmd), resolved)
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = release
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// userError rewrites core errors into messages for the terminal.
func userError(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthExpired):
		return errors.New("you are not signed in; run 'medmart auth login'")
	case errors.Is(err, domain.ErrForbidden):
		return errors.New("this command is only available to doctors")
	default:
		return fmt.Errorf("%s failed: %w", action, err)
	}
}

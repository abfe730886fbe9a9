package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// stores groups the persistence ports.
type stores struct {
	sessions  driven.SessionStore
	history   driven.LocationStore
	bookmarks driven.BookmarkStore
}

// bootstrap wires the adapters into the core services.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, func(), error) {
	configStore, watcher, err := openConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	settings := services.NewSettingsService(configStore)

	current, err := settings.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	apiSettings := current.API
	if opts.APIURL != "" {
		apiSettings.BaseURL = opts.APIURL
	}

	st, release, err := openStores(opts)
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(api.ConfigFrom(apiSettings), st.sessions)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("creating API client: %w", err)
	}
	logger.Debug("backend %s", client.BaseURL())

	catalog := services.NewCatalogService(client)
	router := services.NewRouter(st.history, nil)
	auth := services.NewAuthService(client, st.sessions)

	svc := &cli.Services{
		Catalog:    catalog,
		Router:     router,
		Auth:       auth,
		User:       services.NewUserService(client, auth),
		Bookmarks:  services.NewBookmarkService(st.bookmarks, st.history),
		Settings:   settings,
		NewBrowser: browserFactory(router, catalog),
	}
	if watcher != nil {
		svc.Watcher = watcher
	}
	return svc, release, nil
}

// openConfig returns the settings store. Ephemeral runs use defaults and
// never touch config.toml.
func openConfig(opts cli.Options) (driven.ConfigStore, *file.ConfigStore, error) {
	if opts.Ephemeral {
		return memory.NewConfigStore(), nil, nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("config %s", store.Path())
	return store, store, nil
}

// openStores opens the session, history and bookmark stores.
func openStores(opts cli.Options) (stores, func(), error) {
	if opts.Ephemeral {
		return stores{
			sessions:  memory.NewSessionStore(),
			history:   memory.NewLocationStore(),
			bookmarks: memory.NewBookmarkStore(),
		}, func() {}, nil
	}

	dataDir := ""
	if opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	db, err := sqlite.NewStore(dataDir)
	if err != nil {
		return stores{}, nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("database %s", db.Path())

	release := func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database: %v", err)
		}
	}
	return stores{
		sessions:  db.SessionStore(),
		history:   db.LocationStore(),
		bookmarks: db.BookmarkStore(),
	}, release, nil
}

// browserFactory builds a fresh form, synchroniser and pager for each
// interactive catalog session.
func browserFactory(router driving.Router, catalog driving.CatalogService) func(domain.CatalogSettings) driving.CatalogBrowser {
	return func(s domain.CatalogSettings) driving.CatalogBrowser {
		form := services.NewFilterForm()
		return driving.CatalogBrowser{
			Form: form,
			Sync: services.NewFilterSynchronizer(form, router, catalog, services.SyncConfig{
				PageSize: s.PageSize,
				Debounce: s.Debounce,
			}),
			Pager: services.NewCatalogPage(router, catalog, s),
		}
	}
}

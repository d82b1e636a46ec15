// Package cli provides the initialization steps shared by the shoplist
// commands: logging, .env loading, config validation and wiring the
// components on top of the configured store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"shoplist/internal/backend"
	"shoplist/internal/categories"
	"shoplist/internal/config"
	"shoplist/internal/credentials"
	"shoplist/internal/export"
	"shoplist/internal/folders"
	applog "shoplist/internal/log"
	"shoplist/internal/services"
	"shoplist/internal/storage"
	"shoplist/internal/views"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger. Logs go to stderr so command output stays clean.
func SetupLogger(level string) *applog.Logger {
	return SetupLoggerTo(os.Stderr, level)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentCLI,
		Output:    w,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration, applies overrides such as
// command-line flags, and validates the result.
func LoadAndValidateConfig(logger *applog.Logger, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			applog.FieldErrorType, applog.ErrorTypeConfiguration,
			applog.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// InitStore creates the configured store. The caller must Close the result.
func InitStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opening store",
		applog.FieldBackend, bcfg.Type.String(),
		"cache_enabled", cfg.CacheEnabled())
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize store",
			applog.FieldBackend, bcfg.Type.String(),
			applog.FieldErrorType, applog.ErrorTypeDatabase,
			applog.FieldError, err)
		return nil, fmt.Errorf("init store: %w", err)
	}
	return res, nil
}

// App bundles the components built on one store.
type App struct {
	Store       storage.Store
	Folders     *folders.Registry
	Categories  *categories.Store
	Shopping    *services.ShoppingService
	View        *views.CrossFolderView
	Credentials *credentials.Store
	Export      *export.Service
}

// NewApp wires every component to store, each with its own component logger.
func NewApp(store storage.Store, logger *applog.Logger, opts ...credentials.Option) *App {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	reg := folders.NewRegistry(store, logger.WithComponent(applog.ComponentFolders).Slog())
	cats := categories.NewStore(store, logger.WithComponent(applog.ComponentCategories).Slog())
	view := views.NewCrossFolderView(reg, cats, logger.WithComponent(applog.ComponentViews).Slog())

	return &App{
		Store:       store,
		Folders:     reg,
		Categories:  cats,
		Shopping:    services.NewShoppingService(reg, cats, logger.WithComponent(applog.ComponentShopping).Slog()),
		View:        view,
		Credentials: credentials.NewStore(store, logger.WithComponent(applog.ComponentCredentials).Slog(), opts...),
		Export:      export.NewService(view, logger.WithComponent(applog.ComponentExport).Slog()),
	}
}

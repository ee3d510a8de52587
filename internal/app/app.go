package app

import (
	"context"
	"fmt"

	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/viewmodel"

	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	configPath string
	client     *client.Client
	store      *viewmodel.Store
	shutdowns  []func()
}

func New(cfg *config.Config, configPath string) *App {
	return &App{
		config:     cfg,
		configPath: configPath,
		shutdowns:  make([]func(), 0),
	}
}

// Init sets up logging, the remote store client and the view-model.
func (a *App) Init(ctx context.Context, notifier viewmodel.Notifier) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Sync()
	})

	theme, err := viewmodel.ParseTheme(a.config.UI.Theme)
	if err != nil {
		return fmt.Errorf("config ui.theme: %w", err)
	}

	c, err := client.New(a.config.API.BaseURL, client.WithTimeout(a.config.API.Timeout))
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}
	a.client = c
	a.store = viewmodel.New(c, notifier, viewmodel.WithTheme(theme))

	logger.Info("App: Initialized",
		zap.String("api", c.BaseURL()),
		zap.String("theme", string(theme)))
	return nil
}

func (a *App) Store() *viewmodel.Store {
	return a.store
}

func (a *App) Config() *config.Config {
	return a.config
}

// SaveTheme persists the view-model's current theme to the config file.
func (a *App) SaveTheme() error {
	a.config.UI.Theme = string(a.store.Theme())
	if err := config.Save(a.configPath, a.config); err != nil {
		logger.Error("App: Failed to save config", err, zap.String("path", a.configPath))
		return err
	}
	return nil
}

// Shutdown runs the registered shutdown functions in reverse order.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finboardhq/finboard-portal/internal/alerts"
	"github.com/finboardhq/finboard-portal/internal/cache"
	"github.com/finboardhq/finboard-portal/internal/client"
	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/config"
	"github.com/finboardhq/finboard-portal/internal/handlers"
	"github.com/finboardhq/finboard-portal/internal/interfaces"
	"github.com/finboardhq/finboard-portal/internal/markets"
	"github.com/finboardhq/finboard-portal/internal/models"
	"github.com/finboardhq/finboard-portal/internal/storage"
	"github.com/finboardhq/finboard-portal/internal/stream"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	Markets    *markets.Service
	AlertStore *alerts.Store
	TickerHub  *stream.Hub

	// HTTP handlers
	PageHandler      *handlers.PageHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	AuthHandler      *handlers.AuthHandler
	MarketsHandler   *handlers.MarketsHandler
	NewsHandler      *handlers.NewsHandler
	AlertsHandler    *handlers.AlertsHandler
	WatchlistHandler *handlers.WatchlistHandler
	SettingsHandler  *handlers.SettingsHandler

	stopHub context.CancelFunc
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE — do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = storageManager

	a.initServices()
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initServices wires the market service, alert store and ticker hub.
func (a *App) initServices() {
	marketClient := client.NewMarketClient(a.Config.API.URL)
	responseCache := cache.New(a.Config.Market.RefreshInterval(), a.Config.Market.CacheMaxEntries)

	a.Markets = markets.NewService(marketClient, responseCache, a.Logger, a.Config.Market.RefreshInterval())
	a.AlertStore = alerts.NewStore(a.Markets.KnownSymbol)
	a.TickerHub = stream.NewHub(a.Logger)

	a.Markets.SetSummaryListener(func(summary models.MarketSummary) {
		a.TickerHub.Broadcast(summary)
	})
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	jwtSecret := []byte(a.Config.Auth.JWTSecret)

	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Config.IsDevMode(), jwtSecret)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.Config.API.URL, jwtSecret)
	a.MarketsHandler = handlers.NewMarketsHandler(a.Logger, a.Markets)
	a.NewsHandler = handlers.NewNewsHandler(a.Logger, a.Markets, a.Config.News.Countries, a.Config.News.DefaultCountry)
	a.AlertsHandler = handlers.NewAlertsHandler(a.Logger, a.AlertStore)
	a.WatchlistHandler = handlers.NewWatchlistHandler(a.Logger, a.Markets)
	a.SettingsHandler = handlers.NewSettingsHandler(a.Logger, a.Storage.KeyValueStorage(), a.Config.News.Countries)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Start launches the background pollers and the websocket hub.
func (a *App) Start(ctx context.Context) {
	hubCtx, cancel := context.WithCancel(ctx)
	a.stopHub = cancel
	go a.TickerHub.Run(hubCtx)

	a.Markets.Start(ctx)
}

// Close stops background work and releases application resources.
func (a *App) Close() error {
	a.Markets.Stop()
	if a.stopHub != nil {
		a.stopHub()
	}

	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}

// ShutdownTimeout is how long graceful shutdown may take before the
// process exits anyway.
const ShutdownTimeout = 10 * time.Second

package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-detail/pkg/spaceconnector"
)

type serveCmd struct {
	Listen       string `help:"Listen address (overrides config)."`
	Upstream     string `help:"SpaceConnector base URL (overrides config)."`
	Fixtures     string `type:"existingdir" help:"Serve dashboards from record files instead of SpaceConnector."`
	ManifestPath string `name:"manifest" type:"existingfile" help:"Widget manifest to register on top of the defaults."`
}

func (cmd *serveCmd) Run(rt *runtime) error {
	cfg := cmd.apply(rt.cfg)
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	registry := dashboard.NewRegistry()
	if cfg.ManifestPath != "" {
		doc, err := registry.LoadManifestFile(cfg.ManifestPath)
		if err != nil {
			return err
		}
		logger.Info("widget manifest loaded", zap.String("path", cfg.ManifestPath), zap.Int("widgets", len(doc.Widgets)))
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	telemetry := dashboard.NewLoggerTelemetry(logger.Named("telemetry"))
	views := dashboard.NewViews(dashboard.StoreOptions{
		Client:    client,
		Widgets:   registry,
		Telemetry: telemetry,
		Logger:    logger.Named("store"),
	})
	broadcast := dashboard.NewBroadcastHook()
	hooks := dashboard.ChangeHooks{broadcast, &dashboard.LoggerHook{Logger: logger.Named("events")}}
	executor := httpapi.NewCommandExecutor(httpapi.ExecutorOptions{
		Views:     views,
		Hook:      hooks,
		Telemetry: telemetry,
		Preview: dashboard.PreviewOptions{
			Cache: dashboard.NewLayoutPreviewCache(cfg.PreviewTTL),
		},
	})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       executor,
		Broadcast: broadcast,
		BasePath:  cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("dashctl: register routes: %w", err)
	}

	logger.Info("dashboard view api listening", zap.String("listen", cfg.Listen), zap.String("base_path", cfg.BasePath))
	return server.Serve(cfg.Listen)
}

func (cmd *serveCmd) apply(cfg Config) Config {
	if cmd.Listen != "" {
		cfg.Listen = cmd.Listen
	}
	if cmd.Upstream != "" {
		cfg.SpaceConnector.BaseURL = cmd.Upstream
	}
	if cmd.Fixtures != "" {
		cfg.FixturesDir = cmd.Fixtures
	}
	if cmd.ManifestPath != "" {
		cfg.ManifestPath = cmd.ManifestPath
	}
	return cfg
}

func newClient(cfg Config, logger *zap.Logger) (dashboard.DashboardClient, error) {
	if cfg.FixturesDir != "" {
		records, err := readFixtures(cfg.FixturesDir)
		if err != nil {
			return nil, err
		}
		logger.Info("serving dashboard fixtures", zap.String("dir", cfg.FixturesDir), zap.Int("dashboards", len(records)))
		return spaceconnector.NewMockClient(records...), nil
	}
	return spaceconnector.NewHTTPClient(spaceconnector.HTTPConfig{
		BaseURL: cfg.SpaceConnector.BaseURL,
		APIKey:  cfg.SpaceConnector.APIKey,
		Timeout: cfg.SpaceConnector.Timeout,
	})
}

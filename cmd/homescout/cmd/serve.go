package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/homescout/homescout/internal/api/handlers"
	"github.com/homescout/homescout/internal/api/middleware"
	"github.com/homescout/homescout/internal/config"
	"github.com/homescout/homescout/internal/engine"
	"github.com/homescout/homescout/internal/notify"
	"github.com/homescout/homescout/internal/store"
	"github.com/homescout/homescout/internal/tracing"
	"github.com/homescout/homescout/pkg/engagement"
	"github.com/homescout/homescout/pkg/logger"
	"github.com/homescout/homescout/pkg/matchscore"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and background scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := cmd.Context()

	shutdownTracing, err := tracing.Init(
		ctx, cfg.Tracing.Enabled, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, Version,
	)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	st, err := store.NewPostgresStoreWithPoolSize(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	eng := engine.NewEngine(st, buildNotifier(cfg, log), engineOptions(cfg, log)...)

	sched, err := engine.NewScheduler(
		eng, cfg.Schedule.MatchInterval, cfg.Schedule.EngagementInterval, log,
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := newRouter(log, st, eng)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("server starting", "addr", addr, "version", Version)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	// Let in-flight scheduled jobs finish before closing the store.
	<-sched.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", "error", err)
	}

	log.Info("server stopped")
	return nil
}

// newRouter assembles the Echo instance: operational endpoints directly on
// Echo, the versioned API through Huma.
func newRouter(log *slog.Logger, st store.Store, eng *engine.Engine) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("HomeScout API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchesHandler(st))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(st))
	handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(st))
	handlers.RegisterMatchRoutes(api, handlers.NewMatchesHandler(eng))
	handlers.RegisterEventRoutes(api, handlers.NewEventsHandler(st))
	handlers.RegisterTelemetryRoutes(api, handlers.NewTelemetryHandler(eng))
	handlers.RegisterScoreRoutes(api, handlers.NewScoresHandler(eng.MatchConfig()))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))

	return e
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	wh := cfg.Notifications.Webhook
	if wh.Enabled {
		return notify.NewWebhookNotifier(wh.URL, notify.WithRateLimit(wh.RatePerSec, wh.Burst))
	}
	return notify.NewNoOpNotifier(log)
}

func engineOptions(cfg *config.Config, log *slog.Logger) []engine.EngineOption {
	return []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithMatchConfig(matchscore.Config{
			Weights: matchscore.Weights{
				Price:    cfg.Scoring.Weights.Price,
				Rooms:    cfg.Scoring.Weights.Rooms,
				Location: cfg.Scoring.Weights.Location,
				Features: cfg.Scoring.Weights.Features,
			},
			PriceDecayPct: cfg.Scoring.PriceDecayPct,
		}),
		engine.WithEngagementConfig(engagement.Config{
			TimeCeiling:     cfg.Engagement.TimeCeiling,
			FullCreditViews: cfg.Engagement.FullCreditViews,
			RecencyWindow:   cfg.Engagement.RecencyWindow,
			StaleFactor:     cfg.Engagement.StaleFactor,
			TimeWeight:      cfg.Engagement.TimeWeight,
			FrequencyWeight: cfg.Engagement.FrequencyWeight,
		}),
		engine.WithBatchThreshold(cfg.Alerts.BatchThreshold),
		engine.WithHotLeadThreshold(cfg.Engagement.HotLeadThreshold),
		engine.WithStaggerOffset(cfg.Schedule.StaggerOffset),
	}
}

// Command server runs the rabbitry management API: cage and herd inventory,
// vaccination tracking, feed stock projections, reproduction cycles and the
// daily husbandry reminder.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lapinos/go-rabbitry-backend/internal/config"
	httpapi "github.com/lapinos/go-rabbitry-backend/internal/http"
	"github.com/lapinos/go-rabbitry-backend/internal/observability"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
	"github.com/lapinos/go-rabbitry-backend/internal/scheduler"
	"github.com/lapinos/go-rabbitry-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(c)
	}()

	store, degraded, err := repo.Open(cfg.StoreBackend, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store open failed")
	}
	defer func() { _ = store.Close() }()
	if degraded {
		log.Warn().Str("db_path", cfg.DBPath).
			Msg("durable store unavailable, falling back to in-memory store; data will not survive restarts")
	}
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svcs := httpapi.NewServices(store)

	sched := scheduler.New(svcs.Alerts, svcs.Settings, cfg.AlertWindowDays, cfg.FeedAlertDays, nil, log.Logger)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer sched.Stop()

	// Reminder time changes take effect without a restart.
	svcs.Settings.OnDailyTimeChange = func(v string) {
		if err := sched.Reschedule(v); err != nil {
			log.Error().Err(err).Str("daily_time", v).Msg("reschedule failed")
		}
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, svcs, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

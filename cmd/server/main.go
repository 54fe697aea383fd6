package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfx/tradeguard/internal/config"
	"github.com/meridianfx/tradeguard/internal/database"
	"github.com/meridianfx/tradeguard/internal/modules/charts"
	"github.com/meridianfx/tradeguard/internal/modules/metrics"
	"github.com/meridianfx/tradeguard/internal/modules/risk"
	"github.com/meridianfx/tradeguard/internal/modules/sessions"
	"github.com/meridianfx/tradeguard/internal/modules/trading"
	"github.com/meridianfx/tradeguard/internal/scheduler"
	"github.com/meridianfx/tradeguard/internal/server"
	"github.com/meridianfx/tradeguard/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from the start
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting tradeguard")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Core modules
	policy := risk.NewPolicy(risk.Limits{
		MaxDailyLossPercent: cfg.MaxDailyLossPercent,
		MaxOpenPositions:    cfg.MaxOpenPositions,
		MaxLotSize:          cfg.MaxLotSize,
		MaxDailyTrades:      cfg.MaxDailyTrades,
	}, log)

	gate, err := sessions.NewGate(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session gate")
	}

	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	tradeSource := trading.NewMetricsSource(tradeRepo)

	metricsService := metrics.NewService(log)
	chartsService := charts.NewService(tradeSource, cfg.InitialBalance, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := registerJobs(sched, policy, gate, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,

		RiskHandlers:     risk.NewHandlers(policy, log),
		SessionsHandlers: sessions.NewHandlers(gate, log),
		MetricsHandlers:  metrics.NewHandlers(metricsService, tradeSource, cfg.InitialBalance, log),
		TradingHandlers:  trading.NewHandlers(tradeRepo, policy, log),
		ChartsHandlers:   charts.NewHandlers(chartsService, log),
		SystemHandlers:   server.NewSystemHandlers(log, db.Path(), policy, gate, tradeRepo),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(sched *scheduler.Scheduler, policy *risk.Policy, gate *sessions.Gate, cfg *config.Config, log zerolog.Logger) error {
	// Drop stale daily risk counters shortly after midnight
	if err := sched.AddJob("10 0 * * *", risk.NewEvictionJob(policy, cfg.CounterRetentionDays)); err != nil {
		return err
	}

	// Log market open/close transitions
	statusJob := sessions.NewStatusLogJob(gate, log)
	if err := sched.AddJob("*/15 * * * *", statusJob); err != nil {
		return err
	}

	// Surface the market state at startup instead of waiting for the first tick
	if err := sched.RunNow(statusJob); err != nil {
		return err
	}

	return nil
}

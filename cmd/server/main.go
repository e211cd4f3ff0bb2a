package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snowfolio/snowfolio/internal/clients/avalanche"
	"github.com/snowfolio/snowfolio/internal/clients/coingecko"
	"github.com/snowfolio/snowfolio/internal/clients/traderjoe"
	"github.com/snowfolio/snowfolio/internal/clients/yieldyak"
	"github.com/snowfolio/snowfolio/internal/config"
	"github.com/snowfolio/snowfolio/internal/database"
	"github.com/snowfolio/snowfolio/internal/events"
	"github.com/snowfolio/snowfolio/internal/modules/allocation"
	"github.com/snowfolio/snowfolio/internal/modules/backtesting"
	"github.com/snowfolio/snowfolio/internal/modules/budget"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
	"github.com/snowfolio/snowfolio/internal/modules/rebalancing"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
	"github.com/snowfolio/snowfolio/internal/modules/yields"
	"github.com/snowfolio/snowfolio/internal/scheduler"
	"github.com/snowfolio/snowfolio/internal/server"
	"github.com/snowfolio/snowfolio/pkg/logger"
)

func main() {
	// Load configuration first so the logger honors LOG_LEVEL
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Snowfolio")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Upstream clients
	chain := avalanche.NewClient(cfg.AvalancheRPCURL, log)
	prices := coingecko.NewClient(cfg.CoinGeckoURL, log)
	joe := traderjoe.NewClient(cfg.TraderJoeURL, log)
	yak := yieldyak.NewClient(cfg.YieldYakURL, cfg.YieldYakFarm, log)

	// Events
	eventManager := events.NewManager(log)

	// Repositories
	yieldRepo := yields.NewRepository(db.Conn(), log)
	profileRepo := portfolio.NewProfileRepository(db.Conn(), log)
	portfolioHistory := portfolio.NewHistoryRepository(db.Conn(), log)
	rebalanceHistory := rebalancing.NewHistoryRepository(db.Conn(), log)

	// Services
	yieldService, err := yields.NewService(chain, joe, yak, yieldRepo, eventManager, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize yield service")
	}

	chainReader := portfolio.NewChainReader(chain, prices, log)
	portfolioService := portfolio.NewService(chainReader, portfolioHistory, log)

	gasEstimator := rebalancing.NewGasEstimator(chain, cfg.RebalanceGasUnits, log)
	rebalanceService := rebalancing.NewService(yieldService, gasEstimator, log)

	executor := rebalancing.NewLogExecutor(log)
	autopilot := rebalancing.NewAutopilot(
		rebalanceService,
		profileRepo,
		portfolioService,
		rebalanceHistory,
		executor,
		eventManager,
		log,
	)
	autopilot.Start()
	defer autopilot.Stop()

	if err := autopilot.Restore(); err != nil {
		log.Error().Err(err).Msg("Failed to restore auto-rebalance schedules")
	}

	// Scheduler and background jobs
	sched := scheduler.New(log)
	yieldJob := scheduler.NewYieldSyncJob(yieldService, log)
	if err := sched.AddJob(cfg.YieldSyncSchedule, yieldJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register yield sync job")
	}
	sched.Start()
	defer sched.Stop()

	// Prime yields so the first strategy requests do not wait on providers
	go func() {
		if err := sched.RunNow(yieldJob); err != nil {
			log.Warn().Err(err).Msg("Initial yield sync failed")
		}
	}()

	// HTTP handlers
	handlers := server.Handlers{
		Risk:        risk.NewHandler(log),
		Allocation:  allocation.NewHandler(yieldService, log),
		Portfolio:   portfolio.NewHandler(profileRepo, portfolioHistory, portfolioService, eventManager, log),
		Rebalancing: rebalancing.NewHandler(rebalanceService, autopilot, profileRepo, portfolioService, rebalanceHistory, log),
		Backtesting: backtesting.NewHandler(eventManager, log),
		Budget:      budget.NewHandler(log),
		Yields:      yields.NewHandler(yieldService, yieldRepo, log),
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		DB:       db,
		Config:   cfg,
		Handlers: handlers,
		DevMode:  cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

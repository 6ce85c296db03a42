package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wellmind-backend/internal/api"
	"wellmind-backend/internal/api/handlers"
	"wellmind-backend/internal/config"
	"wellmind-backend/internal/domain/services"
	"wellmind-backend/internal/domain/services/ai"
	"wellmind-backend/internal/infrastructure/cache"
	"wellmind-backend/internal/infrastructure/database"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/internal/streaming"
	"wellmind-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting WellMind backend")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Connect to Redis (optional; caching and rate limiting degrade without it)
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			defer redisCache.Close()
		}
	}

	// Initialize repositories
	repos := repository.NewRepositories(db.Pool())

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing with local broadcast only")
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	// Initialize the analysis pipeline
	provider := ai.NewProvider(cfg.LLM, log)
	analyzer := ai.NewAnalyzer(provider, log)
	log.Info().Str("provider", cfg.LLM.Provider).Msg("analyzer initialized")

	// Alert delivery and policy
	mailer := services.NewSMTPMailer(cfg.Alerts.SMTP, log)
	policy := services.NewAlertPolicy(mailer, cfg.Alerts.RateLimitWindow, log)

	// Chat turn orchestration
	publisher := streaming.NewEventBusPublisher(eventBus, wsHub)
	chatService := services.NewChatService(db, repos, analyzer, policy, publisher, cfg.Alerts.CommitRetries, log)

	// Dashboard aggregation
	dashboardService := services.NewDashboardService(repos.Analyses, redisCache, cfg.Dashboard.CacheTTL, log)

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Chat:      chatService,
		Dashboard: dashboardService,
		Cache:     redisCache,
		Repos:     repos,
		WSHub:     wsHub,
		EventBus:  eventBus,
		Logger:    log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop the hub and subscriptions
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()

	log.Info().Msg("shutdown complete")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"photon-trading-bot/config"
	"photon-trading-bot/internal/ai/llm"
	"photon-trading-bot/internal/api"
	"photon-trading-bot/internal/bot"
	"photon-trading-bot/internal/cache"
	"photon-trading-bot/internal/circuit"
	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/events"
	"photon-trading-bot/internal/logging"
	"photon-trading-bot/internal/order"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/recorder"
	"photon-trading-bot/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize structured logging
	logger := logging.New(&logging.Config{
		Level:      cfg.LoggingConfig.Level,
		Output:     cfg.LoggingConfig.Output,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
		Component:  "main",
	})
	logging.SetDefault(logger)
	logger.Info("Structured logging initialized")

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize event bus
	eventBus := events.NewEventBus()
	logger.Info("Event bus initialized")

	// Database and schema
	db, err := database.NewDB(database.Config{
		Host:     cfg.DatabaseConfig.Host,
		Port:     cfg.DatabaseConfig.Port,
		User:     cfg.DatabaseConfig.User,
		Password: cfg.DatabaseConfig.Password,
		Database: cfg.DatabaseConfig.Database,
		SSLMode:  cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		logger.Fatal("Failed to ensure schema", "error", err)
	}
	schemaCancel()
	logger.Info("Database connected")

	// Redis settings cache; the settings service degrades to the database
	// when redis is disabled or down
	var cacheSvc *cache.CacheService
	if cfg.RedisConfig.Enabled {
		cacheSvc, err = cache.NewCacheService(cfg.RedisConfig)
		if err != nil {
			logger.Warn("Redis cache unavailable", "error", err)
			cacheSvc = nil
		}
	}
	settingsSvc := cache.NewSettingsService(cacheSvc, db)

	// Boot-time settings snapshot; seeds the default document on first run
	// and drives the venue breaker's error window.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	bootSettings, err := settingsSvc.Load(bootCtx)
	bootCancel()
	if err != nil {
		logger.Warn("Failed to load settings, venue breaker uses defaults", "error", err)
	}

	// Vault-backed session cookie, with PHOTON_COOKIE as the fallback
	vaultClient, err := vault.NewClient(cfg.VaultConfig, cfg.PhotonConfig.Cookie)
	if err != nil {
		logger.Fatal("Failed to create vault client", "error", err)
	}

	// Venue client
	var client photon.PhotonClient
	if cfg.PhotonConfig.MockMode {
		client = photon.NewMockClient()
		logger.Warn("Mock mode enabled, using simulated venue data")
	} else {
		var breakerCfg *circuit.Config
		if bootSettings != nil {
			breakerCfg = circuit.WindowConfig(bootSettings.App.MaxAPIErrorsInWindow, bootSettings.App.APIErrorWindowS)
		}
		breaker := circuit.NewErrorWindowBreaker(breakerCfg)
		breaker.OnTrip(func(reason string) {
			eventBus.PublishError("photon", reason, nil)
		})
		client = photon.NewClient(cfg.PhotonConfig.BaseURL, vaultClient, breaker)
	}

	// Execution plumbing
	sink := database.NewSink(db)
	ledger := order.NewLedger(zlog)
	executor := order.NewExecutor(client, ledger, sink, eventBus, zlog)
	rec := recorder.New(sink)
	pool := llm.NewPool(llm.NewClient())

	// Trading bot
	tradingBot := bot.NewTradingBot(
		cfg.BotConfig, client, settingsSvc, pool, rec, executor, ledger, eventBus, sink,
	)
	if cfg.BotConfig.Enabled {
		tradingBot.Start()
	} else {
		logger.Info("Bot tick loop disabled")
	}

	// HTTP API
	server := api.NewServer(cfg.ServerConfig, api.Deps{
		SettingsSvc: settingsSvc,
		CacheSvc:    cacheSvc,
		DB:          db,
		Bot:         tradingBot,
		Executor:    executor,
		Ledger:      ledger,
		Pool:        pool,
		Client:      client,
		VaultClient: vaultClient,
		EventBus:    eventBus,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("API server failed", "error", err)
		}
	}

	if cfg.BotConfig.Enabled {
		tradingBot.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	if cacheSvc != nil {
		if err := cacheSvc.Close(); err != nil {
			logger.Warn("Redis close failed", "error", err)
		}
	}

	logger.Info("Shutdown complete")
}

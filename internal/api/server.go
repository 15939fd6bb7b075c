package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"photon-trading-bot/config"
	"photon-trading-bot/internal/ai/llm"
	"photon-trading-bot/internal/bot"
	"photon-trading-bot/internal/cache"
	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/events"
	"photon-trading-bot/internal/logging"
	"photon-trading-bot/internal/order"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/vault"
)

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	settingsSvc *cache.SettingsService
	cacheSvc    *cache.CacheService
	db          *database.DB
	bot         *bot.TradingBot
	executor    *order.Executor
	ledger      *order.Ledger
	pool        *llm.Pool
	client      photon.PhotonClient
	vaultClient *vault.Client
	eventBus    *events.EventBus
	hub         *WSHub
	config      config.ServerConfig
	log         *logging.Logger
}

// Deps bundles the collaborators the server exposes over HTTP.
type Deps struct {
	SettingsSvc *cache.SettingsService
	CacheSvc    *cache.CacheService
	DB          *database.DB
	Bot         *bot.TradingBot
	Executor    *order.Executor
	Ledger      *order.Ledger
	Pool        *llm.Pool
	Client      photon.PhotonClient
	VaultClient *vault.Client
	EventBus    *events.EventBus
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "" || cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:      router,
		settingsSvc: deps.SettingsSvc,
		cacheSvc:    deps.CacheSvc,
		db:          deps.DB,
		bot:         deps.Bot,
		executor:    deps.Executor,
		ledger:      deps.Ledger,
		pool:        deps.Pool,
		client:      deps.Client,
		vaultClient: deps.VaultClient,
		eventBus:    deps.EventBus,
		config:      cfg,
		log:         logging.WithComponent("api"),
	}

	server.hub = NewWSHub()
	go server.hub.Run()
	if deps.EventBus != nil {
		deps.EventBus.SubscribeAll(func(event events.Event) {
			server.hub.BroadcastEvent(event)
		})
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)

	s.router.GET("/api/settings", s.handleGetSettings)
	s.router.PUT("/api/settings", s.handlePutSettings)

	s.router.GET("/api/coins/discover", s.handleDiscover)
	s.router.GET("/api/coins/candles", s.handleCandles)

	s.router.POST("/api/trade/decide", s.handleDecide)
	s.router.POST("/api/trade/execute", s.handleExecute)

	s.router.GET("/api/positions", s.handlePositions)
	s.router.GET("/api/events/recent", s.handleRecentEvents)
	s.router.GET("/api/llm/workers", s.handleLLMWorkers)

	s.router.GET("/ws", s.handleWebSocket)
}

// Start runs the HTTP server. Blocks until the listener fails or closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	s.log.Info("api server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

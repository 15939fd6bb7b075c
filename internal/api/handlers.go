package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/order"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
)

func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{
		"status":         "ok",
		"ws_clients":     s.hub.GetClientCount(),
		"open_positions": s.ledger.OpenCount(),
	}

	if err := s.db.Pool.Ping(c.Request.Context()); err != nil {
		health["status"] = "degraded"
		health["database"] = err.Error()
	} else {
		health["database"] = "ok"
	}

	if s.cacheSvc != nil {
		health["cache"] = s.cacheSvc.GetStats()
	}
	if s.vaultClient != nil && s.vaultClient.IsEnabled() {
		if err := s.vaultClient.Health(c.Request.Context()); err != nil {
			health["vault"] = err.Error()
		} else {
			health["vault"] = "ok"
		}
	}

	c.JSON(http.StatusOK, health)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	doc, err := s.settingsSvc.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var doc settings.Settings
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload: " + err.Error()})
		return
	}

	if err := s.settingsSvc.Save(c.Request.Context(), &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.AppendEvent(c.Request.Context(), database.EventKindSettingsUpdated, gin.H{
		"config_version": doc.App.ConfigVersion,
	}); err != nil {
		s.log.Warn("settings_updated event write failed", "error", err)
	}
	if s.eventBus != nil {
		s.eventBus.PublishSettingsUpdated(doc.App.ConfigVersion)
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleDiscover(c *gin.Context) {
	doc, err := s.settingsSvc.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	scanned := s.bot.LastScan()
	if len(scanned) == 0 || c.Query("fresh") == "true" {
		scanned, err = s.bot.Discover(c.Request.Context(), doc)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(scanned) {
		scanned = scanned[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"coins": scanned, "count": len(scanned)})
}

func (s *Server) handleCandles(c *gin.Context) {
	poolID, err := strconv.ParseInt(c.Query("pool_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pool_id must be numeric"})
		return
	}
	from, _ := strconv.ParseInt(c.Query("from"), 10, 64)
	to, _ := strconv.ParseInt(c.Query("to"), 10, 64)
	pumpPoolID, _ := strconv.ParseInt(c.Query("pump_pool_id"), 10, 64)

	interval := c.Query("interval")
	if interval == "" {
		interval = "1m"
	}

	candles, err := s.client.GetCandles(c.Request.Context(), photon.CandleQuery{
		PoolID:     poolID,
		From:       from,
		To:         to,
		Interval:   interval,
		PumpPoolID: pumpPoolID,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"candles": candles, "count": len(candles)})
}

func (s *Server) handleDecide(c *gin.Context) {
	var item photon.MemescopeItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin payload: " + err.Error()})
		return
	}

	doc, err := s.settingsSvc.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	coin := screener.Normalize(item)
	outcome, err := s.bot.DecideCoin(c.Request.Context(), doc, coin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleExecute(c *gin.Context) {
	var req order.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execute payload: " + err.Error()})
		return
	}

	doc, err := s.settingsSvc.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := s.executor.Execute(c.Request.Context(), doc, req)
	if err != nil {
		c.JSON(executeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// executeStatus maps guard failures to client errors; anything else is a
// venue or internal failure.
func executeStatus(err error) int {
	switch {
	case errors.Is(err, order.ErrUnknownAction),
		errors.Is(err, order.ErrInvalidPoolID):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrLiveTradingDisabled),
		errors.Is(err, order.ErrMaxPositionsReached),
		errors.Is(err, order.ErrTokenInCooldown),
		errors.Is(err, order.ErrNoOpenPosition),
		errors.Is(err, order.ErrPositionAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handlePositions(c *gin.Context) {
	positions := s.ledger.OpenPositions()
	c.JSON(http.StatusOK, gin.H{"positions": positions, "count": len(positions)})
}

func (s *Server) handleRecentEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := s.db.RecentEvents(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (s *Server) handleLLMWorkers(c *gin.Context) {
	if s.pool == nil {
		c.JSON(http.StatusOK, gin.H{"workers": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": s.pool.Snapshot()})
}

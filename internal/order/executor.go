package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/events"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/settings"
)

// Execution guard errors.
var (
	ErrUnknownAction       = errors.New("action must be buy or sell")
	ErrLiveTradingDisabled = errors.New("live execution requires auto_execute and enable_live_trading")
	ErrMaxPositionsReached = errors.New("max concurrent positions reached")
	ErrTokenInCooldown     = errors.New("token is in post-sell cooldown")
	ErrNoOpenPosition      = errors.New("sell requires an open position")
	ErrInvalidPoolID       = errors.New("live execution requires a numeric pool id")
)

// ExecuteRequest describes one order to place.
type ExecuteRequest struct {
	Action       string  `json:"action"` // buy | sell
	Symbol       string  `json:"symbol"`
	TokenAddress string  `json:"token_address"`
	PoolID       int64   `json:"pool_id"`
	Mcap         float64 `json:"mcap"`
	AmountSol    float64 `json:"amount_sol"` // 0 means the default buy size
}

// ExecuteResult reports what was done.
type ExecuteResult struct {
	Simulated bool                    `json:"simulated"`
	Mode      string                  `json:"mode"`
	Action    string                  `json:"action"`
	AmountSol float64                 `json:"amount_sol"`
	Position  *Position               `json:"position,omitempty"`
	Venue     photon.PurchaseResponse `json:"venue,omitempty"`
}

// Sink receives execution events; satisfied by database.Sink.
type Sink interface {
	LogEvent(ctx context.Context, kind string, payload interface{})
}

// Executor places orders. Paper mode simulates fills against the ledger;
// live mode calls the venue and requires both execution toggles.
type Executor struct {
	client photon.PhotonClient
	ledger *Ledger
	sink   Sink
	bus    *events.EventBus
	logger zerolog.Logger
}

func NewExecutor(client photon.PhotonClient, ledger *Ledger, sink Sink, bus *events.EventBus, logger zerolog.Logger) *Executor {
	return &Executor{
		client: client,
		ledger: ledger,
		sink:   sink,
		bus:    bus,
		logger: logger.With().Str("component", "Executor").Logger(),
	}
}

// Execute runs the guard chain and places (or simulates) the order.
func (e *Executor) Execute(ctx context.Context, s *settings.Settings, req ExecuteRequest) (*ExecuteResult, error) {
	if req.Action != "buy" && req.Action != "sell" {
		return nil, ErrUnknownAction
	}

	mode := string(s.App.Mode)
	live := s.App.Mode == settings.ModeLive
	if live && (!s.App.AutoExecute || !s.App.EnableLiveTrading) {
		return nil, ErrLiveTradingDisabled
	}

	switch req.Action {
	case "buy":
		if err := e.buyGuards(s, req); err != nil {
			return nil, err
		}
	case "sell":
		if !e.ledger.HasOpen(req.TokenAddress) {
			return nil, ErrNoOpenPosition
		}
	}

	amount := req.AmountSol
	if amount <= 0 {
		amount = s.Execution.DefaultBuySol
	}

	var venue photon.PurchaseResponse
	if live {
		if req.PoolID <= 0 {
			return nil, ErrInvalidPoolID
		}
		resp, err := e.client.Purchase(ctx, e.buildPurchase(s, req, amount))
		if err != nil {
			return nil, fmt.Errorf("venue purchase failed: %w", err)
		}
		venue = resp
	}

	result := &ExecuteResult{
		Simulated: !live,
		Mode:      mode,
		Action:    req.Action,
		AmountSol: amount,
		Venue:     venue,
	}

	switch req.Action {
	case "buy":
		p, err := e.ledger.Open(req.Symbol, req.TokenAddress, mode, amount, req.Mcap)
		if err != nil {
			return nil, err
		}
		result.Position = p
	case "sell":
		p, err := e.ledger.Close(req.TokenAddress, req.Mcap)
		if err != nil {
			return nil, err
		}
		result.Position = p
	}

	kind := database.EventKindTradeExecutePaper
	if live {
		kind = database.EventKindTradeExecuteLive
	}
	if e.sink != nil {
		e.sink.LogEvent(ctx, kind, result)
	}
	if e.bus != nil {
		e.bus.PublishTradeExecuted(req.Symbol, req.TokenAddress, mode, req.Action, amount)
	}

	e.logger.Info().
		Str("symbol", req.Symbol).
		Str("action", req.Action).
		Str("mode", mode).
		Bool("simulated", !live).
		Float64("amount_sol", amount).
		Msg("Order executed")

	return result, nil
}

func (e *Executor) buyGuards(s *settings.Settings, req ExecuteRequest) error {
	if max := s.App.MaxConcurrentPositions; max > 0 && e.ledger.OpenCount() >= max {
		return ErrMaxPositionsReached
	}
	cooldown := time.Duration(s.App.CooldownAfterSellS) * time.Second
	if e.ledger.InCooldown(req.TokenAddress, cooldown) {
		return ErrTokenInCooldown
	}
	if e.ledger.HasOpen(req.TokenAddress) {
		return ErrPositionAlreadyExists
	}
	return nil
}

func (e *Executor) buildPurchase(s *settings.Settings, req ExecuteRequest, amount float64) photon.PurchaseRequest {
	slippage := s.Execution.BuySlippage
	if req.Action == "sell" {
		slippage = s.Execution.SellSlippage
	}
	return photon.PurchaseRequest{
		Amount:         amount,
		PurchaseDir:    req.Action,
		IsSol:          true,
		PoolID:         req.PoolID,
		CurBalance:     s.Photon.CurBalanceSol,
		Wallets:        s.Photon.Wallets,
		AssociatedAccs: s.Photon.AssociatedAccs,
		AdvancedSettings: photon.AdvancedSettings{
			Slippage:       slippage,
			UsePrivateNode: s.Execution.UsePrivateNode,
			Priority:       s.Execution.Priority,
			Bribery:        s.Execution.Bribery,
			Strategy:       s.Execution.Strategy,
		},
	}
}

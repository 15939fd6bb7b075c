package bot

import (
	"context"
	"testing"

	"photon-trading-bot/config"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/recorder"
	"photon-trading-bot/internal/scoring"
	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
)

func newTestBot(client photon.PhotonClient) *TradingBot {
	return NewTradingBot(config.BotConfig{}, client, nil, nil, recorder.New(nil), nil, nil, nil, nil)
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func healthyCandidate() screener.Coin {
	return screener.Coin{
		ID:           "101",
		Symbol:       "TKN",
		Name:         "Token",
		TokenAddress: "mint1",
		Mcap:         100000,
		LiquidityUsd: 12000,
		Volume:       54000,
		Buys:         200,
		Sells:        100,
		Audit: screener.CoinAudit{
			LpBurnedPerc: fptr(95),
		},
		Holders: screener.CoinHolders{
			HoldersCount:     iptr(500),
			DevHoldPerc:      fptr(2),
			SnipersHoldPerc:  fptr(3),
			InsidersHoldPerc: fptr(2),
		},
	}
}

func TestDiscoverSortsByScore(t *testing.T) {
	b := newTestBot(photon.NewMockClient())
	s := settings.Default()

	scanned, err := b.Discover(context.Background(), s)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(scanned) != 2 {
		t.Fatalf("scanned = %d coins, want 2", len(scanned))
	}
	if scanned[0].Health.Score < scanned[1].Health.Score {
		t.Errorf("scan not sorted by score: %d before %d", scanned[0].Health.Score, scanned[1].Health.Score)
	}

	// The mock feed's second coin carries mint authority and must be rejected.
	var thin *ScoredCoin
	for i := range scanned {
		if scanned[i].Coin.Symbol == "THIN" {
			thin = &scanned[i]
		}
	}
	if thin == nil {
		t.Fatal("THIN missing from scan")
	}
	if thin.Health.Eligible || thin.Health.Tier != scoring.TierRejected {
		t.Errorf("THIN health = %+v, want rejected", thin.Health)
	}

	snapshot := b.LastScan()
	if len(snapshot) != len(scanned) {
		t.Errorf("LastScan() = %d coins, want %d", len(snapshot), len(scanned))
	}
}

func TestDiscoverSelectsConfiguredColumn(t *testing.T) {
	b := newTestBot(photon.NewMockClient())
	s := settings.Default()
	s.Discovery.ColumnKey = "col3"

	scanned, err := b.Discover(context.Background(), s)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(scanned) != 0 {
		t.Errorf("scanned = %d coins, rows outside the configured column must not be scanned", len(scanned))
	}
}

func TestDiscoverCapsAtMaxItems(t *testing.T) {
	b := newTestBot(photon.NewMockClient())
	s := settings.Default()
	s.Discovery.MaxItems = 1

	scanned, err := b.Discover(context.Background(), s)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(scanned) != 1 {
		t.Fatalf("scanned = %d coins, want the max_items cap of 1", len(scanned))
	}
	// The cap applies after sorting, so the best-scored coin survives.
	if scanned[0].Coin.Symbol != "MOCK" {
		t.Errorf("kept %s, want the top-scored MOCK", scanned[0].Coin.Symbol)
	}
	if len(b.LastScan()) != 1 {
		t.Errorf("snapshot = %d coins, want the capped scan", len(b.LastScan()))
	}
}

func TestDiscoverFeedFailure(t *testing.T) {
	mock := photon.NewMockClient()
	mock.FailMemescope = true
	b := newTestBot(mock)

	if _, err := b.Discover(context.Background(), settings.Default()); err == nil {
		t.Error("feed outage should surface as an error")
	}
}

func TestDecideCoinEmitsLinkedRecords(t *testing.T) {
	b := newTestBot(photon.NewMockClient())
	s := settings.Default()

	outcome, err := b.DecideCoin(context.Background(), s, healthyCandidate())
	if err != nil {
		t.Fatalf("DecideCoin() error: %v", err)
	}
	if outcome.Thought.ThoughtID == "" {
		t.Error("thought should carry an id")
	}
	if outcome.Proposal.ThoughtID != outcome.Thought.ThoughtID {
		t.Error("proposal must link back to its thought")
	}
	if outcome.Decision.Health.Tier != scoring.TierTradeCandidate {
		t.Errorf("tier = %s, want trade_candidate for the healthy fixture", outcome.Decision.Health.Tier)
	}
	// Eligible coin with a numeric pool id: the candle-backed signals exist.
	if outcome.Decision.Signals.RSI == nil {
		t.Error("expected candle-backed signals for an eligible coin")
	}
}

func TestDecideCoinIneligibleSkipsCandles(t *testing.T) {
	mock := photon.NewMockClient()
	mock.FailCandles = true // would fail the decision if candles were fetched
	b := newTestBot(mock)
	s := settings.Default()

	coin := healthyCandidate()
	coin.Audit.MintAuthority = true

	outcome, err := b.DecideCoin(context.Background(), s, coin)
	if err != nil {
		t.Fatalf("DecideCoin() error: %v", err)
	}
	if outcome.Decision.Health.Eligible {
		t.Error("mint authority must make the coin ineligible")
	}
	if outcome.Decision.Signals.RSI != nil {
		t.Error("ineligible coins must not carry candle-backed signals")
	}
}

func TestDecideCoinCandleOutageDegrades(t *testing.T) {
	mock := photon.NewMockClient()
	mock.FailCandles = true
	b := newTestBot(mock)

	outcome, err := b.DecideCoin(context.Background(), settings.Default(), healthyCandidate())
	if err != nil {
		t.Fatalf("DecideCoin() error: %v", err)
	}
	if outcome.Decision.Intent != "hold" {
		t.Errorf("intent = %s, want hold without signal data", outcome.Decision.Intent)
	}
	if outcome.Decision.Signals.RSI != nil {
		t.Error("signals must be absent when the candle fetch fails")
	}
}

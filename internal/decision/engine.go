// Package decision fuses the health tier, market-cap window and technical
// signal into a buy/sell/hold intent, and applies the advisory override
// policy on top.
package decision

import (
	"fmt"

	"photon-trading-bot/internal/ai/llm"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/scoring"
	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
	"photon-trading-bot/internal/strategy"
)

// Intent is the trading action the engine recommends.
type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentSell Intent = "sell"
	IntentHold Intent = "hold"
)

// Signals is the technical snapshot backing a decision. Pointer fields are
// absent when the candle series was unavailable or too short; absence is
// always treated as condition-not-met, never as "unknown passes".
type Signals struct {
	Mcap      float64  `json:"mcap"`
	RSI       *float64 `json:"rsi14"`
	RSISlope  *float64 `json:"rsi_slope"`
	SwingLow  *float64 `json:"swing_low"`
	SwingHigh *float64 `json:"swing_high"`
}

// Plan is the informational trade plan snapshot; target and stop are not
// enforced here, position management lives downstream.
type Plan struct {
	EntryMin   float64 `json:"entry_min"`
	EntryMax   float64 `json:"entry_max"`
	TargetMcap float64 `json:"target_mcap"`
	StopMcap   float64 `json:"stop_mcap"`
}

// Decision is the full evaluation outcome for one coin.
type Decision struct {
	Intent        Intent              `json:"intent"`
	Reasons       []string            `json:"reasons"`
	Health        scoring.ScoreResult `json:"health"`
	Signals       Signals             `json:"signals"`
	Plan          Plan                `json:"plan"`
	Advisory      *llm.Advisory       `json:"llm,omitempty"`
	ConfigVersion int                 `json:"config_version"`
}

// Reason strings surfaced on hold decisions.
const (
	ReasonNotCandidate       = "Not a trade candidate"
	ReasonWaitingForEntry    = "Trade candidate but waiting for entry conditions"
	ReasonCandlesUnavailable = "candles unavailable"
)

// Decide computes the hard-rule intent. candles may be nil when the series
// was unavailable; callers enforce the cost boundary that ineligible coins
// never fetch candles in the first place. Pure and deterministic for a fixed
// settings snapshot.
func Decide(s *settings.Settings, coin screener.Coin, score scoring.ScoreResult, candles []photon.Candle, nowSec int64) Decision {
	signals := computeSignals(s, coin, candles)
	plan := Plan{
		EntryMin:   s.TradePlan.EntryMcapMin,
		EntryMax:   s.TradePlan.EntryMcapMax,
		TargetMcap: coin.Mcap * s.TradePlan.TargetMultiplier,
		StopMcap:   coin.Mcap * s.TradePlan.StopMultiplier,
	}

	intent := IntentHold
	reasons := []string{}

	if score.Eligible && score.Tier == scoring.TierTradeCandidate {
		mcapOK := coin.Mcap >= plan.EntryMin && coin.Mcap <= plan.EntryMax
		rsiOK := signals.RSI != nil && *signals.RSI >= s.RSI.EntryRSIMin && *signals.RSI <= s.RSI.EntryRSIMax
		rising := signals.RSISlope != nil && *signals.RSISlope > 0

		if mcapOK && rsiOK && rising {
			intent = IntentBuy
			reasons = append(reasons,
				"Eligible + trade_candidate",
				fmt.Sprintf("mcap in entry window %.0f-%.0f", plan.EntryMin, plan.EntryMax),
				fmt.Sprintf("RSI ok (%.1f) and rising", *signals.RSI),
			)
		} else {
			reasons = append(reasons, ReasonWaitingForEntry)
		}
	} else {
		reasons = append(reasons, ReasonNotCandidate)
	}

	if score.Eligible && len(candles) == 0 {
		reasons = append(reasons, ReasonCandlesUnavailable)
	}

	return Decision{
		Intent:        intent,
		Reasons:       reasons,
		Health:        score,
		Signals:       signals,
		Plan:          plan,
		ConfigVersion: s.App.ConfigVersion,
	}
}

func computeSignals(s *settings.Settings, coin screener.Coin, candles []photon.Candle) Signals {
	signals := Signals{Mcap: coin.Mcap}
	if len(candles) == 0 {
		return signals
	}

	closes := strategy.Closes(candles)
	if v, ok := strategy.CalculateRSI(closes, s.RSI.Length); ok {
		signals.RSI = &v
	}
	if v, ok := strategy.RSISlope(closes, s.RSI.Length, 4); ok {
		signals.RSISlope = &v
	}

	bars := strategy.SwingBars(s.RSI.BarsLookback)
	if v, ok := strategy.SwingLow(candles, bars); ok {
		signals.SwingLow = &v
	}
	if v, ok := strategy.SwingHigh(candles, bars); ok {
		signals.SwingHigh = &v
	}
	return signals
}

// ApplyAdvisory folds a worker verdict into the hard decision. The policy is
// asymmetric and must stay that way: a hold verdict always wins, a sell
// verdict always wins (exiting is strictly risk-reducing; the position
// ledger is checked downstream), and a buy verdict never upgrades a
// non-buy; it is recorded for audit with a note instead.
func ApplyAdvisory(d *Decision, adv *llm.Advisory) {
	if adv == nil {
		return
	}
	d.Advisory = adv

	switch adv.Decision.Intent {
	case "hold":
		d.Intent = IntentHold
	case "sell":
		d.Intent = IntentSell
	case "buy":
		if d.Intent != IntentBuy {
			adv.Note = "advisory suggested buy, but hard entry conditions did not pass; holding"
		}
	}
}

// BuildContextPack assembles the compact payload sent to advisory workers.
func BuildContextPack(s *settings.Settings, coin screener.Coin, score scoring.ScoreResult, signals Signals) llm.ContextPack {
	return llm.ContextPack{
		Symbol:       coin.Symbol,
		Name:         coin.Name,
		TokenAddress: coin.TokenAddress,
		PoolAddress:  coin.PoolAddress,
		Mcap:         coin.Mcap,
		LiquidityUsd: coin.LiquidityUsd,
		LiqRatio:     score.Computed.LiqRatio,
		Volume:       coin.Volume,
		Buys:         coin.Buys,
		Sells:        coin.Sells,
		SellRatio:    score.Computed.SellRatio,
		Audit:        coin.Audit,
		HealthScore:  score.Score,
		Tier:         string(score.Tier),
		RSI:          signals.RSI,
		SwingLow:     signals.SwingLow,
		SwingHigh:    signals.SwingHigh,
		Plan: llm.PlanPack{
			EntryMin:         s.TradePlan.EntryMcapMin,
			EntryMax:         s.TradePlan.EntryMcapMax,
			TargetMultiplier: s.TradePlan.TargetMultiplier,
			StopMultiplier:   s.TradePlan.StopMultiplier,
		},
	}
}

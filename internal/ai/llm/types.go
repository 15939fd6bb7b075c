package llm

import "photon-trading-bot/internal/screener"

// Verdict is the structured output expected from an advisory worker.
// Intent is normalized to buy/sell/hold before the verdict leaves this
// package; anything unrecognized coerces to hold.
type Verdict struct {
	Intent        string   `json:"intent"`
	Confidence    float64  `json:"confidence"`
	Rationale     []string `json:"rationale"`
	Risks         []string `json:"risks"`
	Invalidations []string `json:"invalidations"`
}

// Advisory pairs a verdict with the worker that produced it. Note is filled
// by the override policy when a verdict is recorded but not applied.
type Advisory struct {
	Worker   string  `json:"worker"`
	Decision Verdict `json:"decision"`
	Note     string  `json:"note,omitempty"`
}

// PlanPack is the trade-plan slice of the context pack.
type PlanPack struct {
	EntryMin         float64 `json:"entryMin"`
	EntryMax         float64 `json:"entryMax"`
	TargetMultiplier float64 `json:"targetMultiplier"`
	StopMultiplier   float64 `json:"stopMultiplier"`
}

// ContextPack is the compact decision context sent to a worker. It is a
// deliberate subset of the evaluation: workers never see the full coin
// record.
type ContextPack struct {
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name"`
	TokenAddress string             `json:"tokenAddress"`
	PoolAddress  string             `json:"poolAddress"`
	Mcap         float64            `json:"mcap"`
	LiquidityUsd float64            `json:"liquidityUsd"`
	LiqRatio     float64            `json:"liqRatio"`
	Volume       float64            `json:"volume"`
	Buys         int64              `json:"buys"`
	Sells        int64              `json:"sells"`
	SellRatio    float64            `json:"sellRatio"`
	Audit        screener.CoinAudit `json:"audit"`
	HealthScore  int                `json:"healthScore"`
	Tier         string             `json:"tier"`
	RSI          *float64           `json:"rsi14"`
	SwingLow     *float64           `json:"swingLow"`
	SwingHigh    *float64           `json:"swingHigh"`
	Plan         PlanPack           `json:"plan"`
}

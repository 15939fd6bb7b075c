// Package scoring implements the gate-then-score health evaluation.
package scoring

// Tier is the coarse eligibility bucket an asset lands in.
type Tier string

const (
	TierRejected       Tier = "rejected"
	TierWatch          Tier = "watch"
	TierMonitor        Tier = "monitor"
	TierTradeCandidate Tier = "trade_candidate"
)

// Hard-fail reason tags, in check order.
const (
	FailMintAuthority     = "mint_authority_true"
	FailFreezeAuthority   = "freeze_authority_true"
	FailLpBurnedBelowMin  = "lp_burned_below_min"
	FailLiquidityBelowMin = "liquidity_below_min"
	FailMcapBelowMin      = "mcap_below_min"
	FailLiqRatioBelowMin  = "liq_ratio_below_min"
	FailDevHoldAboveMax   = "dev_hold_above_max"
	FailSnipersAboveMax   = "snipers_hold_above_max"
	FailInsidersAboveMax  = "insiders_hold_above_max"
)

// Advisory reason tags; these never block, they only annotate.
const (
	ReasonMcapAboveRange  = "mcap_above_preferred_range"
	ReasonThinLiquidity   = "thin_liquidity_ratio"
	ReasonSellPressure    = "sell_pressure"
	ReasonTopHoldersHeavy = "top_holders_concentration"
)

// Computed holds metrics derived during evaluation, surfaced for audit and
// reused by the decision context pack.
type Computed struct {
	AgeSec    int64   `json:"age_sec"`
	LiqRatio  float64 `json:"liq_ratio"`
	SellRatio float64 `json:"sell_ratio"`
}

// ScoreResult is the outcome of one health evaluation. It is derived, never
// persisted, and recomputed on every cycle.
type ScoreResult struct {
	Eligible  bool     `json:"eligible"`
	HardFails []string `json:"hard_fails"`
	Score     int      `json:"score"`
	Tier      Tier     `json:"tier"`
	Reasons   []string `json:"reasons"`
	Computed  Computed `json:"computed"`
}

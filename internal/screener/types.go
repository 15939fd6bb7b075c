// Package screener turns raw feed rows into canonical coin records.
package screener

// Coin is the canonical, normalized view of one listing. Pointer fields are
// genuinely optional: nil means the feed did not report the statistic, which
// the scorer treats differently from a reported zero.
type Coin struct {
	ID           string `json:"id"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	TokenAddress string `json:"token_address"`
	PoolAddress  string `json:"pool_address"`
	PumpPoolID   *int64 `json:"pump_pool_id,omitempty"`

	Mcap             float64 `json:"mcap"`
	LiquidityUsd     float64 `json:"liquidity_usd"`
	Volume           float64 `json:"volume"`
	Buys             int64   `json:"buys"`
	Sells            int64   `json:"sells"`
	CreatedTimestamp int64   `json:"created_timestamp"` // unix seconds

	Audit   CoinAudit   `json:"audit"`
	Holders CoinHolders `json:"holders"`
}

// CoinAudit carries contract-level audit results.
type CoinAudit struct {
	MintAuthority   bool     `json:"mint_authority"`
	FreezeAuthority bool     `json:"freeze_authority"`
	LpBurnedPerc    *float64 `json:"lp_burned_perc"`
	TopHoldersPerc  *float64 `json:"top_holders_perc"`
}

// CoinHolders carries holder-composition statistics.
type CoinHolders struct {
	HoldersCount       *int64   `json:"holders_count"`
	DevHoldPerc        *float64 `json:"dev_hold_perc"`
	InsidersHoldPerc   *float64 `json:"insiders_hold_perc"`
	SnipersHoldPerc    *float64 `json:"snipers_hold_perc"`
	FreshHoldPerc      *float64 `json:"fresh_hold_perc"`
	BundleHoldPerc     *float64 `json:"bundle_hold_perc"`
	FreshHoldersCount  *int64   `json:"fresh_holders_count"`
	BundleHoldersCount *int64   `json:"bundle_holders_count"`
}

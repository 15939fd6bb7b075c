package photon

import (
	"fmt"
	"math"
	"strconv"
)

// MemescopeResponse is the raw feed payload, keyed by column identifier.
type MemescopeResponse struct {
	Columns map[string]MemescopeColumn `json:"columns"`
	Titles  map[string]string          `json:"titles,omitempty"`
}

// MemescopeColumn is one feed column.
type MemescopeColumn struct {
	Data []MemescopeItem `json:"data"`
}

// MemescopeItem is a raw listing row. Numeric attributes arrive as strings,
// numbers or null depending on the row, so the loose fields are typed
// interface{} and resolved by the screener's normalizer.
type MemescopeItem struct {
	ID         string              `json:"id"`
	Type       string              `json:"type,omitempty"`
	Attributes MemescopeAttributes `json:"attributes"`
}

// MemescopeAttributes is the attribute bag of a listing row.
type MemescopeAttributes struct {
	Volume           interface{}    `json:"volume"`
	BuysCount        interface{}    `json:"buys_count"`
	SellsCount       interface{}    `json:"sells_count"`
	Address          string         `json:"address"` // pool address
	Fdv              interface{}    `json:"fdv"`     // market cap estimate (USD)
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	TokenAddress     string         `json:"tokenAddress"`
	CreatedTimestamp interface{}    `json:"created_timestamp"`
	CurLiq           MemescopeLiq   `json:"cur_liq"`
	Audit            MemescopeAudit `json:"audit"`

	HoldersCount        interface{} `json:"holders_count"`
	DevHoldingPerc      interface{} `json:"dev_holding_perc"`
	InsidersHoldingPerc interface{} `json:"insiders_holding_perc"`
	SnipersHoldingPerc  interface{} `json:"snipers_holding_perc"`
	FreshHoldingPerc    interface{} `json:"fresh_holding_perc"`
	BundleHoldingPerc   interface{} `json:"bundle_holding_perc"`
	FreshHoldersCount   interface{} `json:"fresh_holders_count"`
	BundleHoldersCount  interface{} `json:"bundle_holders_count"`

	PumpPoolID interface{} `json:"pump_pool_id,omitempty"`
}

// MemescopeLiq is the current liquidity block.
type MemescopeLiq struct {
	Usd   interface{} `json:"usd"`
	Quote interface{} `json:"quote"`
}

// MemescopeAudit carries the contract audit flags.
type MemescopeAudit struct {
	MintAuthority   bool        `json:"mint_authority"`
	FreezeAuthority bool        `json:"freeze_authority"`
	LpBurnedPerc    interface{} `json:"lp_burned_perc,omitempty"`
	TopHoldersPerc  interface{} `json:"top_holders_perc,omitempty"`
}

// Candle is one OHLC+volume bar with a unix-seconds timestamp.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// rawBar is the over-the-wire candle shape; prices arrive as strings.
type rawBar struct {
	Timestamp int64       `json:"timestamp"` // ms
	O         interface{} `json:"o"`
	C         interface{} `json:"c"`
	H         interface{} `json:"h"`
	L         interface{} `json:"l"`
	Volume    interface{} `json:"volume"`
}

// CandleQuery describes a tradingview_range request.
type CandleQuery struct {
	PoolID     int64
	From       int64 // unix seconds
	To         int64 // unix seconds
	Interval   string
	PumpPoolID int64 // 0 when absent
}

// PurchaseRequest is the body of a purchase call.
type PurchaseRequest struct {
	Amount           float64          `json:"amount"`
	PurchaseDir      string           `json:"purchase_dir"` // buy | sell
	IsSol            bool             `json:"is_sol"`
	PoolID           int64            `json:"pool_id"`
	CurBalance       float64          `json:"cur_balance"`
	Wallets          string           `json:"wallets"`
	AssociatedAccs   string           `json:"associated_accs"`
	AdvancedSettings AdvancedSettings `json:"advanced_settings"`
}

// AdvancedSettings tune the swap route.
type AdvancedSettings struct {
	Slippage       float64 `json:"slippage"`
	UsePrivateNode bool    `json:"use_private_node"`
	Priority       float64 `json:"priority"`
	Bribery        float64 `json:"bribery"`
	Strategy       string  `json:"strategy"`
}

// PurchaseResponse is the venue's acknowledgement, kept loose on purpose.
type PurchaseResponse map[string]interface{}

// APIError is returned for any non-2xx response from the venue.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("photon: request failed with status %d: %s", e.Status, e.Body)
}

// AsFloat resolves a loose feed value (string, number or nil) to a float.
// Unparsable and non-finite values resolve to absent, never to zero.
func AsFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

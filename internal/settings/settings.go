// Package settings defines the runtime trading settings document.
// The document is stored as a single JSON blob in postgres, cached in
// redis, and threaded as an immutable value through every evaluation.
package settings

import (
	"fmt"
	"regexp"
	"strconv"
)

// Mode selects between simulated and real execution.
type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

// Settings is the full runtime configuration snapshot. Callers must treat
// a loaded Settings as read-only; updates go through the settings service,
// which bumps ConfigVersion so every logged thought can be replayed against
// the knobs that produced it.
type Settings struct {
	App       AppSettings       `json:"app"`
	Photon    PhotonSettings    `json:"photon"`
	Discovery DiscoverySettings `json:"discovery"`
	Healthy   HealthySettings   `json:"healthy"`
	Scoring   ScoringSettings   `json:"scoring"`
	RSI       RSISettings       `json:"rsi"`
	TradePlan TradePlanSettings `json:"trade_plan"`
	Execution ExecutionSettings `json:"execution"`
	LLM       LLMSettings       `json:"llm"`
}

// AppSettings holds process-wide safety switches.
type AppSettings struct {
	ConfigVersion          int     `json:"config_version"`
	Mode                   Mode    `json:"mode"`
	AutoExecute            bool    `json:"auto_execute"`
	EnableLiveTrading      bool    `json:"enable_live_trading"`
	MaxConcurrentPositions int     `json:"max_concurrent_positions"`
	MaxDailyLossUsd        float64 `json:"max_daily_loss_usd"`
	CooldownAfterSellS     int     `json:"cooldown_after_sell_s"`
	MaxAPIErrorsInWindow   int     `json:"max_api_errors_in_window"`
	APIErrorWindowS        int     `json:"api_error_window_s"`
}

// PhotonSettings holds per-venue knobs used when building purchase payloads.
// The base URL and session cookie live in boot config (config package) so the
// HTTP client is constructed once at startup.
type PhotonSettings struct {
	Wallets        string  `json:"wallets"`
	AssociatedAccs string  `json:"associated_accs"`
	CurBalanceSol  float64 `json:"cur_balance_sol"`
}

// DiscoverySettings controls the memescope polling loop.
type DiscoverySettings struct {
	ColumnKey string `json:"column_key"` // col1 | col2 | col3
	RefreshS  int    `json:"refresh_s"`
	MaxItems  int    `json:"max_items"`
}

// AuditSettings are the contract-level hard gates and warn thresholds.
type AuditSettings struct {
	RequireMintAuthorityFalse   bool    `json:"require_mint_authority_false"`
	RequireFreezeAuthorityFalse bool    `json:"require_freeze_authority_false"`
	MinLpBurnedPercIfPresent    float64 `json:"min_lp_burned_perc_if_present"`
	WarnLpBurnedPerc            float64 `json:"warn_lp_burned_perc"`
}

// HolderSettings bound holder-composition risk. Max* are hard gates,
// Warn* only cost score.
type HolderSettings struct {
	MaxDevHoldPerc       float64 `json:"max_dev_hold_perc"`
	WarnDevHoldPerc      float64 `json:"warn_dev_hold_perc"`
	MaxSnipersHoldPerc   float64 `json:"max_snipers_hold_perc"`
	WarnSnipersHoldPerc  float64 `json:"warn_snipers_hold_perc"`
	MaxInsidersHoldPerc  float64 `json:"max_insiders_hold_perc"`
	WarnInsidersHoldPerc float64 `json:"warn_insiders_hold_perc"`
	BundleRatioWarn      float64 `json:"bundle_ratio_warn"`
	BundleRatioFail      float64 `json:"bundle_ratio_fail"`
}

// FlowSettings bound sell pressure.
type FlowSettings struct {
	SellRatioWarn float64 `json:"sell_ratio_warn"`
	SellRatioFail float64 `json:"sell_ratio_fail"`
}

// HealthySettings groups the liquidity/market-cap/holder/flow gates.
// MaxMarketCapUsd is a pointer: nil disables the upper bound entirely.
type HealthySettings struct {
	MinLiquidityUsd float64        `json:"min_liquidity_usd"`
	MinMarketCapUsd float64        `json:"min_market_cap_usd"`
	MaxMarketCapUsd *float64       `json:"max_market_cap_usd"`
	MinLiqRatio     float64        `json:"min_liq_ratio"`
	WarnLiqRatio    float64        `json:"warn_liq_ratio"`
	Audit           AuditSettings  `json:"audit"`
	Holders         HolderSettings `json:"holders"`
	Flow            FlowSettings   `json:"flow"`
}

// ScoringSettings are the three ascending tier cut points.
type ScoringSettings struct {
	Watch          float64 `json:"watch"`
	Monitor        float64 `json:"monitor"`
	TradeCandidate float64 `json:"trade_candidate"`
}

// RSISettings control the oscillator computation and entry band.
type RSISettings struct {
	Length             int     `json:"length"`
	EntryRSIMin        float64 `json:"entry_rsi_min"`
	EntryRSIMax        float64 `json:"entry_rsi_max"`
	AvoidEntryRSIAbove float64 `json:"avoid_entry_rsi_above"`
	ExitRSI            float64 `json:"exit_rsi"`
	Interval           string  `json:"interval"` // e.g. "5s", "1m"
	BarsLookback       int     `json:"bars_lookback"`
}

var intervalRe = regexp.MustCompile(`^(\d+)(s|m)$`)

// IntervalSeconds parses the sampling interval. Unparsable intervals fall
// back to one minute, matching the candle collaborator's default.
func (r RSISettings) IntervalSeconds() int {
	m := intervalRe.FindStringSubmatch(r.Interval)
	if m == nil {
		return 60
	}
	n, _ := strconv.Atoi(m[1])
	if m[2] == "s" {
		return n
	}
	return n * 60
}

// TradePlanSettings define the market-cap entry window and exit multipliers.
type TradePlanSettings struct {
	EntryMcapMin     float64 `json:"entry_mcap_min"`
	EntryMcapMax     float64 `json:"entry_mcap_max"`
	TargetMultiplier float64 `json:"target_multiplier"`
	StopMultiplier   float64 `json:"stop_multiplier"`
}

// ExecutionSettings are passed through to the purchase payload.
type ExecutionSettings struct {
	DefaultBuySol  float64 `json:"default_buy_sol"`
	BuySlippage    float64 `json:"buy_slippage"`
	SellSlippage   float64 `json:"sell_slippage"`
	UsePrivateNode bool    `json:"use_private_node"`
	Priority       float64 `json:"priority"`
	Bribery        float64 `json:"bribery"`
	Strategy       string  `json:"strategy"`
	SellAmtsKind   string  `json:"sell_amts_kind"` // perc | token
	SellPerc       float64 `json:"sell_perc"`
}

// LLMEndpoint describes one advisory worker (an OpenAI-compatible server).
type LLMEndpoint struct {
	Name           string `json:"name"`
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	MaxConcurrency int    `json:"max_concurrency"`
	TimeoutMs      int    `json:"timeout_ms"`
}

// LLMPrompts hold the system and user prompt templates. The user template
// must contain the {{pack}} placeholder.
type LLMPrompts struct {
	DecisionSystem       string `json:"decision_system"`
	DecisionUserTemplate string `json:"decision_user_template"`
}

// LLMSettings configure the advisory worker pool.
type LLMSettings struct {
	Enabled   bool          `json:"enabled"`
	Endpoints []LLMEndpoint `json:"endpoints"`
	Prompts   LLMPrompts    `json:"prompts"`
}

// Validate fails fast on malformed or out-of-range fields. It is called on
// every load and save; an evaluation never runs against an invalid snapshot.
func (s *Settings) Validate() error {
	if s.App.Mode != ModePaper && s.App.Mode != ModeLive {
		return fmt.Errorf("settings: app.mode must be %q or %q, got %q", ModePaper, ModeLive, s.App.Mode)
	}
	if s.App.ConfigVersion <= 0 {
		return fmt.Errorf("settings: app.config_version must be positive")
	}
	if s.App.MaxAPIErrorsInWindow <= 0 || s.App.APIErrorWindowS <= 0 {
		return fmt.Errorf("settings: api error window must be positive")
	}
	if s.Discovery.RefreshS <= 0 || s.Discovery.MaxItems <= 0 {
		return fmt.Errorf("settings: discovery.refresh_s and discovery.max_items must be positive")
	}

	h := s.Healthy
	if h.MinLiquidityUsd < 0 || h.MinMarketCapUsd < 0 {
		return fmt.Errorf("settings: healthy liquidity/mcap floors must be non-negative")
	}
	if h.MaxMarketCapUsd != nil && *h.MaxMarketCapUsd < h.MinMarketCapUsd {
		return fmt.Errorf("settings: healthy.max_market_cap_usd below min_market_cap_usd")
	}
	for name, v := range map[string]float64{
		"audit.min_lp_burned_perc_if_present": h.Audit.MinLpBurnedPercIfPresent,
		"audit.warn_lp_burned_perc":           h.Audit.WarnLpBurnedPerc,
		"holders.max_dev_hold_perc":           h.Holders.MaxDevHoldPerc,
		"holders.warn_dev_hold_perc":          h.Holders.WarnDevHoldPerc,
		"holders.max_snipers_hold_perc":       h.Holders.MaxSnipersHoldPerc,
		"holders.warn_snipers_hold_perc":      h.Holders.WarnSnipersHoldPerc,
		"holders.max_insiders_hold_perc":      h.Holders.MaxInsidersHoldPerc,
		"holders.warn_insiders_hold_perc":     h.Holders.WarnInsidersHoldPerc,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("settings: healthy.%s out of range [0,100]", name)
		}
	}
	if h.Holders.BundleRatioWarn < 0 || h.Holders.BundleRatioWarn > 1 ||
		h.Holders.BundleRatioFail < 0 || h.Holders.BundleRatioFail > 1 {
		return fmt.Errorf("settings: healthy.holders bundle ratios out of range [0,1]")
	}
	if h.Flow.SellRatioWarn < 0 || h.Flow.SellRatioFail < 0 {
		return fmt.Errorf("settings: healthy.flow sell ratios must be non-negative")
	}

	sc := s.Scoring
	for name, v := range map[string]float64{"watch": sc.Watch, "monitor": sc.Monitor, "trade_candidate": sc.TradeCandidate} {
		if v < 0 || v > 100 {
			return fmt.Errorf("settings: scoring.%s out of range [0,100]", name)
		}
	}
	if !(sc.Watch < sc.Monitor && sc.Monitor < sc.TradeCandidate) {
		return fmt.Errorf("settings: scoring cut points must be strictly ascending (watch < monitor < trade_candidate)")
	}

	r := s.RSI
	if r.Length <= 0 || r.BarsLookback <= 0 {
		return fmt.Errorf("settings: rsi.length and rsi.bars_lookback must be positive")
	}
	for name, v := range map[string]float64{
		"entry_rsi_min":         r.EntryRSIMin,
		"entry_rsi_max":         r.EntryRSIMax,
		"avoid_entry_rsi_above": r.AvoidEntryRSIAbove,
		"exit_rsi":              r.ExitRSI,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("settings: rsi.%s out of range [0,100]", name)
		}
	}
	if r.EntryRSIMin > r.EntryRSIMax {
		return fmt.Errorf("settings: rsi.entry_rsi_min above rsi.entry_rsi_max")
	}
	if !intervalRe.MatchString(r.Interval) {
		return fmt.Errorf("settings: rsi.interval %q must match <n>s or <n>m", r.Interval)
	}

	tp := s.TradePlan
	if tp.EntryMcapMin < 0 || tp.EntryMcapMax < 0 || tp.EntryMcapMin > tp.EntryMcapMax {
		return fmt.Errorf("settings: trade_plan entry window invalid (min %v, max %v)", tp.EntryMcapMin, tp.EntryMcapMax)
	}
	if tp.TargetMultiplier <= 1 {
		return fmt.Errorf("settings: trade_plan.target_multiplier must be > 1")
	}
	if tp.StopMultiplier <= 0 || tp.StopMultiplier >= 1 {
		return fmt.Errorf("settings: trade_plan.stop_multiplier must be in (0,1)")
	}

	ex := s.Execution
	if ex.BuySlippage < 0 || ex.BuySlippage > 100 || ex.SellSlippage < 0 || ex.SellSlippage > 100 {
		return fmt.Errorf("settings: execution slippage out of range [0,100]")
	}
	if ex.SellAmtsKind != "perc" && ex.SellAmtsKind != "token" {
		return fmt.Errorf("settings: execution.sell_amts_kind must be perc or token")
	}

	for i, e := range s.LLM.Endpoints {
		if e.BaseURL == "" || e.Model == "" {
			return fmt.Errorf("settings: llm.endpoints[%d] missing base_url or model", i)
		}
		if e.MaxConcurrency <= 0 {
			return fmt.Errorf("settings: llm.endpoints[%d].max_concurrency must be positive", i)
		}
		if e.TimeoutMs <= 0 {
			return fmt.Errorf("settings: llm.endpoints[%d].timeout_ms must be positive", i)
		}
	}

	return nil
}

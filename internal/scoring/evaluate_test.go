package scoring

import (
	"testing"

	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

// healthyCoin builds a coin that passes every hard gate and takes no
// warn penalties under the default settings.
func healthyCoin() screener.Coin {
	return screener.Coin{
		ID:               "101",
		Symbol:           "GOOD",
		Mcap:             100000,
		LiquidityUsd:     12000,
		Volume:           50000,
		Buys:             200,
		Sells:            100,
		CreatedTimestamp: 1700000000,
		Audit: screener.CoinAudit{
			MintAuthority:   false,
			FreezeAuthority: false,
			LpBurnedPerc:    fptr(95),
		},
		Holders: screener.CoinHolders{
			HoldersCount:     iptr(500),
			DevHoldPerc:      fptr(2),
			SnipersHoldPerc:  fptr(3),
			InsidersHoldPerc: fptr(2),
		},
	}
}

// TestEvaluateHealthyCoin tests that a clean coin scores 100 and lands in
// trade_candidate
func TestEvaluateHealthyCoin(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()

	result := Evaluate(s, coin, 1700000600)

	if !result.Eligible {
		t.Fatalf("clean coin should be eligible, hard fails: %v", result.HardFails)
	}
	if result.Score != 100 {
		t.Errorf("clean coin score = %d, want 100", result.Score)
	}
	if result.Tier != TierTradeCandidate {
		t.Errorf("tier = %s, want %s", result.Tier, TierTradeCandidate)
	}
	if result.Computed.AgeSec != 600 {
		t.Errorf("age = %d, want 600", result.Computed.AgeSec)
	}
}

// TestEvaluateLowLiquidityHardFail tests that liquidity below the minimum
// rejects regardless of everything else
func TestEvaluateLowLiquidityHardFail(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.LiquidityUsd = 5000 // min is 7500

	result := Evaluate(s, coin, 1700000600)

	if result.Eligible {
		t.Error("coin below min liquidity should be ineligible")
	}
	if result.Tier != TierRejected {
		t.Errorf("tier = %s, want %s", result.Tier, TierRejected)
	}
	found := false
	for _, f := range result.HardFails {
		if f == FailLiquidityBelowMin {
			found = true
		}
	}
	if !found {
		t.Errorf("hard fails %v should include %s", result.HardFails, FailLiquidityBelowMin)
	}
}

// TestEvaluateHardFailDominatesScore tests that a gated coin stays rejected
// even when its numeric score clears the candidate cut
func TestEvaluateHardFailDominatesScore(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Audit.MintAuthority = true

	result := Evaluate(s, coin, 1700000600)

	if result.Eligible {
		t.Error("mint authority should hard-fail the coin")
	}
	if result.Score < int(s.Scoring.TradeCandidate) {
		t.Errorf("score = %d, expected it to still clear the cut", result.Score)
	}
	if result.Tier != TierRejected {
		t.Errorf("tier = %s, rejection must dominate the score", result.Tier)
	}
}

// TestEvaluateMissingHolderStatsPassGates tests that absent holder stats
// never trip holder gates
func TestEvaluateMissingHolderStatsPassGates(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Holders = screener.CoinHolders{}
	coin.Audit.LpBurnedPerc = nil

	result := Evaluate(s, coin, 1700000600)

	if !result.Eligible {
		t.Errorf("absent holder stats must not gate, hard fails: %v", result.HardFails)
	}
	if result.Score != 100 {
		t.Errorf("absent stats must not cost points, score = %d", result.Score)
	}
}

// TestEvaluateWarnPenaltiesStack tests the cumulative sell-pressure bands
func TestEvaluateWarnPenaltiesStack(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Buys = 100
	coin.Sells = 150 // ratio 1.5 > warn 1.15 and > fail 1.35

	result := Evaluate(s, coin, 1700000600)

	if !result.Eligible {
		t.Fatalf("sell pressure is never a gate, hard fails: %v", result.HardFails)
	}
	if result.Score != 100-6-12 {
		t.Errorf("score = %d, want %d (both sell bands apply)", result.Score, 100-6-12)
	}
	found := false
	for _, r := range result.Reasons {
		if r == ReasonSellPressure {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons %v should include %s", result.Reasons, ReasonSellPressure)
	}
}

// TestEvaluateSellRatioNoBuys tests the zero-buys convention
func TestEvaluateSellRatioNoBuys(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Buys = 0
	coin.Sells = 7

	result := Evaluate(s, coin, 1700000600)

	if result.Computed.SellRatio != 7 {
		t.Errorf("sell ratio with no buys = %.2f, want raw sells 7", result.Computed.SellRatio)
	}
}

// TestEvaluateMcapAboveMaxIsAdvisory tests that a large cap penalizes but
// does not reject
func TestEvaluateMcapAboveMaxIsAdvisory(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Mcap = 400000 // max is 250000
	coin.LiquidityUsd = 20000

	result := Evaluate(s, coin, 1700000600)

	if !result.Eligible {
		t.Fatalf("mcap above max must not reject, hard fails: %v", result.HardFails)
	}
	if result.Score != 94 {
		t.Errorf("score = %d, want 94 (only the -6 large-cap penalty)", result.Score)
	}
	if len(result.Reasons) == 0 || result.Reasons[0] != ReasonMcapAboveRange {
		t.Errorf("reasons = %v, want %s first", result.Reasons, ReasonMcapAboveRange)
	}
}

// TestEvaluateTierFloor tests that eligible coins never land below watch
func TestEvaluateTierFloor(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	// Pile on penalties without tripping a gate.
	coin.LiquidityUsd = 8000 // below the 10k comfort floor, above min 7500
	coin.Mcap = 250000
	coin.Buys = 100
	coin.Sells = 150
	coin.Holders.DevHoldPerc = fptr(5)      // warn 5, max 8
	coin.Holders.SnipersHoldPerc = fptr(10) // warn 10, max 20
	coin.Holders.InsidersHoldPerc = fptr(5) // warn 5, max 10
	coin.Audit.LpBurnedPerc = fptr(85)      // warn 90, min 80

	result := Evaluate(s, coin, 1700000600)

	if !result.Eligible {
		t.Fatalf("warn-band coin should still be eligible, hard fails: %v", result.HardFails)
	}
	if result.Tier != TierWatch {
		t.Errorf("tier = %s, want %s (floor for eligible coins)", result.Tier, TierWatch)
	}
}

// TestEvaluateBundleRatioBands tests the bundle concentration penalty
func TestEvaluateBundleRatioBands(t *testing.T) {
	s := settings.Default()
	coin := healthyCoin()
	coin.Holders.HoldersCount = iptr(100)
	coin.Holders.BundleHoldersCount = iptr(50) // ratio 0.5 > fail 0.40

	result := Evaluate(s, coin, 1700000600)

	if result.Score != 100-12 {
		t.Errorf("score = %d, want %d (bundle fail band)", result.Score, 100-12)
	}

	coin.Holders.BundleHoldersCount = iptr(30) // ratio 0.3, warn band only
	result = Evaluate(s, coin, 1700000600)
	if result.Score != 100-6 {
		t.Errorf("score = %d, want %d (bundle warn band)", result.Score, 100-6)
	}
}

// TestEvaluateScoreMonotonicTiers tests tier assignment against the cut
// points using crafted penalty loads
func TestEvaluateScoreMonotonicTiers(t *testing.T) {
	s := settings.Default()

	// -12 via sell fail+warn band (=82): monitor band [75,85).
	coin := healthyCoin()
	coin.Buys = 100
	coin.Sells = 150
	result := Evaluate(s, coin, 1700000600)
	if result.Score != 82 || result.Tier != TierMonitor {
		t.Errorf("score=%d tier=%s, want 82 %s", result.Score, result.Tier, TierMonitor)
	}

	// -6 via sell warn only (=94): trade candidate band.
	coin.Sells = 120 // ratio 1.2
	result = Evaluate(s, coin, 1700000600)
	if result.Score != 94 || result.Tier != TierTradeCandidate {
		t.Errorf("score=%d tier=%s, want 94 %s", result.Score, result.Tier, TierTradeCandidate)
	}
}

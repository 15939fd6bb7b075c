package screener

import (
	"testing"

	"photon-trading-bot/internal/photon"
)

// TestNormalizeFullRow tests mapping of a fully populated feed row
func TestNormalizeFullRow(t *testing.T) {
	item := photon.MemescopeItem{
		ID: "4242",
		Attributes: photon.MemescopeAttributes{
			Symbol:           "TKN",
			Name:             "Token",
			TokenAddress:     "So1anaMintAddr",
			Address:          "PoolAddr",
			Fdv:              "21000.5",
			Volume:           12345.0,
			BuysCount:        "40",
			SellsCount:       20,
			CreatedTimestamp: 1700000000.0,
			CurLiq:           photon.MemescopeLiq{Usd: "9000"},
			Audit: photon.MemescopeAudit{
				MintAuthority:   false,
				FreezeAuthority: true,
				LpBurnedPerc:    "92.5",
			},
			HoldersCount:       150.0,
			DevHoldingPerc:     "4.2",
			BundleHoldersCount: "12",
			PumpPoolID:         "777",
		},
	}

	coin := Normalize(item)

	if coin.ID != "4242" || coin.Symbol != "TKN" {
		t.Errorf("identity fields wrong: %+v", coin)
	}
	if coin.Mcap != 21000.5 {
		t.Errorf("mcap = %v, want 21000.5 (string fdv parsed)", coin.Mcap)
	}
	if coin.LiquidityUsd != 9000 {
		t.Errorf("liquidity = %v, want 9000", coin.LiquidityUsd)
	}
	if coin.Buys != 40 || coin.Sells != 20 {
		t.Errorf("flow counters = %d/%d, want 40/20", coin.Buys, coin.Sells)
	}
	if !coin.Audit.FreezeAuthority {
		t.Error("freeze authority flag lost")
	}
	if coin.Audit.LpBurnedPerc == nil || *coin.Audit.LpBurnedPerc != 92.5 {
		t.Errorf("lp burned = %v, want 92.5", coin.Audit.LpBurnedPerc)
	}
	if coin.Holders.DevHoldPerc == nil || *coin.Holders.DevHoldPerc != 4.2 {
		t.Errorf("dev hold = %v, want 4.2", coin.Holders.DevHoldPerc)
	}
	if coin.Holders.BundleHoldersCount == nil || *coin.Holders.BundleHoldersCount != 12 {
		t.Errorf("bundle holders = %v, want 12", coin.Holders.BundleHoldersCount)
	}
	if coin.PumpPoolID == nil || *coin.PumpPoolID != 777 {
		t.Errorf("pump pool id = %v, want 777", coin.PumpPoolID)
	}
}

// TestNormalizeAbsentVsZero tests that missing statistics stay absent while
// economic counters default to zero
func TestNormalizeAbsentVsZero(t *testing.T) {
	item := photon.MemescopeItem{
		ID: "1",
		Attributes: photon.MemescopeAttributes{
			Symbol: "BARE",
		},
	}

	coin := Normalize(item)

	if coin.Mcap != 0 || coin.LiquidityUsd != 0 || coin.Buys != 0 {
		t.Errorf("economic fields should default to zero: %+v", coin)
	}
	if coin.Holders.DevHoldPerc != nil {
		t.Error("absent dev hold must stay nil, not zero")
	}
	if coin.Holders.HoldersCount != nil {
		t.Error("absent holders count must stay nil")
	}
	if coin.Audit.LpBurnedPerc != nil {
		t.Error("absent lp burned must stay nil")
	}
	if coin.PumpPoolID != nil {
		t.Error("absent pump pool id must stay nil")
	}
}

// TestNormalizeGarbageValues tests that unparsable values fall back like
// missing ones
func TestNormalizeGarbageValues(t *testing.T) {
	item := photon.MemescopeItem{
		ID: "2",
		Attributes: photon.MemescopeAttributes{
			Symbol:         "JUNK",
			Fdv:            "not-a-number",
			DevHoldingPerc: "NaN",
			HoldersCount:   map[string]interface{}{"nested": true},
		},
	}

	coin := Normalize(item)

	if coin.Mcap != 0 {
		t.Errorf("garbage fdv should read as 0, got %v", coin.Mcap)
	}
	if coin.Holders.DevHoldPerc != nil {
		t.Error("NaN dev hold must resolve to absent")
	}
	if coin.Holders.HoldersCount != nil {
		t.Error("nested garbage must resolve to absent")
	}
}

package screener

import (
	"photon-trading-bot/internal/photon"
)

// Normalize maps a raw memescope row into the canonical coin shape. It is
// total: every field parses defensively and a present-but-invalid value
// becomes absent rather than an error. Economic counters default to zero
// when missing; holder and audit percentages stay nil, because a missing
// holder statistic must not read as "zero risk".
func Normalize(item photon.MemescopeItem) Coin {
	a := item.Attributes

	return Coin{
		ID:           item.ID,
		Symbol:       a.Symbol,
		Name:         a.Name,
		TokenAddress: a.TokenAddress,
		PoolAddress:  a.Address,
		PumpPoolID:   countOrNil(a.PumpPoolID),

		Mcap:             floatOrZero(a.Fdv),
		LiquidityUsd:     floatOrZero(a.CurLiq.Usd),
		Volume:           floatOrZero(a.Volume),
		Buys:             intOrZero(a.BuysCount),
		Sells:            intOrZero(a.SellsCount),
		CreatedTimestamp: intOrZero(a.CreatedTimestamp),

		Audit: CoinAudit{
			MintAuthority:   a.Audit.MintAuthority,
			FreezeAuthority: a.Audit.FreezeAuthority,
			LpBurnedPerc:    floatOrNil(a.Audit.LpBurnedPerc),
			TopHoldersPerc:  floatOrNil(a.Audit.TopHoldersPerc),
		},
		Holders: CoinHolders{
			HoldersCount:       countOrNil(a.HoldersCount),
			DevHoldPerc:        floatOrNil(a.DevHoldingPerc),
			InsidersHoldPerc:   floatOrNil(a.InsidersHoldingPerc),
			SnipersHoldPerc:    floatOrNil(a.SnipersHoldingPerc),
			FreshHoldPerc:      floatOrNil(a.FreshHoldingPerc),
			BundleHoldPerc:     floatOrNil(a.BundleHoldingPerc),
			FreshHoldersCount:  countOrNil(a.FreshHoldersCount),
			BundleHoldersCount: countOrNil(a.BundleHoldersCount),
		},
	}
}

func floatOrZero(v interface{}) float64 {
	f, ok := photon.AsFloat(v)
	if !ok {
		return 0
	}
	return f
}

func intOrZero(v interface{}) int64 {
	f, ok := photon.AsFloat(v)
	if !ok {
		return 0
	}
	return int64(f)
}

func floatOrNil(v interface{}) *float64 {
	f, ok := photon.AsFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func countOrNil(v interface{}) *int64 {
	f, ok := photon.AsFloat(v)
	if !ok {
		return nil
	}
	n := int64(f)
	return &n
}

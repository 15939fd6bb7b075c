package scoring

import (
	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
)

// Evaluate runs the two-stage gate-then-score health check against one coin.
// Any hard gate forces eligible=false and tier rejected regardless of the
// numeric score; warn thresholds only subtract points. The function is pure
// and deterministic for a fixed settings snapshot.
func Evaluate(s *settings.Settings, coin screener.Coin, nowSec int64) ScoreResult {
	healthy := s.Healthy
	hardFails := []string{}
	reasons := []string{}

	ageSec := nowSec - coin.CreatedTimestamp
	if ageSec < 0 {
		ageSec = 0
	}
	liqRatio := 0.0
	if coin.Mcap > 0 {
		liqRatio = coin.LiquidityUsd / coin.Mcap
	}
	sellRatio := float64(coin.Sells)
	if coin.Buys > 0 {
		sellRatio = float64(coin.Sells) / float64(coin.Buys)
	}

	// Hard gates
	if healthy.Audit.RequireMintAuthorityFalse && coin.Audit.MintAuthority {
		hardFails = append(hardFails, FailMintAuthority)
	}
	if healthy.Audit.RequireFreezeAuthorityFalse && coin.Audit.FreezeAuthority {
		hardFails = append(hardFails, FailFreezeAuthority)
	}
	if coin.Audit.LpBurnedPerc != nil && *coin.Audit.LpBurnedPerc < healthy.Audit.MinLpBurnedPercIfPresent {
		hardFails = append(hardFails, FailLpBurnedBelowMin)
	}

	if coin.LiquidityUsd < healthy.MinLiquidityUsd {
		hardFails = append(hardFails, FailLiquidityBelowMin)
	}
	if coin.Mcap < healthy.MinMarketCapUsd {
		hardFails = append(hardFails, FailMcapBelowMin)
	}
	if healthy.MaxMarketCapUsd != nil && coin.Mcap > *healthy.MaxMarketCapUsd {
		// Not a hard fail; keep large caps monitorable, at a score penalty.
		reasons = append(reasons, ReasonMcapAboveRange)
	}

	if liqRatio < healthy.MinLiqRatio {
		hardFails = append(hardFails, FailLiqRatioBelowMin)
	}

	dev := coin.Holders.DevHoldPerc
	if dev != nil && *dev > healthy.Holders.MaxDevHoldPerc {
		hardFails = append(hardFails, FailDevHoldAboveMax)
	}
	snipers := coin.Holders.SnipersHoldPerc
	if snipers != nil && *snipers > healthy.Holders.MaxSnipersHoldPerc {
		hardFails = append(hardFails, FailSnipersAboveMax)
	}
	insiders := coin.Holders.InsidersHoldPerc
	if insiders != nil && *insiders > healthy.Holders.MaxInsidersHoldPerc {
		hardFails = append(hardFails, FailInsidersAboveMax)
	}

	eligible := len(hardFails) == 0

	// Score: independent penalties off a base of 100. They stack unless
	// noted otherwise.
	score := 100

	if coin.Audit.LpBurnedPerc != nil && *coin.Audit.LpBurnedPerc < healthy.Audit.WarnLpBurnedPerc {
		score -= 10
	}

	liqFloor := healthy.MinLiquidityUsd
	if liqFloor < 10000 {
		liqFloor = 10000
	}
	if coin.LiquidityUsd < liqFloor {
		score -= 10
	}
	// Only the tighter ratio band applies.
	if liqRatio < healthy.WarnLiqRatio {
		score -= 12
	} else if liqRatio < 0.05 {
		score -= 6
	}

	if coin.Mcap >= healthy.MinMarketCapUsd && coin.Mcap <= healthy.MinMarketCapUsd*1.5 {
		score -= 4
	}
	if healthy.MaxMarketCapUsd != nil && coin.Mcap > *healthy.MaxMarketCapUsd {
		score -= 6
	}

	if sellRatio > healthy.Flow.SellRatioWarn {
		score -= 6
	}
	if sellRatio > healthy.Flow.SellRatioFail {
		score -= 12
	}

	if dev != nil && *dev >= healthy.Holders.WarnDevHoldPerc {
		score -= 8
	}
	if snipers != nil && *snipers >= healthy.Holders.WarnSnipersHoldPerc {
		score -= 6
	}
	if insiders != nil && *insiders >= healthy.Holders.WarnInsidersHoldPerc {
		score -= 6
	}

	if coin.Holders.HoldersCount != nil && coin.Holders.BundleHoldersCount != nil &&
		*coin.Holders.HoldersCount > 0 && *coin.Holders.BundleHoldersCount > 0 {
		bundleRatio := float64(*coin.Holders.BundleHoldersCount) / float64(*coin.Holders.HoldersCount)
		if bundleRatio > healthy.Holders.BundleRatioFail {
			score -= 12
		} else if bundleRatio > healthy.Holders.BundleRatioWarn {
			score -= 6
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	// Reasons
	if !eligible {
		reasons = append(reasons, hardFails...)
	}
	if liqRatio < 0.03 {
		reasons = append(reasons, ReasonThinLiquidity)
	}
	if sellRatio > 1.15 {
		reasons = append(reasons, ReasonSellPressure)
	}
	if coin.Audit.TopHoldersPerc != nil && *coin.Audit.TopHoldersPerc > 35 {
		reasons = append(reasons, ReasonTopHoldersHeavy)
	}

	// Tier. Eligible coins never land below watch: the floor is deliberate,
	// rejection is reserved for hard-gate failures.
	tier := TierRejected
	if eligible {
		switch {
		case float64(score) >= s.Scoring.TradeCandidate:
			tier = TierTradeCandidate
		case float64(score) >= s.Scoring.Monitor:
			tier = TierMonitor
		default:
			tier = TierWatch
		}
	}

	return ScoreResult{
		Eligible:  eligible,
		HardFails: hardFails,
		Score:     score,
		Tier:      tier,
		Reasons:   reasons,
		Computed: Computed{
			AgeSec:    ageSec,
			LiqRatio:  liqRatio,
			SellRatio: sellRatio,
		},
	}
}

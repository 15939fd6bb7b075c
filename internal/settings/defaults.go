package settings

func floatPtr(v float64) *float64 { return &v }

// Default returns the safe-by-default settings document: paper mode, no
// auto-execution, no live trading, advisory layer off.
func Default() *Settings {
	return &Settings{
		App: AppSettings{
			ConfigVersion:          1,
			Mode:                   ModePaper,
			AutoExecute:            false,
			EnableLiveTrading:      false,
			MaxConcurrentPositions: 2,
			MaxDailyLossUsd:        25,
			CooldownAfterSellS:     45,
			MaxAPIErrorsInWindow:   5,
			APIErrorWindowS:        120,
		},
		Photon: PhotonSettings{
			Wallets:        "",
			AssociatedAccs: "",
			CurBalanceSol:  0,
		},
		Discovery: DiscoverySettings{
			ColumnKey: "col1",
			RefreshS:  10,
			MaxItems:  100,
		},
		Healthy: HealthySettings{
			MinLiquidityUsd: 7500,
			MinMarketCapUsd: 12000,
			MaxMarketCapUsd: floatPtr(250000),
			MinLiqRatio:     0.02,
			WarnLiqRatio:    0.03,
			Audit: AuditSettings{
				RequireMintAuthorityFalse:   true,
				RequireFreezeAuthorityFalse: true,
				MinLpBurnedPercIfPresent:    80,
				WarnLpBurnedPerc:            90,
			},
			Holders: HolderSettings{
				MaxDevHoldPerc:       8,
				WarnDevHoldPerc:      5,
				MaxSnipersHoldPerc:   20,
				WarnSnipersHoldPerc:  10,
				MaxInsidersHoldPerc:  10,
				WarnInsidersHoldPerc: 5,
				BundleRatioWarn:      0.25,
				BundleRatioFail:      0.40,
			},
			Flow: FlowSettings{
				SellRatioWarn: 1.15,
				SellRatioFail: 1.35,
			},
		},
		Scoring: ScoringSettings{
			Watch:          60,
			Monitor:        75,
			TradeCandidate: 85,
		},
		RSI: RSISettings{
			Length:             14,
			EntryRSIMin:        25,
			EntryRSIMax:        40,
			AvoidEntryRSIAbove: 65,
			ExitRSI:            72,
			Interval:           "1m",
			BarsLookback:       120,
		},
		TradePlan: TradePlanSettings{
			EntryMcapMin:     18000,
			EntryMcapMax:     24000,
			TargetMultiplier: 1.70,
			StopMultiplier:   0.75,
		},
		Execution: ExecutionSettings{
			DefaultBuySol:  0.01,
			BuySlippage:    5,
			SellSlippage:   20,
			UsePrivateNode: true,
			Priority:       0.0001,
			Bribery:        0.0001,
			Strategy:       "default",
			SellAmtsKind:   "perc",
			SellPerc:       100,
		},
		LLM: LLMSettings{
			Enabled:   false,
			Endpoints: []LLMEndpoint{},
			Prompts: LLMPrompts{
				DecisionSystem: "You are a cautious trading copilot. You must output strict JSON only.",
				DecisionUserTemplate: "Given this compact pack, decide intent (buy/sell/hold) and return JSON " +
					"with rationale, risks, invalidations, confidence.\nPACK:\n{{pack}}",
			},
		},
	}
}

package photon

import (
	"context"
	"math"
)

// MockClient returns deterministic simulated data. It is used when the bot
// runs without venue credentials and by tests.
type MockClient struct {
	// FailMemescope / FailCandles / FailPurchase force transport errors.
	FailMemescope bool
	FailCandles   bool
	FailPurchase  bool

	// Purchases records every purchase request for assertions.
	Purchases []PurchaseRequest
}

// NewMockClient creates a mock Photon client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetMemescope(ctx context.Context) (*MemescopeResponse, error) {
	if m.FailMemescope {
		return nil, &APIError{Status: 503, Body: "mock outage"}
	}
	return &MemescopeResponse{
		Columns: map[string]MemescopeColumn{
			"col1": {Data: []MemescopeItem{
				{
					ID: "101",
					Attributes: MemescopeAttributes{
						Volume:           "54000",
						BuysCount:        640.0,
						SellsCount:       410.0,
						Address:          "PoolAddr101",
						Fdv:              "21000",
						Name:             "Mock Coin",
						Symbol:           "MOCK",
						TokenAddress:     "TokenAddr101",
						CreatedTimestamp: 1700000000.0,
						CurLiq:           MemescopeLiq{Usd: "12500"},
						Audit: MemescopeAudit{
							MintAuthority:   false,
							FreezeAuthority: false,
							LpBurnedPerc:    100.0,
							TopHoldersPerc:  "22.5",
						},
						HoldersCount:       420.0,
						DevHoldingPerc:     "1.2",
						SnipersHoldingPerc: "4.0",
						BundleHoldersCount: 30.0,
					},
				},
				{
					ID: "102",
					Attributes: MemescopeAttributes{
						Volume:           "900",
						BuysCount:        40.0,
						SellsCount:       70.0,
						Address:          "PoolAddr102",
						Fdv:              "8000",
						Name:             "Thin Coin",
						Symbol:           "THIN",
						TokenAddress:     "TokenAddr102",
						CreatedTimestamp: 1700000500.0,
						CurLiq:           MemescopeLiq{Usd: "900"},
						Audit:            MemescopeAudit{MintAuthority: true},
					},
				},
			}},
		},
	}, nil
}

func (m *MockClient) GetCandles(ctx context.Context, q CandleQuery) ([]Candle, error) {
	if m.FailCandles {
		return nil, &APIError{Status: 502, Body: "mock outage"}
	}
	step := int64(60)
	n := int((q.To - q.From) / step)
	if n > 240 {
		n = 240
	}
	candles := make([]Candle, 0, n)
	for i := 0; i < n; i++ {
		// Gentle sine walk so RSI and swings are non-degenerate.
		base := 0.0001 * (1 + 0.05*math.Sin(float64(i)/9))
		candles = append(candles, Candle{
			Timestamp: q.From + int64(i)*step,
			Open:      base * 0.999,
			High:      base * 1.004,
			Low:       base * 0.996,
			Close:     base,
			Volume:    1000 + 50*float64(i%7),
		})
	}
	return candles, nil
}

func (m *MockClient) Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResponse, error) {
	if m.FailPurchase {
		return nil, &APIError{Status: 500, Body: "mock outage"}
	}
	m.Purchases = append(m.Purchases, req)
	return PurchaseResponse{"success": true, "simulated": true}, nil
}

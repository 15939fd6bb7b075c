package photon

import "context"

// PhotonClient defines the interface for Photon API operations
type PhotonClient interface {
	GetMemescope(ctx context.Context) (*MemescopeResponse, error)
	GetCandles(ctx context.Context, q CandleQuery) ([]Candle, error)
	Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResponse, error)
}

// Ensure both Client and MockClient implement PhotonClient
var _ PhotonClient = (*Client)(nil)
var _ PhotonClient = (*MockClient)(nil)

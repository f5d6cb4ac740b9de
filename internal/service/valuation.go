package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openrwa/fracshare/internal/engine"
)

// ValuationResponse represents the read-side valuation block for an asset.
// All figures derive from registry and ring state; computing them never
// mutates anything.
type ValuationResponse struct {
	AssetID            uint64
	InitialPrice       int64           // cents
	CurrentPrice       int64           // cents
	ImpliedMarketValue int64           // cents, current price times total shares
	PriceChange        decimal.Decimal // signed ratio vs the initial price
	TrailingAverage    decimal.Decimal // cents, mean of recorded resale prices
	SampleCount        int             // resale prices backing the trailing average
	BestOffer          *int64          // cents, cheapest open listing; nil when none
	ComputedAt         time.Time
}

// ValuationService serves pure read-side valuation queries over the
// market's state.
type ValuationService struct {
	market *engine.Market
}

// NewValuationService creates a new ValuationService.
func NewValuationService(market *engine.Market) *ValuationService {
	return &ValuationService{market: market}
}

// Valuation returns the asset's current price, implied market value,
// signed price change ratio, and trailing average over the recorded
// resale prices.
//
// ImpliedMarketValue deliberately uses the fluctuating current price, not
// the fixed initial price: it reflects the latest observed secondary-market
// signal. An asset with no recorded resales reports its initial price as
// the trailing average with a sample count of zero.
func (s *ValuationService) Valuation(assetID uint64) (*ValuationResponse, error) {
	asset, err := s.market.AssetSnapshot(assetID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.market.TrailingAverage(assetID)
	if err != nil {
		return nil, err
	}

	// (current − initial) / initial; zero when the price never moved.
	change := decimal.Zero
	if asset.CurrentPrice != asset.InitialPrice {
		change = decimal.NewFromInt(asset.CurrentPrice - asset.InitialPrice).
			Div(decimal.NewFromInt(asset.InitialPrice))
	}

	resp := &ValuationResponse{
		AssetID:            asset.AssetID,
		InitialPrice:       asset.InitialPrice,
		CurrentPrice:       asset.CurrentPrice,
		ImpliedMarketValue: asset.CurrentPrice * asset.TotalShares,
		PriceChange:        change,
		TrailingAverage:    avg,
		SampleCount:        count,
		ComputedAt:         time.Now(),
	}

	if best, ok := s.market.BestOffer(assetID); ok {
		resp.BestOffer = &best
	}

	return resp, nil
}

package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/engine"
	"github.com/openrwa/fracshare/internal/eventlog"
	"github.com/openrwa/fracshare/internal/settlement"
	"github.com/openrwa/fracshare/internal/store"
)

var (
	admin = domain.Identity{CallerID: "root", Roles: []string{domain.RoleAdmin}}
	alice = domain.Identity{CallerID: "alice"}
	bob   = domain.Identity{CallerID: "bob"}
)

// newTestServices wires all services over in-memory stores and a logging
// settlement stub.
func newTestServices() (*AssetService, *MarketService, *ValuationService, *eventlog.MemoryLog) {
	assets := store.NewAssetStore()
	listings := store.NewListingStore()
	holdings := store.NewHoldingStore()
	events := eventlog.NewMemoryLog()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	market := engine.NewMarket(
		assets,
		listings,
		engine.NewLedger(holdings),
		engine.NewRingSet(engine.DefaultRingDepth),
		engine.NewBookSet(),
		settlement.NewLogChannel(logger),
		events,
	)

	return NewAssetService(assets, market, events),
		NewMarketService(market),
		NewValuationService(market),
		events
}

// listTestAsset lists a standard test asset and returns its id.
func listTestAsset(t *testing.T, svc *AssetService, price float64, totalShares int64) uint64 {
	t.Helper()
	asset, err := svc.ListAsset(admin, ListAssetRequest{
		Issuer:       "acme",
		InitialPrice: price,
		TotalShares:  totalShares,
	})
	if err != nil {
		t.Fatalf("list asset: %v", err)
	}
	return asset.AssetID
}

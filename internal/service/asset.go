package service

import (
	"regexp"
	"time"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/engine"
	"github.com/openrwa/fracshare/internal/store"
)

var identityRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ListAssetRequest represents the input for listing (fractionalizing) an
// asset.
type ListAssetRequest struct {
	Issuer        string
	InitialPrice  float64 // dollars per share
	TotalShares   int64
	MetadataRef   string
}

// AssetService handles asset listing, lookup, and deactivation.
// Listing and deactivation require the admin role supplied by the external
// identity provider.
type AssetService struct {
	assets *store.AssetStore
	market *engine.Market
	sink   domain.EventSink
}

// NewAssetService creates a new AssetService.
func NewAssetService(assets *store.AssetStore, market *engine.Market, sink domain.EventSink) *AssetService {
	return &AssetService{
		assets: assets,
		market: market,
		sink:   sink,
	}
}

// ListAsset validates the request, creates the asset in the registry with
// no shares sold and the current price equal to the initial price, and
// emits AssetListed.
func (s *AssetService) ListAsset(caller domain.Identity, req ListAssetRequest) (domain.Asset, error) {
	if !caller.IsAdmin() {
		return domain.Asset{}, domain.ErrAuthorizationDenied
	}

	if !identityRegex.MatchString(req.Issuer) {
		return domain.Asset{}, &domain.ValidationError{
			Message: "issuer must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.InitialPrice <= 0 {
		return domain.Asset{}, &domain.ValidationError{
			Message: "initial_price_per_share must be greater than 0",
		}
	}
	priceCents, err := domain.DollarsToCents(req.InitialPrice)
	if err != nil {
		return domain.Asset{}, &domain.ValidationError{
			Message: "initial_price_per_share must have at most 2 decimal places",
		}
	}
	if req.TotalShares <= 0 {
		return domain.Asset{}, &domain.ValidationError{
			Message: "total_shares must be a positive integer",
		}
	}
	if len(req.MetadataRef) > 512 {
		return domain.Asset{}, &domain.ValidationError{
			Message: "metadata_ref must be at most 512 characters",
		}
	}

	asset := &domain.Asset{
		Issuer:       req.Issuer,
		InitialPrice: priceCents,
		CurrentPrice: priceCents,
		TotalShares:  req.TotalShares,
		Active:       true,
		MetadataRef:  req.MetadataRef,
		CreatedAt:    time.Now(),
	}
	s.assets.Create(asset)

	s.sink.Publish(domain.AssetListed{
		AssetID:      asset.AssetID,
		Issuer:       asset.Issuer,
		InitialPrice: asset.InitialPrice,
		TotalShares:  asset.TotalShares,
		MetadataRef:  asset.MetadataRef,
		OccurredAt:   asset.CreatedAt,
	})

	return *asset, nil
}

// GetAsset returns a consistent snapshot of the asset.
func (s *AssetService) GetAsset(assetID uint64) (domain.Asset, error) {
	return s.market.AssetSnapshot(assetID)
}

// ListAssets returns snapshots of every asset in the registry in ascending
// ID order.
func (s *AssetService) ListAssets() []domain.Asset {
	all := s.assets.List()
	result := make([]domain.Asset, 0, len(all))
	for _, a := range all {
		snapshot, err := s.market.AssetSnapshot(a.AssetID)
		if err != nil {
			continue
		}
		result = append(result, snapshot)
	}
	return result
}

// Deactivate closes the asset to further primary purchases. Requires the
// admin role.
func (s *AssetService) Deactivate(caller domain.Identity, assetID uint64) (domain.Asset, error) {
	if !caller.IsAdmin() {
		return domain.Asset{}, domain.ErrAuthorizationDenied
	}
	return s.market.DeactivateAsset(assetID)
}

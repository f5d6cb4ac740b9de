package service

import (
	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/engine"
)

// BuyPrimaryRequest represents the input for a primary purchase.
type BuyPrimaryRequest struct {
	AssetID uint64
	Shares  int64
	Payment float64 // dollars
}

// CreateListingRequest represents the input for creating a resale listing.
type CreateListingRequest struct {
	AssetID       uint64
	Shares        int64
	PricePerShare float64 // dollars
}

// BuyResaleRequest represents the input for filling a resale listing.
type BuyResaleRequest struct {
	ListingID uint64
	Shares    int64
	Payment   float64 // dollars
}

// MarketService validates trade requests and drives the market engine.
// The caller identity on every method comes from the external
// identity provider and is trusted as handed in.
type MarketService struct {
	market *engine.Market
}

// NewMarketService creates a new MarketService.
func NewMarketService(market *engine.Market) *MarketService {
	return &MarketService{market: market}
}

// validCaller checks the caller id shape shared by all trade operations.
func validCaller(caller domain.Identity) error {
	if !identityRegex.MatchString(caller.CallerID) {
		return &domain.ValidationError{
			Message: "caller id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	return nil
}

// paymentCents validates and converts a dollar payment amount.
func paymentCents(payment float64) (int64, error) {
	if payment < 0 {
		return 0, &domain.ValidationError{Message: "payment must be >= 0"}
	}
	cents, err := domain.DollarsToCents(payment)
	if err != nil {
		return 0, &domain.ValidationError{Message: "payment must have at most 2 decimal places"}
	}
	return cents, nil
}

// BuyPrimary validates the request and purchases shares from the issuer's
// unsold allocation at the fixed initial price.
func (s *MarketService) BuyPrimary(caller domain.Identity, req BuyPrimaryRequest) (*domain.Receipt, error) {
	if err := validCaller(caller); err != nil {
		return nil, err
	}
	if req.Shares <= 0 {
		return nil, &domain.ValidationError{Message: "shares must be a positive integer"}
	}
	payment, err := paymentCents(req.Payment)
	if err != nil {
		return nil, err
	}

	return s.market.BuyPrimary(req.AssetID, caller.CallerID, req.Shares, payment)
}

// CreateListing validates the request and escrows the caller's shares into
// a new resale listing.
func (s *MarketService) CreateListing(caller domain.Identity, req CreateListingRequest) (domain.ResaleListing, error) {
	if err := validCaller(caller); err != nil {
		return domain.ResaleListing{}, err
	}
	if req.Shares <= 0 {
		return domain.ResaleListing{}, &domain.ValidationError{Message: "shares must be a positive integer"}
	}
	if req.PricePerShare <= 0 {
		return domain.ResaleListing{}, &domain.ValidationError{Message: "price_per_share must be greater than 0"}
	}
	priceCents, err := domain.DollarsToCents(req.PricePerShare)
	if err != nil {
		return domain.ResaleListing{}, &domain.ValidationError{Message: "price_per_share must have at most 2 decimal places"}
	}

	listing, err := s.market.CreateListing(req.AssetID, caller.CallerID, req.Shares, priceCents)
	if err != nil {
		return domain.ResaleListing{}, err
	}
	return *listing, nil
}

// BuyResale validates the request and fills shares from an open listing.
func (s *MarketService) BuyResale(caller domain.Identity, req BuyResaleRequest) (*domain.Receipt, error) {
	if err := validCaller(caller); err != nil {
		return nil, err
	}
	if req.Shares <= 0 {
		return nil, &domain.ValidationError{Message: "shares must be a positive integer"}
	}
	payment, err := paymentCents(req.Payment)
	if err != nil {
		return nil, err
	}

	return s.market.BuyResale(req.ListingID, caller.CallerID, req.Shares, payment)
}

// CancelListing cancels an open listing owned by the caller and returns
// the unfilled remainder to their holding.
func (s *MarketService) CancelListing(caller domain.Identity, listingID uint64) (domain.ResaleListing, error) {
	if err := validCaller(caller); err != nil {
		return domain.ResaleListing{}, err
	}
	listing, err := s.market.CancelListing(listingID, caller.CallerID)
	if err != nil {
		return domain.ResaleListing{}, err
	}
	return *listing, nil
}

// GetListing returns a consistent snapshot of a listing.
func (s *MarketService) GetListing(listingID uint64) (domain.ResaleListing, error) {
	return s.market.ListingSnapshot(listingID)
}

// OpenListings returns the asset's open listings, cheapest first.
func (s *MarketService) OpenListings(assetID uint64) ([]domain.ResaleListing, error) {
	return s.market.OpenListings(assetID)
}

// Balance returns a holder's share balance for an asset. Unknown holders
// have a balance of zero.
func (s *MarketService) Balance(assetID uint64, holder string) (int64, error) {
	if !identityRegex.MatchString(holder) {
		return 0, &domain.ValidationError{
			Message: "holder id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if _, err := s.market.AssetSnapshot(assetID); err != nil {
		return 0, err
	}
	return s.market.Ledger().Balance(assetID, holder), nil
}

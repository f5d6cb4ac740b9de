package service

import (
	"errors"
	"testing"

	"github.com/openrwa/fracshare/internal/domain"
)

func TestBuyPrimary_Success(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)

	receipt, err := marketSvc.BuyPrimary(alice, BuyPrimaryRequest{
		AssetID: assetID,
		Shares:  40,
		Payment: 200.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.AmountSpent != 20000 {
		t.Errorf("got amount spent %d, want 20000", receipt.AmountSpent)
	}
	if receipt.Refund != 0 {
		t.Errorf("got refund %d, want 0", receipt.Refund)
	}
	if !receipt.IsPrimary {
		t.Error("primary receipt must be flagged primary")
	}
	if bal, _ := marketSvc.Balance(assetID, "alice"); bal != 40 {
		t.Errorf("got balance %d, want 40", bal)
	}
}

func TestBuyPrimary_Error_Validation(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)

	tests := []struct {
		name string
		req  BuyPrimaryRequest
	}{
		{"zero shares", BuyPrimaryRequest{AssetID: assetID, Shares: 0, Payment: 5}},
		{"negative shares", BuyPrimaryRequest{AssetID: assetID, Shares: -1, Payment: 5}},
		{"negative payment", BuyPrimaryRequest{AssetID: assetID, Shares: 1, Payment: -5}},
		{"sub-cent payment", BuyPrimaryRequest{AssetID: assetID, Shares: 1, Payment: 5.001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := marketSvc.BuyPrimary(alice, tt.req)
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestBuyPrimary_Error_BadCaller(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)

	_, err := marketSvc.BuyPrimary(domain.Identity{CallerID: "not a valid id!"}, BuyPrimaryRequest{
		AssetID: assetID,
		Shares:  1,
		Payment: 5.00,
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestCreateListing_Success(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)
	if _, err := marketSvc.BuyPrimary(alice, BuyPrimaryRequest{AssetID: assetID, Shares: 50, Payment: 250.00}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	listing, err := marketSvc.CreateListing(alice, CreateListingRequest{
		AssetID:       assetID,
		Shares:        30,
		PricePerShare: 6.50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.PricePerShare != 650 {
		t.Errorf("got price %d, want 650", listing.PricePerShare)
	}
	if listing.Status != domain.ListingStatusActive {
		t.Errorf("got status %q, want active", listing.Status)
	}

	// Escrow leaves the seller with the remainder.
	if bal, _ := marketSvc.Balance(assetID, "alice"); bal != 20 {
		t.Errorf("got balance %d, want 20", bal)
	}
}

func TestCreateListing_Error_Validation(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)

	tests := []struct {
		name string
		req  CreateListingRequest
	}{
		{"zero shares", CreateListingRequest{AssetID: assetID, Shares: 0, PricePerShare: 6.50}},
		{"zero price", CreateListingRequest{AssetID: assetID, Shares: 10, PricePerShare: 0}},
		{"negative price", CreateListingRequest{AssetID: assetID, Shares: 10, PricePerShare: -6.50}},
		{"sub-cent price", CreateListingRequest{AssetID: assetID, Shares: 10, PricePerShare: 6.501}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := marketSvc.CreateListing(alice, tt.req)
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestBuyResale_Success(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)
	if _, err := marketSvc.BuyPrimary(alice, BuyPrimaryRequest{AssetID: assetID, Shares: 50, Payment: 250.00}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	listing, err := marketSvc.CreateListing(alice, CreateListingRequest{
		AssetID:       assetID,
		Shares:        30,
		PricePerShare: 6.50,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	receipt, err := marketSvc.BuyResale(bob, BuyResaleRequest{
		ListingID: listing.ListingID,
		Shares:    10,
		Payment:   65.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.AmountSpent != 6500 {
		t.Errorf("got amount spent %d, want 6500", receipt.AmountSpent)
	}
	if receipt.IsPrimary {
		t.Error("resale receipt must not be flagged primary")
	}
	if bal, _ := marketSvc.Balance(assetID, "bob"); bal != 10 {
		t.Errorf("got buyer balance %d, want 10", bal)
	}

	after, err := marketSvc.GetListing(listing.ListingID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if after.Status != domain.ListingStatusPartiallyFilled {
		t.Errorf("got status %q, want partially_filled", after.Status)
	}
	if after.Remaining() != 20 {
		t.Errorf("got remaining %d, want 20", after.Remaining())
	}
}

func TestCancelListing_Error_NotOwner(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)
	if _, err := marketSvc.BuyPrimary(alice, BuyPrimaryRequest{AssetID: assetID, Shares: 50, Payment: 250.00}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	listing, err := marketSvc.CreateListing(alice, CreateListingRequest{
		AssetID:       assetID,
		Shares:        30,
		PricePerShare: 6.50,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	_, err = marketSvc.CancelListing(bob, listing.ListingID)
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("got %v, want ErrNotOwner", err)
	}
}

func TestOpenListings_SortedByPrice(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 1000)
	if _, err := marketSvc.BuyPrimary(alice, BuyPrimaryRequest{AssetID: assetID, Shares: 100, Payment: 500.00}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	for _, price := range []float64{8.00, 6.00, 7.00} {
		if _, err := marketSvc.CreateListing(alice, CreateListingRequest{
			AssetID:       assetID,
			Shares:        10,
			PricePerShare: price,
		}); err != nil {
			t.Fatalf("create listing at %v: %v", price, err)
		}
	}

	listings, err := marketSvc.OpenListings(assetID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}
	for i, want := range []int64{600, 700, 800} {
		if listings[i].PricePerShare != want {
			t.Errorf("listing %d: got price %d, want %d", i, listings[i].PricePerShare, want)
		}
	}
}

func TestBalance_UnknownHolderIsZero(t *testing.T) {
	assetSvc, marketSvc, _, _ := newTestServices()
	assetID := listTestAsset(t, assetSvc, 5.00, 100)

	bal, err := marketSvc.Balance(assetID, "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal != 0 {
		t.Errorf("got balance %d, want 0", bal)
	}
}

func TestBalance_Error_UnknownAsset(t *testing.T) {
	_, marketSvc, _, _ := newTestServices()

	_, err := marketSvc.Balance(999, "alice")
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("got %v, want ErrAssetNotFound", err)
	}
}

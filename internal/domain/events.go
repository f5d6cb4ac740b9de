package domain

import "time"

// Event is the closed set of records emitted by the engine to the event
// sink, one variant per operation effect, in the order the effects occurred.
// The marker method seals the set: only the types in this file satisfy it.
type Event interface {
	// Name returns the stable event name used by downstream indexers.
	Name() string
	isEvent()
}

// AssetListed is emitted when an issuer fractionalizes a new asset.
type AssetListed struct {
	AssetID      uint64
	Issuer       string
	InitialPrice int64
	TotalShares  int64
	MetadataRef  string
	OccurredAt   time.Time
}

func (AssetListed) Name() string { return "asset.listed" }
func (AssetListed) isEvent()     {}

// SharesPurchased is emitted on every completed purchase. IsPrimary is true
// for purchases from the issuer's unsold allocation.
type SharesPurchased struct {
	AssetID     uint64
	Buyer       string
	Shares      int64
	AmountSpent int64
	IsPrimary   bool
	OccurredAt  time.Time
}

func (SharesPurchased) Name() string { return "shares.purchased" }
func (SharesPurchased) isEvent()     {}

// ResaleListingCreated is emitted when a seller escrows shares into a new
// resale listing.
type ResaleListingCreated struct {
	ListingID     uint64
	AssetID       uint64
	Seller        string
	SharesOffered int64
	PricePerShare int64
	OccurredAt    time.Time
}

func (ResaleListingCreated) Name() string { return "resale.listing_created" }
func (ResaleListingCreated) isEvent()     {}

// ResaleCompleted is emitted on every completed resale fill, carrying the
// new market price observed from the fill.
type ResaleCompleted struct {
	ListingID      uint64
	AssetID        uint64
	Buyer          string
	Seller         string
	Shares         int64
	AmountSpent    int64
	NewMarketPrice int64
	OccurredAt     time.Time
}

func (ResaleCompleted) Name() string { return "resale.completed" }
func (ResaleCompleted) isEvent()     {}

// ResaleListingCancelled is emitted when a seller cancels a listing and the
// unfilled remainder is credited back.
type ResaleListingCancelled struct {
	ListingID      uint64
	AssetID        uint64
	Seller         string
	SharesReturned int64
	OccurredAt     time.Time
}

func (ResaleListingCancelled) Name() string { return "resale.listing_cancelled" }
func (ResaleListingCancelled) isEvent()     {}

// MarketPriceUpdated is emitted when a completed fill moves the asset's
// market price. It is never emitted for listing creation or cancellation.
type MarketPriceUpdated struct {
	AssetID    uint64
	OldPrice   int64
	NewPrice   int64
	OccurredAt time.Time
}

func (MarketPriceUpdated) Name() string { return "market.price_updated" }
func (MarketPriceUpdated) isEvent()     {}

// EventSink consumes emitted events for downstream indexing and
// notification. Implementations must be safe for concurrent use.
type EventSink interface {
	Publish(Event)
}

package domain

import "time"

// ListingStatus represents the lifecycle state of a resale listing.
type ListingStatus string

const (
	ListingStatusActive          ListingStatus = "active"
	ListingStatusPartiallyFilled ListingStatus = "partially_filled"
	ListingStatusCompleted       ListingStatus = "completed"
	ListingStatusCancelled       ListingStatus = "cancelled"
)

// ResaleListing represents a seller-created offer to sell already-owned
// shares at a seller-chosen price. The offered shares are escrowed: the
// seller's holding is debited when the listing is created, so they cannot
// be double-sold elsewhere.
//
// SharesFilled never exceeds SharesOffered. Completed and cancelled are
// terminal states; no further fills succeed once either is reached.
type ResaleListing struct {
	ListingID     uint64
	AssetID       uint64
	Seller        string
	SharesOffered int64
	SharesFilled  int64
	PricePerShare int64 // cents
	Status        ListingStatus
	CreatedAt     time.Time
	CancelledAt   *time.Time
}

// Remaining returns the unfilled quantity still available for purchase.
func (l *ResaleListing) Remaining() int64 {
	return l.SharesOffered - l.SharesFilled
}

// Open reports whether the listing can still accept fills or be cancelled.
func (l *ResaleListing) Open() bool {
	return l.Status == ListingStatusActive || l.Status == ListingStatusPartiallyFilled
}

package domain

import "time"

// Asset represents a tokenized real-world asset fractionalized into a fixed
// number of tradable shares.
//
// InitialPrice and TotalShares are immutable after creation. CurrentPrice
// starts equal to InitialPrice and is mutated only by a completed resale
// fill. SharesSold never exceeds TotalShares and never decreases.
type Asset struct {
	AssetID      uint64
	Issuer       string
	InitialPrice int64 // cents per share, fixed at listing time
	CurrentPrice int64 // cents per share, last completed resale price
	TotalShares  int64
	SharesSold   int64
	Active       bool
	MetadataRef  string // content-addressed reference held by the external blob store
	CreatedAt    time.Time
}

// UnsoldShares returns the issuer's remaining primary allocation.
func (a *Asset) UnsoldShares() int64 {
	return a.TotalShares - a.SharesSold
}

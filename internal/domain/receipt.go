package domain

import "time"

// Receipt records a completed share purchase, primary or secondary.
type Receipt struct {
	ReceiptID     string // uuid
	AssetID       uint64
	ListingID     uint64 // 0 for primary purchases
	Buyer         string
	Shares        int64
	PricePerShare int64 // cents
	AmountSpent   int64 // cents, shares × price
	Refund        int64 // cents returned to the buyer on overpayment
	IsPrimary     bool
	ExecutedAt    time.Time
}

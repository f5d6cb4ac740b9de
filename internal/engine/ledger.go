package engine

import (
	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/store"
)

// Ledger is the share ledger: it owns all balance mutations against the
// holding table. Credit and Debit are internal operations used only by the
// market engines, always inside the per-asset lock scope, so partial
// application of a trade's balance changes is never observable.
type Ledger struct {
	holdings *store.HoldingStore
}

// NewLedger creates a Ledger over the given holding table.
func NewLedger(holdings *store.HoldingStore) *Ledger {
	return &Ledger{holdings: holdings}
}

// Balance returns the holder's share balance for an asset.
// Unknown holders have a balance of 0; this is not an error.
func (l *Ledger) Balance(assetID uint64, holder string) int64 {
	return l.holdings.Balance(assetID, holder)
}

// Credit adds amount shares to the holder's balance.
func (l *Ledger) Credit(assetID uint64, holder string, amount int64) error {
	if amount <= 0 {
		return &domain.ValidationError{Message: "credit amount must be > 0"}
	}
	l.holdings.Credit(assetID, holder, amount)
	return nil
}

// Debit removes amount shares from the holder's balance. It returns
// domain.ErrInsufficientShares if the balance is smaller than amount.
func (l *Ledger) Debit(assetID uint64, holder string, amount int64) error {
	if amount <= 0 {
		return &domain.ValidationError{Message: "debit amount must be > 0"}
	}
	return l.holdings.Debit(assetID, holder, amount)
}

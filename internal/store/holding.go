package store

import (
	"sync"

	"github.com/openrwa/fracshare/internal/domain"
)

// holdingKey identifies a single holder's position in a single asset.
type holdingKey struct {
	assetID uint64
	holder  string
}

// HoldingStore is the thread-safe in-memory table of per-asset, per-holder
// share balances. Unknown (asset, holder) pairs have an implicit balance of
// zero; entries are removed when a balance drops back to zero.
type HoldingStore struct {
	mu       sync.RWMutex
	holdings map[holdingKey]int64
}

// NewHoldingStore creates an empty HoldingStore.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		holdings: make(map[holdingKey]int64),
	}
}

// Balance returns the holder's share balance for an asset.
// Unknown holders have a balance of 0; this is not an error.
func (s *HoldingStore) Balance(assetID uint64, holder string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.holdings[holdingKey{assetID, holder}]
}

// Credit adds amount shares to the holder's balance.
// The caller is responsible for validating amount > 0.
func (s *HoldingStore) Credit(assetID uint64, holder string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holdings[holdingKey{assetID, holder}] += amount
}

// Debit removes amount shares from the holder's balance. It returns
// domain.ErrInsufficientShares if the balance is smaller than amount,
// leaving the balance unchanged.
func (s *HoldingStore) Debit(assetID uint64, holder string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdingKey{assetID, holder}
	balance := s.holdings[key]
	if balance < amount {
		return domain.ErrInsufficientShares
	}
	if balance == amount {
		delete(s.holdings, key)
		return nil
	}
	s.holdings[key] = balance - amount
	return nil
}

// SumByAsset returns the total shares held across all holders of an asset.
// Escrowed shares (debited into active listings) are not included.
func (s *HoldingStore) SumByAsset(assetID uint64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for key, shares := range s.holdings {
		if key.assetID == assetID {
			sum += shares
		}
	}
	return sum
}

// HoldersByAsset returns a copy of all non-zero balances for an asset,
// keyed by holder ID.
func (s *HoldingStore) HoldersByAsset(assetID uint64) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]int64)
	for key, shares := range s.holdings {
		if key.assetID == assetID {
			result[key.holder] = shares
		}
	}
	return result
}

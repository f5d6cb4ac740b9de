package store

import (
	"sync"

	"github.com/openrwa/fracshare/internal/domain"
)

// ListingStore is the thread-safe in-memory table of resale listings,
// with a primary index by listing_id and a secondary index by asset_id.
// Listing IDs are assigned monotonically.
type ListingStore struct {
	mu       sync.RWMutex
	listings map[uint64]*domain.ResaleListing
	byAsset  map[uint64][]*domain.ResaleListing // asset_id → listings (append-only)
	nextID   uint64
}

// NewListingStore creates an empty ListingStore.
func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[uint64]*domain.ResaleListing),
		byAsset:  make(map[uint64][]*domain.ResaleListing),
		nextID:   1,
	}
}

// Create assigns the next monotonic listing ID, stores the listing, appends
// it to the asset's secondary index, and returns the assigned ID.
func (s *ListingStore) Create(l *domain.ResaleListing) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ListingID = s.nextID
	s.nextID++
	s.listings[l.ListingID] = l
	s.byAsset[l.AssetID] = append(s.byAsset[l.AssetID], l)
	return l.ListingID
}

// Get retrieves a listing by ID. It returns
// domain.ErrListingNotFound if the listing does not exist.
//
// The returned pointer is shared: field mutation is only permitted while
// holding the engine's per-asset lock.
func (s *ListingStore) Get(id uint64) (*domain.ResaleListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return l, nil
}

// ListByAsset returns all listings for an asset in creation order.
func (s *ListingStore) ListByAsset(assetID uint64) []*domain.ResaleListing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.byAsset[assetID]
	result := make([]*domain.ResaleListing, len(all))
	copy(result, all)
	return result
}

// EscrowedByAsset returns the total unfilled shares currently escrowed in
// open listings for an asset. Used by the conservation check: escrowed
// shares have been debited from holdings but not yet credited to a buyer.
func (s *ListingStore) EscrowedByAsset(assetID uint64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for _, l := range s.byAsset[assetID] {
		if l.Open() {
			sum += l.Remaining()
		}
	}
	return sum
}

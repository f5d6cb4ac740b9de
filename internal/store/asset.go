package store

import (
	"sync"

	"github.com/openrwa/fracshare/internal/domain"
)

// AssetStore is the thread-safe in-memory catalog of tokenized assets,
// keyed by asset_id. Asset IDs are assigned monotonically and assets are
// append-only: they can be deactivated but never deleted.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[uint64]*domain.Asset
	nextID uint64
}

// NewAssetStore creates an empty AssetStore.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets: make(map[uint64]*domain.Asset),
		nextID: 1,
	}
}

// Create assigns the next monotonic asset ID, stores the asset, and
// returns the assigned ID.
func (s *AssetStore) Create(a *domain.Asset) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.AssetID = s.nextID
	s.nextID++
	s.assets[a.AssetID] = a
	return a.AssetID
}

// Get retrieves an asset by ID. It returns
// domain.ErrAssetNotFound if the asset does not exist.
//
// The returned pointer is shared: field mutation is only permitted while
// holding the engine's per-asset lock.
func (s *AssetStore) Get(id uint64) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return a, nil
}

// List returns all assets in ascending ID order.
func (s *AssetStore) List() []*domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Asset, 0, len(s.assets))
	for id := uint64(1); id < s.nextID; id++ {
		if a, ok := s.assets[id]; ok {
			result = append(result, a)
		}
	}
	return result
}

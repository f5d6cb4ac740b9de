package engine

import "sync"

// assetLocks is a thread-safe map of asset_id → mutex. Every mutating
// operation for an asset runs under that asset's lock for its entire
// duration, so no two mutating operations for the same asset ever
// interleave their partial effects. Operations on different assets
// proceed independently.
type assetLocks struct {
	mu    sync.RWMutex
	locks map[uint64]*sync.Mutex
}

func newAssetLocks() *assetLocks {
	return &assetLocks{
		locks: make(map[uint64]*sync.Mutex),
	}
}

// get returns the lock for the given asset, creating one if it doesn't
// already exist.
func (al *assetLocks) get(assetID uint64) *sync.Mutex {
	al.mu.RLock()
	lock, ok := al.locks[assetID]
	al.mu.RUnlock()
	if ok {
		return lock
	}

	al.mu.Lock()
	defer al.mu.Unlock()
	// Double-check after acquiring write lock.
	if lock, ok = al.locks[assetID]; ok {
		return lock
	}
	lock = &sync.Mutex{}
	al.locks[assetID] = lock
	return lock
}

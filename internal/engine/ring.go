package engine

import (
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultRingDepth is the number of most recent resale prices retained
// per asset when no explicit depth is configured.
const DefaultRingDepth = 10

// PriceRing is a fixed-capacity circular buffer of the most recent completed
// resale prices for a single asset. Once full, the oldest entry is
// overwritten in place; recording is O(1) and never reallocates.
type PriceRing struct {
	prices   []int64 // cents, len ≤ capacity
	next     int     // write index once the buffer is full
	capacity int
}

func newPriceRing(capacity int) *PriceRing {
	return &PriceRing{
		prices:   make([]int64, 0, capacity),
		capacity: capacity,
	}
}

// Record appends a price, overwriting the oldest entry once the buffer
// is full.
func (r *PriceRing) Record(price int64) {
	if len(r.prices) < r.capacity {
		r.prices = append(r.prices, price)
		return
	}
	r.prices[r.next] = price
	r.next = (r.next + 1) % r.capacity
}

// Count returns the number of entries currently held (≤ capacity).
func (r *PriceRing) Count() int {
	return len(r.prices)
}

// Average returns the arithmetic mean of all held entries as an exact
// decimal, and false if the buffer is empty.
func (r *PriceRing) Average() (decimal.Decimal, bool) {
	if len(r.prices) == 0 {
		return decimal.Zero, false
	}
	var sum int64
	for _, p := range r.prices {
		sum += p
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(r.prices)))), true
}

// Values returns the held prices in chronological order, oldest first.
func (r *PriceRing) Values() []int64 {
	result := make([]int64, 0, len(r.prices))
	if len(r.prices) < r.capacity {
		return append(result, r.prices...)
	}
	// Full buffer: the write index points at the oldest entry.
	result = append(result, r.prices[r.next:]...)
	result = append(result, r.prices[:r.next]...)
	return result
}

// RingSet is a thread-safe map of asset_id → PriceRing, all sharing one
// fixed depth.
type RingSet struct {
	mu    sync.RWMutex
	rings map[uint64]*PriceRing
	depth int
}

// NewRingSet creates an empty RingSet with the given per-asset depth.
func NewRingSet(depth int) *RingSet {
	if depth <= 0 {
		depth = DefaultRingDepth
	}
	return &RingSet{
		rings: make(map[uint64]*PriceRing),
		depth: depth,
	}
}

// Record appends a completed resale price to the asset's ring, creating
// the ring on first use.
func (s *RingSet) Record(assetID uint64, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rings[assetID]
	if !ok {
		r = newPriceRing(s.depth)
		s.rings[assetID] = r
	}
	r.Record(price)
}

// Average returns the mean of the asset's held prices and the sample count.
// An asset with no recorded resales returns (0, 0); callers report the
// asset's initial price as the documented fallback.
func (s *RingSet) Average(assetID uint64) (decimal.Decimal, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rings[assetID]
	if !ok {
		return decimal.Zero, 0
	}
	avg, ok := r.Average()
	if !ok {
		return decimal.Zero, 0
	}
	return avg, r.Count()
}

// Values returns the asset's held prices in chronological order.
func (s *RingSet) Values(assetID uint64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rings[assetID]
	if !ok {
		return []int64{}
	}
	return r.Values()
}

package engine

import (
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/openrwa/fracshare/internal/domain"
)

// ListingEntry represents a single open listing resting on the book.
type ListingEntry struct {
	Price     int64
	CreatedAt time.Time
	ListingID uint64
	Listing   *domain.ResaleListing
}

// listingLess orders the book by price ascending, then created_at
// ascending, then listing_id ascending. Min() returns the cheapest,
// oldest open offer.
func listingLess(a, b ListingEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ListingID < b.ListingID
}

// ListingBook maintains the open resale listings for a single asset in a
// B-tree with a secondary index for O(log n) removal by listing ID.
// Completed and cancelled listings are removed; the book only ever holds
// open listings.
type ListingBook struct {
	assetID uint64
	mu      sync.RWMutex
	entries *btree.BTreeG[ListingEntry]
	index   map[uint64]ListingEntry // listing_id → entry
}

// NewListingBook creates a listing book for the given asset.
func NewListingBook(assetID uint64) *ListingBook {
	const degree = 32
	return &ListingBook{
		assetID: assetID,
		entries: btree.NewG[ListingEntry](degree, listingLess),
		index:   make(map[uint64]ListingEntry),
	}
}

// Insert adds an open listing to the book.
func (b *ListingBook) Insert(entry ListingEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries.ReplaceOrInsert(entry)
	b.index[entry.ListingID] = entry
}

// Remove deletes a listing from the book by listing ID using the
// secondary index. No-op if the listing isn't on the book.
func (b *ListingBook) Remove(listingID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.index[listingID]
	if !ok {
		return
	}
	delete(b.index, listingID)
	b.entries.Delete(entry)
}

// BestOffer returns the cheapest open listing on the book.
func (b *ListingBook) BestOffer() (ListingEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.entries.Min()
}

// Walk iterates open listings in book order (cheapest first). The callback
// returns true to continue, false to stop.
func (b *ListingBook) Walk(fn func(ListingEntry) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.entries.Ascend(fn)
}

// Len returns the number of open listings on the book.
func (b *ListingBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.entries.Len()
}

// BookSet is a thread-safe map of asset_id → ListingBook.
type BookSet struct {
	mu    sync.RWMutex
	books map[uint64]*ListingBook
}

// NewBookSet creates a new BookSet.
func NewBookSet() *BookSet {
	return &BookSet{
		books: make(map[uint64]*ListingBook),
	}
}

// GetOrCreate returns the listing book for the given asset, creating
// one if it doesn't already exist.
func (bs *BookSet) GetOrCreate(assetID uint64) *ListingBook {
	bs.mu.RLock()
	book, ok := bs.books[assetID]
	bs.mu.RUnlock()
	if ok {
		return book
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	// Double-check after acquiring write lock.
	if book, ok = bs.books[assetID]; ok {
		return book
	}
	book = NewListingBook(assetID)
	bs.books[assetID] = book
	return book
}

package engine

import (
	"testing"
	"time"

	"github.com/openrwa/fracshare/internal/domain"
)

func bookEntry(id uint64, price int64, sec int) ListingEntry {
	createdAt := time.Date(2025, 1, 1, 0, 0, sec, 0, time.UTC)
	return ListingEntry{
		Price:     price,
		CreatedAt: createdAt,
		ListingID: id,
		Listing: &domain.ResaleListing{
			ListingID:     id,
			PricePerShare: price,
			Status:        domain.ListingStatusActive,
			CreatedAt:     createdAt,
		},
	}
}

func TestListingBook_WalkPriceAscending(t *testing.T) {
	b := NewListingBook(1)
	b.Insert(bookEntry(1, 1500, 0))
	b.Insert(bookEntry(2, 900, 1))
	b.Insert(bookEntry(3, 1200, 2))

	var ids []uint64
	b.Walk(func(e ListingEntry) bool {
		ids = append(ids, e.ListingID)
		return true
	})

	want := []uint64{2, 3, 1}
	if len(ids) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: got listing %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestListingBook_TieBreakByCreationThenID(t *testing.T) {
	b := NewListingBook(1)
	b.Insert(bookEntry(5, 1000, 1))
	b.Insert(bookEntry(3, 1000, 0))
	b.Insert(bookEntry(4, 1000, 0))

	best, ok := b.BestOffer()
	if !ok {
		t.Fatal("expected a best offer")
	}
	// Same price: earliest created wins, then lowest id.
	if best.ListingID != 3 {
		t.Errorf("best offer = listing %d, want 3", best.ListingID)
	}
}

func TestListingBook_Remove(t *testing.T) {
	b := NewListingBook(1)
	b.Insert(bookEntry(1, 900, 0))
	b.Insert(bookEntry(2, 1200, 1))

	b.Remove(1)

	if b.Len() != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", b.Len())
	}
	best, _ := b.BestOffer()
	if best.ListingID != 2 {
		t.Errorf("best offer = listing %d, want 2", best.ListingID)
	}

	// Removing an absent listing is a no-op.
	b.Remove(99)
	if b.Len() != 1 {
		t.Errorf("remove of unknown listing changed the book")
	}
}

func TestBookSet_GetOrCreateReturnsSameBook(t *testing.T) {
	bs := NewBookSet()
	b1 := bs.GetOrCreate(1)
	b2 := bs.GetOrCreate(1)
	if b1 != b2 {
		t.Error("expected the same book for the same asset")
	}
	if bs.GetOrCreate(2) == b1 {
		t.Error("expected a distinct book per asset")
	}
}

package eventlog

import (
	"testing"
	"time"

	"github.com/openrwa/fracshare/internal/domain"
)

func TestMemoryLog_PublishAndByAsset(t *testing.T) {
	l := NewMemoryLog()

	l.Publish(domain.AssetListed{AssetID: 1, Issuer: "issuer-1", OccurredAt: time.Now()})
	l.Publish(domain.SharesPurchased{AssetID: 1, Buyer: "alice", Shares: 10, OccurredAt: time.Now()})
	l.Publish(domain.AssetListed{AssetID: 2, Issuer: "issuer-2", OccurredAt: time.Now()})

	if l.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", l.Len())
	}

	entries := l.ByAsset(1, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for asset 1, got %d", len(entries))
	}
	// Newest first.
	if entries[0].EventName != "shares.purchased" {
		t.Errorf("expected newest entry first, got %s", entries[0].EventName)
	}
	if entries[1].EventName != "asset.listed" {
		t.Errorf("expected asset.listed second, got %s", entries[1].EventName)
	}
	for _, e := range entries {
		if e.EventID == "" {
			t.Error("expected event_id to be assigned")
		}
	}
}

func TestMemoryLog_ByAssetLimit(t *testing.T) {
	l := NewMemoryLog()
	for i := 0; i < 5; i++ {
		l.Publish(domain.MarketPriceUpdated{AssetID: 1, OldPrice: int64(i), NewPrice: int64(i + 1)})
	}

	entries := l.ByAsset(1, 2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	ev := entries[0].Event.(domain.MarketPriceUpdated)
	if ev.NewPrice != 5 {
		t.Errorf("expected most recent update first, got new price %d", ev.NewPrice)
	}
}

func TestMemoryLog_ByAssetUnknownAsset(t *testing.T) {
	l := NewMemoryLog()

	if entries := l.ByAsset(99, 10); len(entries) != 0 {
		t.Errorf("expected no entries for unknown asset, got %d", len(entries))
	}
}

func TestFanout_PublishesToAllSinks(t *testing.T) {
	a := NewMemoryLog()
	b := NewMemoryLog()
	sink := Fanout(a, b)

	sink.Publish(domain.AssetListed{AssetID: 1})

	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("expected both sinks to receive the event, got %d and %d", a.Len(), b.Len())
	}
}

func TestEventAssetID_AllVariants(t *testing.T) {
	tests := []struct {
		name  string
		event domain.Event
	}{
		{"asset.listed", domain.AssetListed{AssetID: 7}},
		{"shares.purchased", domain.SharesPurchased{AssetID: 7}},
		{"resale.listing_created", domain.ResaleListingCreated{AssetID: 7}},
		{"resale.completed", domain.ResaleCompleted{AssetID: 7}},
		{"resale.listing_cancelled", domain.ResaleListingCancelled{AssetID: 7}},
		{"market.price_updated", domain.MarketPriceUpdated{AssetID: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventAssetID(tt.event); got != 7 {
				t.Errorf("eventAssetID() = %d, want 7", got)
			}
			if tt.event.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tt.event.Name(), tt.name)
			}
		})
	}
}

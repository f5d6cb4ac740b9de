// Package eventlog provides the append-only event sink consumed by
// downstream indexing and notification. The engine's only obligation is to
// publish events with their exact field sets in the order the effects
// occurred; sinks never feed back into the ledger.
package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openrwa/fracshare/internal/domain"
)

// Entry wraps a published event with its delivery metadata.
type Entry struct {
	EventID    string
	EventName  string
	AssetID    uint64
	RecordedAt time.Time
	Event      domain.Event
}

// MemoryLog is a thread-safe in-memory event log with a secondary index
// by asset_id. Entries are append-only and chronological.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []Entry
	byAsset map[uint64][]Entry
}

// NewMemoryLog creates an empty MemoryLog.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		byAsset: make(map[uint64][]Entry),
	}
}

// Publish appends the event to the log. Implements domain.EventSink.
func (l *MemoryLog) Publish(e domain.Event) {
	entry := Entry{
		EventID:    uuid.New().String(),
		EventName:  e.Name(),
		AssetID:    eventAssetID(e),
		RecordedAt: time.Now(),
		Event:      e,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	l.byAsset[entry.AssetID] = append(l.byAsset[entry.AssetID], entry)
}

// ByAsset returns up to limit most recent entries for an asset, newest
// first. A limit ≤ 0 returns all entries.
func (l *MemoryLog) ByAsset(assetID uint64, limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.byAsset[assetID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	result := make([]Entry, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		result = append(result, all[i])
	}
	return result
}

// Len returns the total number of entries in the log.
func (l *MemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}

// eventAssetID extracts the asset id carried by each event variant.
func eventAssetID(e domain.Event) uint64 {
	switch ev := e.(type) {
	case domain.AssetListed:
		return ev.AssetID
	case domain.SharesPurchased:
		return ev.AssetID
	case domain.ResaleListingCreated:
		return ev.AssetID
	case domain.ResaleCompleted:
		return ev.AssetID
	case domain.ResaleListingCancelled:
		return ev.AssetID
	case domain.MarketPriceUpdated:
		return ev.AssetID
	}
	return 0
}

// Fanout returns a sink that publishes each event to every given sink in
// order.
func Fanout(sinks ...domain.EventSink) domain.EventSink {
	return fanout(sinks)
}

type fanout []domain.EventSink

func (f fanout) Publish(e domain.Event) {
	for _, s := range f {
		s.Publish(e)
	}
}

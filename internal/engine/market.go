package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/settlement"
	"github.com/openrwa/fracshare/internal/store"
)

// Market is the sequential transaction processor for primary and secondary
// share trades. Each public mutating operation executes as a single
// indivisible unit under the target asset's lock: preconditions are checked
// before any mutation, all ledger/registry/ring state is finalized before
// any outbound settlement call is issued, and an event record is emitted
// for every completed effect in the order it occurred.
type Market struct {
	assets   *store.AssetStore
	listings *store.ListingStore
	ledger   *Ledger
	rings    *RingSet
	books    *BookSet
	locks    *assetLocks
	settle   settlement.Channel
	sink     domain.EventSink

	haltedMu sync.RWMutex
	halted   map[uint64]bool
}

// NewMarket creates a Market over the given stores and collaborators.
func NewMarket(
	assets *store.AssetStore,
	listings *store.ListingStore,
	ledger *Ledger,
	rings *RingSet,
	books *BookSet,
	settle settlement.Channel,
	sink domain.EventSink,
) *Market {
	return &Market{
		assets:   assets,
		listings: listings,
		ledger:   ledger,
		rings:    rings,
		books:    books,
		locks:    newAssetLocks(),
		settle:   settle,
		sink:     sink,
		halted:   make(map[uint64]bool),
	}
}

// Ledger exposes the share ledger for read access.
func (m *Market) Ledger() *Ledger {
	return m.ledger
}

// Halted reports whether the asset is halted pending manual reconciliation
// after a settlement failure.
func (m *Market) Halted(assetID uint64) bool {
	m.haltedMu.RLock()
	defer m.haltedMu.RUnlock()
	return m.halted[assetID]
}

func (m *Market) halt(assetID uint64) {
	m.haltedMu.Lock()
	defer m.haltedMu.Unlock()
	m.halted[assetID] = true
}

// guardHalted returns the error every mutating operation on a halted
// asset fails with.
func (m *Market) guardHalted(assetID uint64) error {
	if m.Halted(assetID) {
		return fmt.Errorf("%w: asset %d halted pending reconciliation", domain.ErrSettlementFailure, assetID)
	}
	return nil
}

// checkConservation verifies share conservation for an asset: shares held
// across all holders, plus shares escrowed in open listings, plus the
// issuer's unsold remainder, must equal the total share count. Called after
// every mutation; a violation is fatal and must never be retried.
func (m *Market) checkConservation(a *domain.Asset) error {
	held := m.ledger.holdings.SumByAsset(a.AssetID)
	escrowed := m.listings.EscrowedByAsset(a.AssetID)
	if held+escrowed+a.UnsoldShares() != a.TotalShares {
		return fmt.Errorf("%w: asset %d: held %d + escrowed %d + unsold %d != total %d",
			domain.ErrLedgerInvariantViolated, a.AssetID, held, escrowed, a.UnsoldShares(), a.TotalShares)
	}
	return nil
}

// BuyPrimary purchases shares from the issuer's unsold allocation at the
// asset's fixed initial price. The fluctuating current price never applies
// to primary issuance. Overpayment is refunded to the buyer.
func (m *Market) BuyPrimary(assetID uint64, buyer string, shares, payment int64) (*domain.Receipt, error) {
	asset, err := m.assets.Get(assetID)
	if err != nil {
		return nil, err
	}

	lock := m.locks.get(assetID)
	lock.Lock()
	defer lock.Unlock()

	// Checks. No state is touched until all preconditions hold.
	if err := m.guardHalted(assetID); err != nil {
		return nil, err
	}
	if !asset.Active {
		return nil, domain.ErrAssetInactive
	}
	if shares > asset.UnsoldShares() {
		return nil, domain.ErrInsufficientSupply
	}
	cost := domain.ShareTotal(asset.InitialPrice, shares)
	if payment < cost {
		return nil, domain.ErrInsufficientPayment
	}

	// Effects.
	asset.SharesSold += shares
	if err := m.ledger.Credit(assetID, buyer, shares); err != nil {
		return nil, err
	}
	if err := m.checkConservation(asset); err != nil {
		return nil, err
	}

	// Interactions: state is final before any outbound transfer.
	refund := payment - cost
	if err := m.settle.Transfer(asset.Issuer, cost); err != nil {
		m.halt(assetID)
		return nil, fmt.Errorf("%w: issuer proceeds transfer: %v", domain.ErrSettlementFailure, err)
	}
	if refund > 0 {
		if err := m.settle.Refund(buyer, refund); err != nil {
			m.halt(assetID)
			return nil, fmt.Errorf("%w: buyer overpayment refund: %v", domain.ErrSettlementFailure, err)
		}
	}

	now := time.Now()
	m.sink.Publish(domain.SharesPurchased{
		AssetID:     assetID,
		Buyer:       buyer,
		Shares:      shares,
		AmountSpent: cost,
		IsPrimary:   true,
		OccurredAt:  now,
	})

	return &domain.Receipt{
		ReceiptID:     uuid.New().String(),
		AssetID:       assetID,
		Buyer:         buyer,
		Shares:        shares,
		PricePerShare: asset.InitialPrice,
		AmountSpent:   cost,
		Refund:        refund,
		IsPrimary:     true,
		ExecutedAt:    now,
	}, nil
}

// CreateListing escrows shares from the seller's holding into a new resale
// listing at the seller-chosen price. The debit happens at creation time so
// the offered shares cannot be double-sold elsewhere. Listing creation
// never touches the asset's market price.
func (m *Market) CreateListing(assetID uint64, seller string, shares, price int64) (*domain.ResaleListing, error) {
	asset, err := m.assets.Get(assetID)
	if err != nil {
		return nil, err
	}

	lock := m.locks.get(assetID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.guardHalted(assetID); err != nil {
		return nil, err
	}
	if m.ledger.Balance(assetID, seller) < shares {
		return nil, domain.ErrInsufficientShares
	}

	// Escrow, then record the listing.
	if err := m.ledger.Debit(assetID, seller, shares); err != nil {
		return nil, err
	}

	listing := &domain.ResaleListing{
		AssetID:       assetID,
		Seller:        seller,
		SharesOffered: shares,
		PricePerShare: price,
		Status:        domain.ListingStatusActive,
		CreatedAt:     time.Now(),
	}
	m.listings.Create(listing)
	m.books.GetOrCreate(assetID).Insert(ListingEntry{
		Price:     listing.PricePerShare,
		CreatedAt: listing.CreatedAt,
		ListingID: listing.ListingID,
		Listing:   listing,
	})

	if err := m.checkConservation(asset); err != nil {
		return nil, err
	}

	m.sink.Publish(domain.ResaleListingCreated{
		ListingID:     listing.ListingID,
		AssetID:       assetID,
		Seller:        seller,
		SharesOffered: shares,
		PricePerShare: price,
		OccurredAt:    listing.CreatedAt,
	})

	return listing, nil
}

// BuyResale fills shares from an open listing. A completed fill is the only
// operation that moves the asset's market price: the listing price becomes
// the new current price and is recorded into the asset's price history ring.
// Self-trades are rejected: a seller filling their own listing would move
// the market price against no real counterparty.
func (m *Market) BuyResale(listingID uint64, buyer string, shares, payment int64) (*domain.Receipt, error) {
	listing, err := m.listings.Get(listingID)
	if err != nil {
		return nil, err
	}
	asset, err := m.assets.Get(listing.AssetID)
	if err != nil {
		return nil, err
	}

	lock := m.locks.get(listing.AssetID)
	lock.Lock()
	defer lock.Unlock()

	// Checks.
	if err := m.guardHalted(listing.AssetID); err != nil {
		return nil, err
	}
	if !listing.Open() {
		return nil, domain.ErrListingInactive
	}
	if buyer == listing.Seller {
		return nil, domain.ErrSelfTradeForbidden
	}
	if shares > listing.Remaining() {
		return nil, domain.ErrInsufficientListedShares
	}
	cost := domain.ShareTotal(listing.PricePerShare, shares)
	if payment < cost {
		return nil, domain.ErrInsufficientPayment
	}

	// Effects, in order: credit buyer, advance the fill, complete if full,
	// then move the market price.
	if err := m.ledger.Credit(listing.AssetID, buyer, shares); err != nil {
		return nil, err
	}
	listing.SharesFilled += shares
	if listing.Remaining() == 0 {
		listing.Status = domain.ListingStatusCompleted
		m.books.GetOrCreate(listing.AssetID).Remove(listingID)
	} else {
		listing.Status = domain.ListingStatusPartiallyFilled
	}

	oldPrice := asset.CurrentPrice
	asset.CurrentPrice = listing.PricePerShare
	m.rings.Record(listing.AssetID, listing.PricePerShare)

	if err := m.checkConservation(asset); err != nil {
		return nil, err
	}

	// Interactions.
	refund := payment - cost
	if err := m.settle.Transfer(listing.Seller, cost); err != nil {
		m.halt(listing.AssetID)
		return nil, fmt.Errorf("%w: seller proceeds transfer: %v", domain.ErrSettlementFailure, err)
	}
	if refund > 0 {
		if err := m.settle.Refund(buyer, refund); err != nil {
			m.halt(listing.AssetID)
			return nil, fmt.Errorf("%w: buyer overpayment refund: %v", domain.ErrSettlementFailure, err)
		}
	}

	now := time.Now()
	m.sink.Publish(domain.ResaleCompleted{
		ListingID:      listingID,
		AssetID:        listing.AssetID,
		Buyer:          buyer,
		Seller:         listing.Seller,
		Shares:         shares,
		AmountSpent:    cost,
		NewMarketPrice: asset.CurrentPrice,
		OccurredAt:     now,
	})
	m.sink.Publish(domain.SharesPurchased{
		AssetID:     listing.AssetID,
		Buyer:       buyer,
		Shares:      shares,
		AmountSpent: cost,
		IsPrimary:   false,
		OccurredAt:  now,
	})
	if oldPrice != asset.CurrentPrice {
		m.sink.Publish(domain.MarketPriceUpdated{
			AssetID:    listing.AssetID,
			OldPrice:   oldPrice,
			NewPrice:   asset.CurrentPrice,
			OccurredAt: now,
		})
	}

	return &domain.Receipt{
		ReceiptID:     uuid.New().String(),
		AssetID:       listing.AssetID,
		ListingID:     listingID,
		Buyer:         buyer,
		Shares:        shares,
		PricePerShare: listing.PricePerShare,
		AmountSpent:   cost,
		Refund:        refund,
		IsPrimary:     false,
		ExecutedAt:    now,
	}, nil
}

// CancelListing cancels an open listing and credits the unfilled remainder
// back to the seller. Only the listing's seller may cancel. Cancellation
// never touches the asset's market price.
func (m *Market) CancelListing(listingID uint64, caller string) (*domain.ResaleListing, error) {
	listing, err := m.listings.Get(listingID)
	if err != nil {
		return nil, err
	}
	asset, err := m.assets.Get(listing.AssetID)
	if err != nil {
		return nil, err
	}

	lock := m.locks.get(listing.AssetID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.guardHalted(listing.AssetID); err != nil {
		return nil, err
	}
	if caller != listing.Seller {
		return nil, domain.ErrNotOwner
	}
	if !listing.Open() {
		return nil, domain.ErrListingInactive
	}

	remainder := listing.Remaining()
	if remainder > 0 {
		if err := m.ledger.Credit(listing.AssetID, listing.Seller, remainder); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	listing.Status = domain.ListingStatusCancelled
	listing.CancelledAt = &now
	m.books.GetOrCreate(listing.AssetID).Remove(listingID)

	if err := m.checkConservation(asset); err != nil {
		return nil, err
	}

	m.sink.Publish(domain.ResaleListingCancelled{
		ListingID:      listingID,
		AssetID:        listing.AssetID,
		Seller:         listing.Seller,
		SharesReturned: remainder,
		OccurredAt:     now,
	})

	return listing, nil
}

// DeactivateAsset flips the asset inactive, closing it to further primary
// purchases. Existing holdings and open listings are unaffected. Assets are
// never deleted.
func (m *Market) DeactivateAsset(assetID uint64) (domain.Asset, error) {
	asset, err := m.assets.Get(assetID)
	if err != nil {
		return domain.Asset{}, err
	}

	lock := m.locks.get(assetID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.guardHalted(assetID); err != nil {
		return domain.Asset{}, err
	}
	asset.Active = false
	return *asset, nil
}

// AssetSnapshot returns a consistent copy of the asset, taken under the
// asset's lock so readers never observe a partially-applied mutation.
func (m *Market) AssetSnapshot(assetID uint64) (domain.Asset, error) {
	asset, err := m.assets.Get(assetID)
	if err != nil {
		return domain.Asset{}, err
	}

	lock := m.locks.get(assetID)
	lock.Lock()
	defer lock.Unlock()

	return *asset, nil
}

// ListingSnapshot returns a consistent copy of the listing.
func (m *Market) ListingSnapshot(listingID uint64) (domain.ResaleListing, error) {
	listing, err := m.listings.Get(listingID)
	if err != nil {
		return domain.ResaleListing{}, err
	}

	lock := m.locks.get(listing.AssetID)
	lock.Lock()
	defer lock.Unlock()

	return *listing, nil
}

// OpenListings returns consistent copies of the asset's open listings in
// book order: price ascending, oldest first within a price.
func (m *Market) OpenListings(assetID uint64) ([]domain.ResaleListing, error) {
	if _, err := m.assets.Get(assetID); err != nil {
		return nil, err
	}

	lock := m.locks.get(assetID)
	lock.Lock()
	defer lock.Unlock()

	result := []domain.ResaleListing{}
	m.books.GetOrCreate(assetID).Walk(func(e ListingEntry) bool {
		result = append(result, *e.Listing)
		return true
	})
	return result, nil
}

// BestOffer returns the price of the cheapest open listing for an asset,
// or false when the book is empty.
func (m *Market) BestOffer(assetID uint64) (int64, bool) {
	entry, ok := m.books.GetOrCreate(assetID).BestOffer()
	if !ok {
		return 0, false
	}
	return entry.Price, true
}

// TrailingAverage returns the mean of the asset's recorded resale prices
// and the sample count. An empty ring reports the asset's initial price
// with a count of zero.
func (m *Market) TrailingAverage(assetID uint64) (decimal.Decimal, int, error) {
	asset, err := m.assets.Get(assetID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	avg, count := m.rings.Average(assetID)
	if count == 0 {
		return decimal.NewFromInt(asset.InitialPrice), 0, nil
	}
	return avg, count, nil
}

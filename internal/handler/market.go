package handler

import (
	"net/http"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/service"
)

// MarketHandler handles HTTP requests for purchase and listing endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
	pageLimit int
}

// NewMarketHandler creates a new MarketHandler. pageLimit caps the number
// of listings returned per request.
func NewMarketHandler(marketSvc *service.MarketService, pageLimit int) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc, pageLimit: pageLimit}
}

// buyPrimaryRequest is the JSON request body for POST /assets/{asset_id}/purchase.
type buyPrimaryRequest struct {
	Shares  int64   `json:"shares"`
	Payment float64 `json:"payment"`
}

// createListingRequest is the JSON request body for POST /listings.
type createListingRequest struct {
	AssetID       uint64  `json:"asset_id"`
	Shares        int64   `json:"shares"`
	PricePerShare float64 `json:"price_per_share"`
}

// buyResaleRequest is the JSON request body for POST /listings/{listing_id}/purchase.
type buyResaleRequest struct {
	Shares  int64   `json:"shares"`
	Payment float64 `json:"payment"`
}

// receiptResponse is the JSON representation of a purchase receipt.
type receiptResponse struct {
	ReceiptID     string  `json:"receipt_id"`
	AssetID       uint64  `json:"asset_id"`
	ListingID     uint64  `json:"listing_id,omitempty"`
	Buyer         string  `json:"buyer"`
	Shares        int64   `json:"shares"`
	PricePerShare float64 `json:"price_per_share"`
	AmountSpent   float64 `json:"amount_spent"`
	Refund        float64 `json:"refund"`
	IsPrimary     bool    `json:"is_primary"`
	ExecutedAt    string  `json:"executed_at"`
}

// listingResponse is the JSON representation of a resale listing.
type listingResponse struct {
	ListingID       uint64  `json:"listing_id"`
	AssetID         uint64  `json:"asset_id"`
	Seller          string  `json:"seller"`
	SharesOffered   int64   `json:"shares_offered"`
	SharesFilled    int64   `json:"shares_filled"`
	SharesRemaining int64   `json:"shares_remaining"`
	PricePerShare   float64 `json:"price_per_share"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	CancelledAt     *string `json:"cancelled_at,omitempty"`
}

// listingListResponse is the JSON response for GET /assets/{asset_id}/listings.
type listingListResponse struct {
	Listings []listingResponse `json:"listings"`
	Total    int               `json:"total"`
}

func toReceiptResponse(rec *domain.Receipt) receiptResponse {
	return receiptResponse{
		ReceiptID:     rec.ReceiptID,
		AssetID:       rec.AssetID,
		ListingID:     rec.ListingID,
		Buyer:         rec.Buyer,
		Shares:        rec.Shares,
		PricePerShare: domain.CentsToDollars(rec.PricePerShare),
		AmountSpent:   domain.CentsToDollars(rec.AmountSpent),
		Refund:        domain.CentsToDollars(rec.Refund),
		IsPrimary:     rec.IsPrimary,
		ExecutedAt:    rec.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toListingResponse(l domain.ResaleListing) listingResponse {
	resp := listingResponse{
		ListingID:       l.ListingID,
		AssetID:         l.AssetID,
		Seller:          l.Seller,
		SharesOffered:   l.SharesOffered,
		SharesFilled:    l.SharesFilled,
		SharesRemaining: l.Remaining(),
		PricePerShare:   domain.CentsToDollars(l.PricePerShare),
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if l.CancelledAt != nil {
		t := l.CancelledAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.CancelledAt = &t
	}
	return resp
}

// BuyPrimary handles POST /assets/{asset_id}/purchase.
func (h *MarketHandler) BuyPrimary(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	var req buyPrimaryRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	receipt, err := h.marketSvc.BuyPrimary(caller, service.BuyPrimaryRequest{
		AssetID: assetID,
		Shares:  req.Shares,
		Payment: req.Payment,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

// CreateListing handles POST /listings.
func (h *MarketHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createListingRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	listing, err := h.marketSvc.CreateListing(caller, service.CreateListingRequest{
		AssetID:       req.AssetID,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toListingResponse(listing))
}

// GetListing handles GET /listings/{listing_id}.
func (h *MarketHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseIDParam(r, "listing_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "listing_id must be a positive integer")
		return
	}

	listing, err := h.marketSvc.GetListing(listingID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toListingResponse(listing))
}

// BuyResale handles POST /listings/{listing_id}/purchase.
func (h *MarketHandler) BuyResale(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	listingID, ok := parseIDParam(r, "listing_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "listing_id must be a positive integer")
		return
	}

	var req buyResaleRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	receipt, err := h.marketSvc.BuyResale(caller, service.BuyResaleRequest{
		ListingID: listingID,
		Shares:    req.Shares,
		Payment:   req.Payment,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

// CancelListing handles DELETE /listings/{listing_id}.
func (h *MarketHandler) CancelListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	listingID, ok := parseIDParam(r, "listing_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "listing_id must be a positive integer")
		return
	}

	listing, err := h.marketSvc.CancelListing(caller, listingID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toListingResponse(listing))
}

// ListListings handles GET /assets/{asset_id}/listings. Open listings only,
// cheapest first.
func (h *MarketHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	listings, err := h.marketSvc.OpenListings(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	if len(listings) > h.pageLimit {
		listings = listings[:h.pageLimit]
	}

	resp := make([]listingResponse, len(listings))
	for i, l := range listings {
		resp[i] = toListingResponse(l)
	}

	WriteJSON(w, http.StatusOK, listingListResponse{
		Listings: resp,
		Total:    len(resp),
	})
}

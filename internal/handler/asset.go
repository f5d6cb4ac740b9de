package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/eventlog"
	"github.com/openrwa/fracshare/internal/service"
)

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetSvc  *service.AssetService
	marketSvc *service.MarketService
	events    *eventlog.MemoryLog
	pageLimit int
}

// NewAssetHandler creates a new AssetHandler. pageLimit is the default
// number of event entries returned per request.
func NewAssetHandler(assetSvc *service.AssetService, marketSvc *service.MarketService, events *eventlog.MemoryLog, pageLimit int) *AssetHandler {
	return &AssetHandler{
		assetSvc:  assetSvc,
		marketSvc: marketSvc,
		events:    events,
		pageLimit: pageLimit,
	}
}

// listAssetRequest is the JSON request body for POST /assets.
type listAssetRequest struct {
	Issuer       string  `json:"issuer"`
	InitialPrice float64 `json:"initial_price_per_share"`
	TotalShares  int64   `json:"total_shares"`
	MetadataRef  string  `json:"metadata_ref"`
}

// assetResponse is the JSON representation of an asset.
type assetResponse struct {
	AssetID      uint64  `json:"asset_id"`
	Issuer       string  `json:"issuer"`
	InitialPrice float64 `json:"initial_price_per_share"`
	CurrentPrice float64 `json:"current_price_per_share"`
	TotalShares  int64   `json:"total_shares"`
	SharesSold   int64   `json:"shares_sold"`
	UnsoldShares int64   `json:"unsold_shares"`
	Active       bool    `json:"active"`
	MetadataRef  string  `json:"metadata_ref,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// holdingResponse is the JSON response for a holder's balance query.
type holdingResponse struct {
	AssetID  uint64 `json:"asset_id"`
	HolderID string `json:"holder_id"`
	Shares   int64  `json:"shares"`
}

// eventEntryResponse is a single entry in the asset event listing.
type eventEntryResponse struct {
	EventID    string       `json:"event_id"`
	EventName  string       `json:"event_name"`
	AssetID    uint64       `json:"asset_id"`
	RecordedAt string       `json:"recorded_at"`
	Payload    domain.Event `json:"payload"`
}

// eventListResponse is the JSON response for GET /assets/{asset_id}/events.
type eventListResponse struct {
	Events []eventEntryResponse `json:"events"`
	Total  int                  `json:"total"`
}

func toAssetResponse(a domain.Asset) assetResponse {
	return assetResponse{
		AssetID:      a.AssetID,
		Issuer:       a.Issuer,
		InitialPrice: domain.CentsToDollars(a.InitialPrice),
		CurrentPrice: domain.CentsToDollars(a.CurrentPrice),
		TotalShares:  a.TotalShares,
		SharesSold:   a.SharesSold,
		UnsoldShares: a.UnsoldShares(),
		Active:       a.Active,
		MetadataRef:  a.MetadataRef,
		CreatedAt:    a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// parseIDParam parses a numeric URL parameter as a uint64 id.
func parseIDParam(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// Create handles POST /assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req listAssetRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, err := h.assetSvc.ListAsset(caller, service.ListAssetRequest{
		Issuer:       req.Issuer,
		InitialPrice: req.InitialPrice,
		TotalShares:  req.TotalShares,
		MetadataRef:  req.MetadataRef,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// List handles GET /assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets := h.assetSvc.ListAssets()
	resp := make([]assetResponse, len(assets))
	for i, a := range assets {
		resp[i] = toAssetResponse(a)
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"assets": resp,
		"total":  len(resp),
	})
}

// Get handles GET /assets/{asset_id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	asset, err := h.assetSvc.GetAsset(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toAssetResponse(asset))
}

// Deactivate handles POST /assets/{asset_id}/deactivate.
func (h *AssetHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	asset, err := h.assetSvc.Deactivate(caller, assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toAssetResponse(asset))
}

// GetHolding handles GET /assets/{asset_id}/holdings/{holder_id}.
func (h *AssetHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}
	holderID := chi.URLParam(r, "holder_id")

	shares, err := h.marketSvc.Balance(assetID, holderID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, holdingResponse{
		AssetID:  assetID,
		HolderID: holderID,
		Shares:   shares,
	})
}

// ListEvents handles GET /assets/{asset_id}/events.
func (h *AssetHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	if _, err := h.assetSvc.GetAsset(assetID); err != nil {
		mapDomainError(w, err)
		return
	}

	limit := h.pageLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries := h.events.ByAsset(assetID, limit)
	events := make([]eventEntryResponse, len(entries))
	for i, e := range entries {
		events[i] = eventEntryResponse{
			EventID:    e.EventID,
			EventName:  e.EventName,
			AssetID:    e.AssetID,
			RecordedAt: e.RecordedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Payload:    e.Event,
		}
	}

	WriteJSON(w, http.StatusOK, eventListResponse{
		Events: events,
		Total:  len(events),
	})
}

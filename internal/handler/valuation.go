package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/service"
)

var centsPerDollar = decimal.NewFromInt(100)

// ValuationHandler handles HTTP requests for valuation endpoints.
type ValuationHandler struct {
	valuationSvc *service.ValuationService
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(valuationSvc *service.ValuationService) *ValuationHandler {
	return &ValuationHandler{valuationSvc: valuationSvc}
}

// valuationResponse is the JSON response for GET /assets/{asset_id}/valuation.
// Decimal figures are serialized as strings so precision survives clients
// that parse JSON numbers as float64.
type valuationResponse struct {
	AssetID            uint64   `json:"asset_id"`
	InitialPrice       float64  `json:"initial_price_per_share"`
	CurrentPrice       float64  `json:"current_price_per_share"`
	ImpliedMarketValue float64  `json:"implied_market_value"`
	PriceChange        string   `json:"price_change"`
	TrailingAverage    string   `json:"trailing_average"`
	SampleCount        int      `json:"sample_count"`
	BestOffer          *float64 `json:"best_offer,omitempty"`
	ComputedAt         string   `json:"computed_at"`
}

// GetValuation handles GET /assets/{asset_id}/valuation.
func (h *ValuationHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseIDParam(r, "asset_id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_id must be a positive integer")
		return
	}

	v, err := h.valuationSvc.Valuation(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := valuationResponse{
		AssetID:            v.AssetID,
		InitialPrice:       domain.CentsToDollars(v.InitialPrice),
		CurrentPrice:       domain.CentsToDollars(v.CurrentPrice),
		ImpliedMarketValue: domain.CentsToDollars(v.ImpliedMarketValue),
		PriceChange:        v.PriceChange.String(),
		TrailingAverage:    v.TrailingAverage.Div(centsPerDollar).String(),
		SampleCount:        v.SampleCount,
		ComputedAt:         v.ComputedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if v.BestOffer != nil {
		best := domain.CentsToDollars(*v.BestOffer)
		resp.BestOffer = &best
	}

	WriteJSON(w, http.StatusOK, resp)
}

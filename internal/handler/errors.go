package handler

import (
	"errors"
	"net/http"

	"github.com/openrwa/fracshare/internal/domain"
)

// mapDomainError maps domain errors to HTTP responses. The error code in
// the body mirrors the sentinel's message so clients can switch on it.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		WriteError(w, http.StatusNotFound, "asset_not_found", err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		WriteError(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, domain.ErrAuthorizationDenied):
		WriteError(w, http.StatusForbidden, "authorization_denied", err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		WriteError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, domain.ErrInsufficientShares):
		WriteError(w, http.StatusConflict, "insufficient_shares", err.Error())
	case errors.Is(err, domain.ErrInsufficientSupply):
		WriteError(w, http.StatusConflict, "insufficient_supply", err.Error())
	case errors.Is(err, domain.ErrInsufficientListedShares):
		WriteError(w, http.StatusConflict, "insufficient_listed_shares", err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		WriteError(w, http.StatusConflict, "insufficient_payment", err.Error())
	case errors.Is(err, domain.ErrSelfTradeForbidden):
		WriteError(w, http.StatusConflict, "self_trade_forbidden", err.Error())
	case errors.Is(err, domain.ErrListingInactive):
		WriteError(w, http.StatusConflict, "listing_inactive", err.Error())
	case errors.Is(err, domain.ErrAssetInactive):
		WriteError(w, http.StatusConflict, "asset_inactive", err.Error())
	case errors.Is(err, domain.ErrSettlementFailure):
		WriteError(w, http.StatusBadGateway, "settlement_failure", err.Error())
	case errors.Is(err, domain.ErrLedgerInvariantViolated):
		WriteError(w, http.StatusInternalServerError, "ledger_invariant_violated", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
//
// Every error below except ErrLedgerInvariantViolated and ErrSettlementFailure
// is detected before any state mutation, so a failed operation leaves the
// ledger untouched and is fully recoverable by the caller.
var (
	ErrAssetNotFound            = errors.New("asset_not_found")
	ErrListingNotFound          = errors.New("listing_not_found")
	ErrAuthorizationDenied      = errors.New("authorization_denied")
	ErrInsufficientShares       = errors.New("insufficient_shares")
	ErrInsufficientSupply       = errors.New("insufficient_supply")
	ErrInsufficientListedShares = errors.New("insufficient_listed_shares")
	ErrInsufficientPayment      = errors.New("insufficient_payment")
	ErrSelfTradeForbidden       = errors.New("self_trade_forbidden")
	ErrListingInactive          = errors.New("listing_inactive")
	ErrAssetInactive            = errors.New("asset_inactive")
	ErrNotOwner                 = errors.New("not_owner")

	// ErrLedgerInvariantViolated signals an internal consistency failure:
	// share conservation no longer holds for an asset. The operation
	// aborts and callers must not catch and retry it.
	ErrLedgerInvariantViolated = errors.New("ledger_invariant_violated")

	// ErrSettlementFailure signals that an outbound fund transfer failed
	// after ledger state was already mutated. The asset is halted until
	// manually reconciled; rolling back a partially-settled transfer is
	// unsafe to automate.
	ErrSettlementFailure = errors.New("settlement_failure")
)

// ValidationError represents a request validation failure
// (bad input shape or range).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

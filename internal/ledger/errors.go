package ledger

import (
	"errors"

	"gig_ledger/internal/tax"
)

var (
	// ErrInvalidAmount is returned for non-positive deposits.
	ErrInvalidAmount = tax.ErrInvalidAmount
	// ErrAccountNotFound is returned when the user has no account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrWalletLimitExceeded is returned when the net credit would push the
	// wallet over the cap. Nothing is written in that case.
	ErrWalletLimitExceeded = errors.New("wallet limit exceeded")
	// ErrStorageFailure wraps any store error. Its detail is logged, never shown.
	ErrStorageFailure = errors.New("storage failure")
)

// Outcome labels used for metrics.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidAmount = "invalid_amount"
	OutcomeNotFound      = "account_not_found"
	OutcomeLimitExceeded = "wallet_limit_exceeded"
	OutcomeStorage       = "storage_failure"
)

// outcomeOf classifies err into one of the outcome labels.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidAmount):
		return OutcomeInvalidAmount
	case errors.Is(err, ErrAccountNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrWalletLimitExceeded):
		return OutcomeLimitExceeded
	default:
		return OutcomeStorage
	}
}

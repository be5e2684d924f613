package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"gig_ledger/internal/ledger"     // Ledger sentinels
	"gig_ledger/internal/middleware" // Request-scoped logger
	"gig_ledger/internal/tax"        // Vault sentinel
	"gig_ledger/pkg/response"        // Response envelope
)

// writeLedgerError maps ledger and vault errors to HTTP statuses
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		response.WriteValidation(c, http.StatusBadRequest, "Invalid input", []string{"amount must be a positive number"})
	case errors.Is(err, ledger.ErrAccountNotFound):
		response.WriteError(c, http.StatusNotFound, "Account not found", "")
	case errors.Is(err, ledger.ErrWalletLimitExceeded):
		response.WriteError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, tax.ErrVaultAccessDenied):
		response.WriteError(c, http.StatusForbidden, err.Error(), "")
	default:
		// Detail stays in the log, clients get a generic message
		middleware.Logger(c).WithField("error", err.Error()).Error("Request failed")
		response.WriteError(c, http.StatusInternalServerError, "Internal server error", "")
	}
}

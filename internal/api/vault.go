package api

import (
	"net/http" // HTTP status codes
	"time"     // Clock

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values

	"gig_ledger/internal/middleware" // Auth helpers
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/tax"        // Vault access gate
	"gig_ledger/pkg/response"        // Response envelope
)

// VaultReleaseResponse is the amount that could be released
type VaultReleaseResponse struct {
	Releasable decimal.Decimal `json:"releasable"` // Whole tax vault of the user
}

// VaultAccessHandler reports whether the vault is open, without rejecting
func VaultAccessHandler(gate *tax.Gate, now func() time.Time, obs middleware.VaultObserver) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		res := gate.CheckAccess(now()) // Ask the gate for the current instant
		if obs != nil {
			obs.ObserveVaultCheck(res.Allowed)
		}
		response.WriteSuccess(c, http.StatusOK, "Vault access checked", res)
	}
}

// VaultReleaseHandler returns the releasable vault amount. It must sit behind VaultGuard.
func VaultReleaseHandler(repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		acc, err := repo.GetAccount(c.Request.Context(), userID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		response.WriteSuccess(c, http.StatusOK, "Tax vault is open", VaultReleaseResponse{Releasable: acc.TaxVault})
	}
}

package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Current time for the gate

	"github.com/gin-gonic/gin" // Gin web framework

	"gig_ledger/internal/tax" // Vault access gate
	"gig_ledger/pkg/response" // Response envelope
)

// VaultObserver counts gate decisions
type VaultObserver interface {
	ObserveVaultCheck(allowed bool)
}

// VaultGuard rejects requests with 403 outside the tax season. now and obs may be nil.
func VaultGuard(gate *tax.Gate, now func() time.Time, obs VaultObserver) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		res := gate.CheckAccess(now()) // Ask the gate for the current instant
		if obs != nil {
			obs.ObserveVaultCheck(res.Allowed)
		}
		if !res.Allowed {
			Logger(c).WithField("path", c.FullPath()).Info("Tax vault access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(res.Reason, tax.ErrVaultAccessDenied.Error()))
			return
		}
		c.Next()
	}
}

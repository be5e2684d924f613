package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"gig_ledger/internal/domain"     // Importing domain models
	"gig_ledger/internal/repository" // User lookup
	"gig_ledger/pkg/response"        // Response envelope
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Unauthorized", ""))
			return
		}
		user, err := repo.FindUserByID(c.Request.Context(), userID) // Fetch user from database
		// If user not found or any error, or the role is not admin, abort with forbidden status
		if err != nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("Admin access required", ""))
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}

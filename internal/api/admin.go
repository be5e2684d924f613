package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // Cache key building
	"time"     // Date filters

	"github.com/gin-gonic/gin" // Gin web framework

	"gig_ledger/internal/domain"     // Importing domain models
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/utils"      // Cache
	"gig_ledger/pkg/response"        // Response envelope
)

// adminPage is what the admin handlers keep in Redis
type adminPage[T any] struct {
	Items []T           `json:"items"`
	Meta  response.Meta `json:"meta"`
}

// ListUsersHandler returns all users with their balances
func ListUsersHandler(repo repository.Repository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := pageFromQuery(c, repository.DefaultPageSize)
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + strconv.Itoa(page.Number) + ":size=" + strconv.Itoa(page.Size)
		var cached adminPage[UserView]
		// If cached data found, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			response.WriteSuccessWithMeta(c, http.StatusOK, "Users fetched successfully", gin.H{"users": cached.Items, "cached": true}, &cached.Meta)
			return
		}
		users, total, err := repo.ListUsers(ctx, page) // Paginated users with accounts
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		// Map users to response format
		views := make([]UserView, len(users))
		for i := range users {
			views[i] = newUserView(&users[i])
		}
		meta := pageMeta(page, total)
		_ = cache.Set(ctx, cacheKey, adminPage[UserView]{Items: views, Meta: *meta}) // Cache the response for future requests
		response.WriteSuccessWithMeta(c, http.StatusOK, "Users fetched successfully", gin.H{"users": views, "cached": false}, meta)
	}
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// ListIncomeHandler returns income rows of all users, filtered by user, status or date
func ListIncomeHandler(repo repository.Repository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := pageFromQuery(c, repository.DefaultPageSize)
		var filter repository.IncomeFilter
		var errs []string
		if raw := c.Query("user_id"); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 64); err == nil && v > 0 {
				filter.UserID = uint(v) // Filter by user ID
			} else {
				errs = append(errs, "user_id must be a positive integer")
			}
		}
		switch status := domain.IncomeStatus(c.Query("status")); status {
		case "":
		case domain.IncomeSuccess, domain.IncomeFailed:
			filter.Status = status // Filter by status
		default:
			errs = append(errs, "status must be success or failed")
		}
		if raw := c.Query("from"); raw != "" {
			if t, err := parseDate(raw); err == nil {
				filter.From = t // Filter by start date
			} else {
				errs = append(errs, "from must be a date")
			}
		}
		if raw := c.Query("to"); raw != "" {
			if t, err := parseDate(raw); err == nil {
				filter.To = t // Filter by end date
			} else {
				errs = append(errs, "to must be a date")
			}
		}
		if len(errs) > 0 {
			response.WriteValidation(c, http.StatusBadRequest, "Invalid query", errs)
			return
		}
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"user_id", "status", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.Query(k)) // Append key-value pair
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page.Number), "size="+strconv.Itoa(page.Size))
		cacheKey := "admin:income:" + strings.Join(keyParts, ":")
		var cached adminPage[domain.IncomeTransaction]
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			response.WriteSuccessWithMeta(c, http.StatusOK, "Income fetched successfully", gin.H{"transactions": cached.Items, "cached": true}, &cached.Meta)
			return
		}
		txs, total, err := repo.ListIncome(ctx, filter, page)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		if txs == nil {
			txs = []domain.IncomeTransaction{}
		}
		meta := pageMeta(page, total)
		_ = cache.Set(ctx, cacheKey, adminPage[domain.IncomeTransaction]{Items: txs, Meta: *meta})
		response.WriteSuccessWithMeta(c, http.StatusOK, "Income fetched successfully", gin.H{"transactions": txs, "cached": false}, meta)
	}
}

package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values

	"gig_ledger/internal/domain"     // Importing domain models
	"gig_ledger/internal/middleware" // Auth helpers
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/utils"      // Cache
	"gig_ledger/pkg/response"        // Response envelope
)

// HistoryPageSize is the default page size of the user history endpoints
const HistoryPageSize = 5

// WalletResponse represents the balances of the current user
type WalletResponse struct {
	WalletBalance decimal.Decimal `json:"walletBalance"` // Spendable balance
	TaxVault      decimal.Decimal `json:"taxVault"`      // Reserved tax
	HealthScore   int             `json:"healthScore"`   // Financial health score
	Cached        bool            `json:"cached"`        // Served from cache
}

// cachedPage is what the history handlers keep in Redis
type cachedPage[T any] struct {
	Items []T           `json:"items"`
	Meta  response.Meta `json:"meta"`
}

// GetWalletHandler retrieves the balances of the current user
func GetWalletHandler(repo repository.Repository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		ctx := c.Request.Context()
		// Take the cache version before reading the database
		version, cacheOK := cache.UserVersion(ctx, userID)
		cacheKey := utils.AccountKey(userID, version) // Cache key for the account
		var wallet WalletResponse
		// Try to get cached balances
		if found, err := cache.Get(ctx, cacheKey, &wallet); cacheOK && err == nil && found {
			wallet.Cached = true // Indicate response is from cache
			response.WriteSuccess(c, http.StatusOK, "Wallet fetched successfully", wallet)
			return
		}
		acc, err := repo.GetAccount(ctx, userID) // Fetch account from database
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		wallet = WalletResponse{
			WalletBalance: acc.WalletBalance,
			TaxVault:      acc.TaxVault,
			HealthScore:   acc.HealthScore,
		}
		if cacheOK {
			_ = cache.Set(ctx, cacheKey, wallet) // Cache the balances
		}
		response.WriteSuccess(c, http.StatusOK, "Wallet fetched successfully", wallet)
	}
}

// TopUpHistoryHandler returns the paginated top-up history of the current user
func TopUpHistoryHandler(repo repository.Repository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		ctx := c.Request.Context()
		page := pageFromQuery(c, HistoryPageSize)
		version, cacheOK := cache.UserVersion(ctx, userID)
		cacheKey := utils.HistoryKey(userID, version, "topups", page.Number, page.Size)
		var cached cachedPage[domain.TopUp]
		// If cached data found, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); cacheOK && err == nil && found {
			response.WriteSuccessWithMeta(c, http.StatusOK, "Top-ups fetched successfully", gin.H{"topups": cached.Items}, &cached.Meta)
			return
		}
		items, total, err := repo.ListTopUps(ctx, userID, page)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		if items == nil {
			items = []domain.TopUp{} // Render an empty page as []
		}
		meta := pageMeta(page, total)
		if cacheOK {
			_ = cache.Set(ctx, cacheKey, cachedPage[domain.TopUp]{Items: items, Meta: *meta})
		}
		response.WriteSuccessWithMeta(c, http.StatusOK, "Top-ups fetched successfully", gin.H{"topups": items}, meta)
	}
}

// IncomeHistoryHandler returns the paginated income history of the current user
func IncomeHistoryHandler(repo repository.Repository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			response.WriteError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		ctx := c.Request.Context()
		page := pageFromQuery(c, HistoryPageSize)
		version, cacheOK := cache.UserVersion(ctx, userID)
		cacheKey := utils.HistoryKey(userID, version, "income", page.Number, page.Size)
		var cached cachedPage[domain.IncomeTransaction]
		if found, err := cache.Get(ctx, cacheKey, &cached); cacheOK && err == nil && found {
			response.WriteSuccessWithMeta(c, http.StatusOK, "Income history fetched successfully", gin.H{"transactions": cached.Items}, &cached.Meta)
			return
		}
		items, total, err := repo.ListIncome(ctx, repository.IncomeFilter{UserID: userID}, page)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		if items == nil {
			items = []domain.IncomeTransaction{}
		}
		meta := pageMeta(page, total)
		if cacheOK {
			_ = cache.Set(ctx, cacheKey, cachedPage[domain.IncomeTransaction]{Items: items, Meta: *meta})
		}
		response.WriteSuccessWithMeta(c, http.StatusOK, "Income history fetched successfully", gin.H{"transactions": items}, meta)
	}
}

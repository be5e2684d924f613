package api

import (
	"net/http" // HTTP status codes
	"time"     // Clock

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values

	"gig_ledger/internal/ledger"     // Income ledger
	"gig_ledger/internal/metrics"    // Prometheus collector
	"gig_ledger/internal/middleware" // Custom middleware
	"gig_ledger/internal/repository" // Persistence contract
	"gig_ledger/internal/tax"        // Vault access gate
	"gig_ledger/internal/utils"      // Cache
	"gig_ledger/pkg/validation"      // Decimal binding support
)

// Deps are the shared clients the routes are built from
type Deps struct {
	Repo       repository.Repository
	Ledger     *ledger.IncomeLedger
	Gate       *tax.Gate
	Cache      *utils.Cache       // Optional
	Metrics    *metrics.Collector // Optional, enables /metrics
	JWTSecret  string
	MaxDeposit decimal.Decimal
	Now        func() time.Time // Defaults to time.Now
}

// NewRouter registers every route on a new gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	// Numeric binding tags on decimal fields
	if err := validation.RegisterDecimal(); err != nil {
		return nil, err
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	var vaultObs middleware.VaultObserver
	if d.Metrics != nil {
		vaultObs = d.Metrics
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler())) // Prometheus scrape endpoint
	}

	// Auth routes
	r.POST("/user", RegisterHandler(d.Repo))                 // Registration endpoint
	r.POST("/user/login", LoginHandler(d.Repo, d.JWTSecret)) // Login endpoint

	// Routes protected by JWT
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(d.JWTSecret))
	income := IncomeHandler(d.Ledger, d.Cache, d.MaxDeposit)
	auth.POST("/income", income)                                                    // Income deposit endpoint
	auth.PATCH("/user", UpdateUserHandler(d.Repo, d.Ledger, d.Cache, d.MaxDeposit)) // Profile update endpoint

	walletGroup := auth.Group("/wallet")
	walletGroup.GET("", GetWalletHandler(d.Repo, d.Cache))            // Balances endpoint
	walletGroup.POST("/income", income)                               // Deposit alias under /wallet
	walletGroup.GET("/income", IncomeHistoryHandler(d.Repo, d.Cache)) // Income history endpoint
	walletGroup.GET("/topups", TopUpHistoryHandler(d.Repo, d.Cache))  // Top-up history endpoint

	vaultGroup := auth.Group("/vault")
	vaultGroup.GET("/access", VaultAccessHandler(d.Gate, d.Now, vaultObs))                                  // Gate decision endpoint
	vaultGroup.GET("/release", middleware.VaultGuard(d.Gate, d.Now, vaultObs), VaultReleaseHandler(d.Repo)) // Guarded release endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.Repo))
	adminGroup.GET("/users", ListUsersHandler(d.Repo, d.Cache))   // List users endpoint
	adminGroup.GET("/income", ListIncomeHandler(d.Repo, d.Cache)) // List income endpoint

	return r, nil
}

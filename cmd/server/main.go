package main

import (
	"context"   // Shutdown deadline and Redis ping
	"errors"    // Error comparison
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Logrus for structured logging

	"gig_ledger/internal/api"                 // Custom package for API handlers
	"gig_ledger/internal/config"              // Custom package for configuration
	"gig_ledger/internal/db"                  // Database connection
	"gig_ledger/internal/ledger"              // Income ledger
	"gig_ledger/internal/metrics"             // Prometheus collector
	"gig_ledger/internal/repository"          // Persistence contract
	"gig_ledger/internal/repository/gormrepo" // MySQL store
	"gig_ledger/internal/repository/memory"   // In-process store
	"gig_ledger/internal/tax"                 // Tax split and vault gate
	"gig_ledger/internal/utils"               // Cache
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(cfg.LogLevel)

	// Amounts are written as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Setup the store
	var repo repository.Repository
	switch cfg.DBDriver {
	case config.DriverMySQL:
		gdb, err := db.Open(cfg)
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		repo = gormrepo.New(gdb)
	case config.DriverMemory:
		logrus.Warn("Using the in-memory store, data is lost on restart")
		repo = memory.New()
	default:
		logrus.Fatalf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	// Setup Redis client, caching is off when REDIS_ADDR is empty
	var cache *utils.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer redisClient.Close()
		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewCache(redisClient, cfg.CacheTTL)
	}

	collector := metrics.NewCollector()

	splitter, err := tax.NewSplitter(cfg.TaxRate)
	if err != nil {
		logrus.Fatalf("invalid TAX_RATE: %v", err)
	}
	gate, err := tax.NewGate(tax.Policy{Month: cfg.VaultSeasonMonth, Location: cfg.VaultLocation})
	if err != nil {
		logrus.Fatalf("invalid vault policy: %v", err)
	}

	incomeLedger := ledger.New(repo, splitter, ledger.Options{
		WalletCap:      cfg.WalletCap,
		LockTimeout:    cfg.LedgerLockTimeout,
		RecordFailures: cfg.RecordFailedDeposits,
		Recorder:       collector,
		Logger:         logrus.StandardLogger(),
	})

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Repo:       repo,
		Ledger:     incomeLedger,
		Gate:       gate,
		Cache:      cache,
		Metrics:    collector,
		JWTSecret:  cfg.JWTSecret,
		MaxDeposit: cfg.MaxDeposit,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":      cfg.AppPort,
			"db_driver": cfg.DBDriver,
			"tax_rate":  splitter.Rate().String(),
			"vault":     cfg.VaultSeasonMonth.String(),
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	logrus.Info("Server stopped")
}

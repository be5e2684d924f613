package config

import (
	"fmt"           // For error wrapping
	"os"            // For environment variables
	"strconv"       // For string to int conversion
	"time"          // For durations and time zones
	_ "time/tzdata" // Embedded zone database for VAULT_TIMEZONE

	"github.com/joho/godotenv"      // For loading .env files
	"github.com/shopspring/decimal" // For money settings
	"github.com/sirupsen/logrus"    // For log level parsing

	"gig_ledger/internal/tax" // Month parsing and default tax rate
)

// Storage drivers
const (
	DriverMySQL  = "mysql"  // GORM + MySQL
	DriverMemory = "memory" // In-process store, data is lost on restart
)

// Config holds the application configuration
type Config struct {
	AppPort  string       // Application port
	IsProd   bool         // Is production environment
	LogLevel logrus.Level // Minimum log level

	DBDriver          string        // mysql or memory
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBMaxOpenConns    int           // Pool size
	DBMaxIdleConns    int           // Idle connections kept
	DBConnMaxLifetime time.Duration // Connection recycle age

	JWTSecret string // JWT secret key

	RedisAddr string        // Redis server address, empty disables caching
	RedisPass string        // Redis password
	RedisDB   int           // Redis database number
	CacheTTL  time.Duration // Read cache TTL

	TaxRate              decimal.Decimal // Share withheld into the tax vault
	WalletCap            decimal.Decimal // Maximum wallet balance
	MaxDeposit           decimal.Decimal // Maximum single deposit accepted over HTTP
	VaultSeasonMonth     time.Month      // Month in which the tax vault is released
	VaultLocation        *time.Location  // Time zone the season month is evaluated in
	LedgerLockTimeout    time.Duration   // Upper bound for one deposit unit of work
	RecordFailedDeposits bool            // Persist failed income rows for rejected deposits
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		IsProd:            os.Getenv("IS_PROD") == "true",
		DBDriver:          getEnv("DB_DRIVER", DriverMySQL),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBName:            os.Getenv("DB_NAME"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
	}
	cfg.RecordFailedDeposits = os.Getenv("RECORD_FAILED_DEPOSITS") == "true"

	var err error

	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.DBConnMaxLifetime, err = time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "1h")); err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "60s")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.LedgerLockTimeout, err = time.ParseDuration(getEnv("LEDGER_LOCK_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("LEDGER_LOCK_TIMEOUT: %w", err)
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", tax.DefaultRate.String())); err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	if err = tax.ValidateRate(cfg.TaxRate); err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	if cfg.WalletCap, err = getEnvAsPositiveDecimal("WALLET_CAP", "1000000"); err != nil {
		return nil, err
	}
	if cfg.MaxDeposit, err = getEnvAsPositiveDecimal("MAX_DEPOSIT", "100000"); err != nil {
		return nil, err
	}
	if cfg.VaultSeasonMonth, err = tax.ParseMonth(getEnv("VAULT_SEASON_MONTH", "April")); err != nil {
		return nil, fmt.Errorf("VAULT_SEASON_MONTH: %w", err)
	}
	if cfg.VaultLocation, err = time.LoadLocation(getEnv("VAULT_TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("VAULT_TIMEZONE: %w", err)
	}

	if cfg.DBDriver != DriverMySQL && cfg.DBDriver != DriverMemory {
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	return cfg, nil
}

// DSN returns the MySQL Data Source Name. clientFoundRows makes RowsAffected
// count matched rows, so a no-op update still reports the row.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC&clientFoundRows=true"
}

// getEnv returns the value of the environment variable or a default value if not set
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt returns the value of the environment variable as an integer or a default value if not set
func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsPositiveDecimal parses a money setting that must be greater than zero
func getEnvAsPositiveDecimal(key, defaultVal string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, defaultVal))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

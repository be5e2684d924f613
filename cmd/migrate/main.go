package main

import (
	"github.com/sirupsen/logrus" // Logging

	"gig_ledger/internal/config" // Custom import path (Config)
	"gig_ledger/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if cfg.DBDriver != config.DriverMySQL {
		logrus.Fatalf("migrations need DB_DRIVER=%s, got %s", config.DriverMySQL, cfg.DBDriver)
	}

	gdb, err := db.Open(cfg) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}

package db

import (
	"fmt" // Error wrapping

	"github.com/sirupsen/logrus" // Logging

	"gorm.io/gorm" // GORM ORM library

	"gig_ledger/internal/domain" // Importing domain models
)

// Models lists every table owned by the service, in dependency order
var Models = []any{
	&domain.User{},
	&domain.Account{},
	&domain.IncomeTransaction{},
	&domain.TopUp{},
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

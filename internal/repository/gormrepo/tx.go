package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
)

type gormTx struct {
	db *gorm.DB
}

// LockAccount reads the account with SELECT ... FOR UPDATE. Concurrent
// deposits for the same user block here until the holder commits or rolls
// back, so the cap check always sees the latest committed balance.
func (t *gormTx) LockAccount(ctx context.Context, userID uint) (*domain.Account, error) {
	var acc domain.Account

	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}

		return nil, fmt.Errorf("lock/get account: %w", err)
	}

	return &acc, nil
}

func (t *gormTx) UpdateBalances(ctx context.Context, acc *domain.Account) error {
	res := t.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", acc.ID).
		Updates(map[string]any{
			"wallet_balance": acc.WalletBalance,
			"tax_vault":      acc.TaxVault,
		})
	if res.Error != nil {
		return fmt.Errorf("update balances: %w", res.Error)
	}

	return nil
}

func (t *gormTx) InsertIncome(ctx context.Context, rec *domain.IncomeTransaction) error {
	if err := t.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert income transaction: %w", err)
	}

	return nil
}

func (t *gormTx) InsertTopUp(ctx context.Context, rec *domain.TopUp) error {
	if err := t.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert top-up: %w", err)
	}

	return nil
}

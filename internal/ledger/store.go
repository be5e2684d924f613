package ledger

import (
	"context"

	"gig_ledger/internal/domain"
)

// Store runs a unit of work atomically. If fn returns an error every write
// made through tx is discarded.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the view of the store inside one unit of work.
type Tx interface {
	// LockAccount loads the user's account and holds an exclusive lock on it
	// until the unit of work ends. Returns ErrAccountNotFound if absent.
	LockAccount(ctx context.Context, userID uint) (*domain.Account, error)
	UpdateBalances(ctx context.Context, acc *domain.Account) error
	// InsertIncome assigns rec.ID.
	InsertIncome(ctx context.Context, rec *domain.IncomeTransaction) error
	InsertTopUp(ctx context.Context, rec *domain.TopUp) error
}

// Recorder receives one observation per processed deposit.
type Recorder interface {
	ObserveDeposit(outcome string, seconds float64)
}

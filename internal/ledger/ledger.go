// Package ledger applies income deposits: it splits the gross amount, credits
// wallet and tax vault, and appends the audit rows in one atomic unit of work.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/tax"
)

// DefaultWalletCap is the maximum wallet balance after any deposit.
var DefaultWalletCap = decimal.NewFromInt(1_000_000)

const DefaultLockTimeout = 5 * time.Second

// Options tune an IncomeLedger. Zero values fall back to defaults.
type Options struct {
	WalletCap decimal.Decimal
	// LockTimeout bounds the whole unit of work, lock wait included.
	// Negative disables the bound.
	LockTimeout time.Duration
	// RecordFailures appends a failed income row when a deposit is rejected
	// by the wallet cap.
	RecordFailures bool
	Recorder       Recorder
	Logger         *logrus.Logger
	Now            func() time.Time
}

// Deposit is one gross income deposit.
type Deposit struct {
	UserID      uint
	Amount      decimal.Decimal
	Source      string
	Description string
}

// Result is returned for a committed deposit.
type Result struct {
	WalletBalance decimal.Decimal
	TaxVault      decimal.Decimal
	Transaction   domain.IncomeTransaction
	TopUp         domain.TopUp
}

// IncomeLedger is safe for concurrent use; serialization per user is the
// store's row lock.
type IncomeLedger struct {
	store    Store
	splitter *tax.Splitter
	opts     Options
	log      *logrus.Logger
}

func New(store Store, splitter *tax.Splitter, opts Options) *IncomeLedger {
	if opts.WalletCap.IsZero() {
		opts.WalletCap = DefaultWalletCap
	}

	if opts.LockTimeout == 0 {
		opts.LockTimeout = DefaultLockTimeout
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &IncomeLedger{store: store, splitter: splitter, opts: opts, log: log}
}

// WalletCap returns the configured cap.
func (l *IncomeLedger) WalletCap() decimal.Decimal {
	return l.opts.WalletCap
}

// Process deposits amount for userID with no metadata.
func (l *IncomeLedger) Process(ctx context.Context, userID uint, amount decimal.Decimal) (*Result, error) {
	return l.ProcessDeposit(ctx, Deposit{UserID: userID, Amount: amount})
}

// ProcessDeposit runs the deposit as a single unit of work:
//
// 1) Validate the amount and split it into tax and net.
// 2) Lock the account row.
// 3) Check the wallet cap against the locked balance.
// 4) Update balances, insert the income row and the top-up row.
// 5) Commit.
//
// Any error leaves balances and history untouched. Errors are one of
// ErrInvalidAmount, ErrAccountNotFound, ErrWalletLimitExceeded or
// ErrStorageFailure.
func (l *IncomeLedger) ProcessDeposit(ctx context.Context, d Deposit) (*Result, error) {
	start := time.Now()

	res, err := l.process(ctx, d)

	l.observe(outcomeOf(err), time.Since(start))

	fields := logrus.Fields{
		"user_id": d.UserID,
		"amount":  d.Amount.String(),
	}

	if err != nil {
		fields["error"] = err.Error()

		if outcomeOf(err) == OutcomeStorage {
			l.log.WithFields(fields).Error("Income deposit failed")
		} else {
			l.log.WithFields(fields).Warn("Income deposit rejected")
		}

		return nil, err
	}

	fields["tax_amount"] = res.Transaction.TaxAmount.String()
	fields["net_amount"] = res.Transaction.NetAmount.String()
	fields["transaction_id"] = res.Transaction.ID
	l.log.WithFields(fields).Info("Income deposit processed")

	return res, nil
}

func (l *IncomeLedger) process(ctx context.Context, d Deposit) (*Result, error) {
	// 1) Validate and split, before any lock is taken
	split, err := l.splitter.Split(d.Amount)
	if err != nil {
		return nil, err
	}

	if l.opts.LockTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, l.opts.LockTimeout)
		defer cancel()
	}

	var (
		res      Result
		rejected *domain.IncomeTransaction
	)

	err = l.store.WithinTx(ctx, func(tx Tx) error {
		// 2) Lock account
		acc, err := tx.LockAccount(ctx, d.UserID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return err
			}

			return fmt.Errorf("lock account: %w", err)
		}

		now := l.opts.Now().UTC()

		income := domain.IncomeTransaction{
			UserID:      d.UserID,
			TotalAmount: d.Amount,
			TaxAmount:   split.Tax,
			NetAmount:   split.Net,
			Date:        now,
			Status:      domain.IncomeSuccess,
			Source:      d.Source,
			Description: d.Description,
		}

		// 3) Cap check against the locked balance
		newWallet := acc.WalletBalance.Add(split.Net)
		if newWallet.GreaterThan(l.opts.WalletCap) {
			limitErr := fmt.Errorf("%w (%s)", ErrWalletLimitExceeded, l.opts.WalletCap.StringFixed(2))

			income.Status = domain.IncomeFailed
			income.FailureReason = limitErr.Error()
			rejected = &income

			return limitErr
		}

		// 4) Apply
		acc.WalletBalance = newWallet
		acc.TaxVault = acc.TaxVault.Add(split.Tax)

		err = tx.UpdateBalances(ctx, acc)
		if err != nil {
			return fmt.Errorf("update balances: %w", err)
		}

		err = tx.InsertIncome(ctx, &income)
		if err != nil {
			return fmt.Errorf("insert income transaction: %w", err)
		}

		topUp := domain.TopUp{
			UserID:              d.UserID,
			IncomeTransactionID: income.ID,
			Amount:              split.Net,
			Status:              domain.IncomeSuccess,
			Date:                now,
		}

		err = tx.InsertTopUp(ctx, &topUp)
		if err != nil {
			return fmt.Errorf("insert top-up: %w", err)
		}

		res = Result{
			WalletBalance: acc.WalletBalance,
			TaxVault:      acc.TaxVault,
			Transaction:   income,
			TopUp:         topUp,
		}

		return nil
	})
	if err != nil {
		if rejected != nil && l.opts.RecordFailures {
			l.recordFailure(ctx, rejected)
		}

		return nil, classify(err)
	}

	return &res, nil
}

// classify keeps business errors as they are, so their message can be shown
// verbatim, and folds everything else into ErrStorageFailure.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrWalletLimitExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
}

// recordFailure appends the rejected attempt in its own unit of work. The
// deposit error is what the caller sees; a failure here is only logged.
func (l *IncomeLedger) recordFailure(ctx context.Context, rec *domain.IncomeTransaction) {
	err := l.store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertIncome(ctx, rec)
	})
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"user_id": rec.UserID,
			"error":   err.Error(),
		}).Error("Failed to record rejected deposit")
	}
}

func (l *IncomeLedger) observe(outcome string, d time.Duration) {
	if l.opts.Recorder != nil {
		l.opts.Recorder.ObserveDeposit(outcome, d.Seconds())
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
	"gig_ledger/internal/repository"
)

func TestStore_CreateUser(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &domain.User{Name: "Asha", Email: "Asha@Example.com", Password: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))

	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, domain.DefaultHealthScore, u.Account.HealthScore)
	assert.True(t, u.Account.WalletBalance.IsZero())

	err := s.CreateUser(ctx, &domain.User{Name: "Dup", Email: "asha@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	found, err := s.FindUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.FindUserByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_UpdateUserName(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &domain.User{Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.UpdateUserName(ctx, u.ID, "Asha K"))

	got, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)

	assert.ErrorIs(t, s.UpdateUserName(ctx, 42, "x"), repository.ErrUserNotFound)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &domain.User{Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx ledger.Tx) error {
		acc, err := tx.LockAccount(ctx, u.ID)
		require.NoError(t, err)

		acc.WalletBalance = decimal.NewFromInt(50)
		require.NoError(t, tx.UpdateBalances(ctx, acc))
		require.NoError(t, tx.InsertIncome(ctx, &domain.IncomeTransaction{UserID: u.ID}))

		return boom
	})
	require.ErrorIs(t, err, boom)

	acc, err := s.GetAccount(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, acc.WalletBalance.IsZero())

	rows, total, err := s.ListIncome(ctx, repository.IncomeFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)

	// The lock is released after rollback.
	err = s.WithinTx(ctx, func(tx ledger.Tx) error {
		_, err := tx.LockAccount(ctx, u.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestStore_LockAccountMissing(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.WithinTx(ctx, func(tx ledger.Tx) error {
		_, err := tx.LockAccount(ctx, 7)
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestStore_ListIncomeFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	err := s.WithinTx(ctx, func(tx ledger.Tx) error {
		for i := 0; i < 5; i++ {
			status := domain.IncomeSuccess
			if i == 4 {
				status = domain.IncomeFailed
			}

			rec := &domain.IncomeTransaction{
				UserID: uint(1 + i%2),
				Date:   base.AddDate(0, 0, i),
				Status: status,
			}
			if err := tx.InsertIncome(ctx, rec); err != nil {
				return err
			}

			if err := tx.InsertTopUp(ctx, &domain.TopUp{UserID: rec.UserID, IncomeTransactionID: rec.ID, Date: rec.Date}); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	rows, total, err := s.ListIncome(ctx, repository.IncomeFilter{UserID: 1}, repository.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.After(rows[1].Date), "newest first")

	rows, total, err = s.ListIncome(ctx, repository.IncomeFilter{Status: domain.IncomeFailed}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.IncomeFailed, rows[0].Status)

	rows, _, err = s.ListIncome(ctx, repository.IncomeFilter{From: base.AddDate(0, 0, 3)}, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	topUps, total, err := s.ListTopUps(ctx, 2, repository.Page{Number: 2, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, topUps, 1)
	assert.Equal(t, base.AddDate(0, 0, 1), topUps[0].Date)

	topUps, _, err = s.ListTopUps(ctx, 2, repository.Page{Number: 9, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, topUps)
}

func TestPage(t *testing.T) {
	p := repository.Page{Number: 0, Size: 500}.Normalize()
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, repository.MaxPageSize, p.Size)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 3, repository.Page{Size: 5}.TotalPages(11))
	assert.Equal(t, 0, repository.Page{Size: 5}.TotalPages(0))
}

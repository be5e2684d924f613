package gormrepo

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
	"gig_ledger/internal/repository"
	"gig_ledger/internal/tax"
)

const (
	lockAccountSQL = "SELECT \\* FROM `accounts` WHERE user_id = \\?.*FOR UPDATE"
	updateAcctSQL  = "UPDATE `accounts` SET"
	insertIncome   = "INSERT INTO `income_transactions`"
	insertTopUp    = "INSERT INTO `wallet_topups`"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(gdb), mock
}

func newLedger(t *testing.T, repo *Repo) *ledger.IncomeLedger {
	t.Helper()

	splitter, err := tax.NewSplitter(tax.DefaultRate)
	require.NoError(t, err)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	return ledger.New(repo, splitter, ledger.Options{Logger: quiet})
}

func accountRows(userID uint, wallet, vault string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "wallet_balance", "tax_vault", "health_score", "updated_at"}).
		AddRow(3, userID, wallet, vault, 100, time.Now())
}

func TestTxOptions_ReadCommitted(t *testing.T) {
	assert.Equal(t, sql.LevelReadCommitted, txOptions.Isolation)
	assert.False(t, txOptions.ReadOnly)
}

func TestDeposit_LocksRowAndCommits(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountSQL).WillReturnRows(accountRows(7, "100.0000", "15.0000"))
	mock.ExpectExec(updateAcctSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertIncome).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(insertTopUp).WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	res, err := newLedger(t, repo).Process(context.Background(), 7, decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, res.WalletBalance.Equal(decimal.NewFromInt(950)), "wallet %s", res.WalletBalance)
	assert.True(t, res.TaxVault.Equal(decimal.NewFromInt(165)), "vault %s", res.TaxVault)
	assert.EqualValues(t, 11, res.Transaction.ID)
	assert.EqualValues(t, 11, res.TopUp.IncomeTransactionID)
	assert.EqualValues(t, 21, res.TopUp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeposit_FailedTopUpRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountSQL).WillReturnRows(accountRows(7, "100.0000", "15.0000"))
	mock.ExpectExec(updateAcctSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertIncome).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(insertTopUp).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := newLedger(t, repo).Process(context.Background(), 7, decimal.NewFromInt(1000))
	require.ErrorIs(t, err, ledger.ErrStorageFailure)
	assert.Contains(t, err.Error(), "disk full")

	// No COMMIT may follow: it would be an unexpected call.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeposit_OverCapWritesNothing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountSQL).WillReturnRows(accountRows(7, "999000.0000", "0.0000"))
	mock.ExpectRollback()

	_, err := newLedger(t, repo).Process(context.Background(), 7, decimal.NewFromInt(1200))
	require.ErrorIs(t, err, ledger.ErrWalletLimitExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeposit_MissingAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountSQL).WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	mock.ExpectRollback()

	_, err := newLedger(t, repo).Process(context.Background(), 404, decimal.NewFromInt(100))
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	u := &domain.User{Name: "Asha", Email: "Asha@Example.com", Password: "x"}
	err := repo.CreateUser(context.Background(), u)
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_CreatesAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO `accounts`").WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	u := &domain.User{Name: "Asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	assert.EqualValues(t, 5, u.ID)
	assert.EqualValues(t, 5, u.Account.UserID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserName_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateUserName(context.Background(), 99, "Nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Package repository defines the persistence contract shared by the GORM
// store and the in-memory store.
package repository

import (
	"context"
	"errors"
	"time"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}

	if p.Size < 1 {
		p.Size = DefaultPageSize
	}

	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns the number of pages needed for total rows.
func (p Page) TotalPages(total int64) int {
	if p.Size < 1 {
		return 0
	}

	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// IncomeFilter narrows income listings. Zero fields do not filter.
type IncomeFilter struct {
	UserID uint
	Status domain.IncomeStatus
	From   time.Time
	To     time.Time
}

// Repository is everything the HTTP layer and the ledger need from storage.
type Repository interface {
	ledger.Store

	// CreateUser inserts u together with its zero-balance account.
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id uint) (*domain.User, error)
	UpdateUserName(ctx context.Context, id uint, name string) error

	// GetAccount reads without locking. Returns ledger.ErrAccountNotFound.
	GetAccount(ctx context.Context, userID uint) (*domain.Account, error)

	ListUsers(ctx context.Context, p Page) ([]domain.User, int64, error)
	ListTopUps(ctx context.Context, userID uint, p Page) ([]domain.TopUp, int64, error)
	ListIncome(ctx context.Context, f IncomeFilter, p Page) ([]domain.IncomeTransaction, int64, error)
}

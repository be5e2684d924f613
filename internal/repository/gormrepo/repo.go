// Package gormrepo is the MySQL-backed Repository.
package gormrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
	"gig_ledger/internal/repository"
)

var _ repository.Repository = (*Repo)(nil)

// Repo expects a *gorm.DB opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// txOptions pins the isolation level. Serialization of deposits comes from
// the row lock taken in LockAccount, not from the isolation level.
var txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// WithinTx runs fn inside a database transaction.
// It commits if fn returns nil, otherwise it rolls back.
func (r *Repo) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	}, txOptions)
}

// --- Users ---

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create user row first, then its account
		if err := tx.Omit("Account").Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return repository.ErrDuplicateEmail
			}

			return fmt.Errorf("create user: %w", err)
		}

		acc := domain.NewAccount(u.ID)
		if err := tx.Create(&acc).Error; err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		u.Account = acc

		return nil
	})
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User

	err := r.db.WithContext(ctx).Preload("Account").
		Where("email = ?", strings.ToLower(email)).
		Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &u, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User

	err := r.db.WithContext(ctx).Preload("Account").Take(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, fmt.Errorf("find user by id: %w", err)
	}

	return &u, nil
}

func (r *Repo) UpdateUserName(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("update user name: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *Repo) ListUsers(ctx context.Context, p repository.Page) ([]domain.User, int64, error) {
	p = p.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []domain.User
	// Preload Account relation, apply offset and limit for pagination
	err := r.db.WithContext(ctx).Preload("Account").
		Order("id asc").
		Offset(p.Offset()).Limit(p.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// --- Accounts and history ---

func (r *Repo) GetAccount(ctx context.Context, userID uint) (*domain.Account, error) {
	var acc domain.Account

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}

		return nil, fmt.Errorf("get account: %w", err)
	}

	return &acc, nil
}

func (r *Repo) ListTopUps(ctx context.Context, userID uint, p repository.Page) ([]domain.TopUp, int64, error) {
	p = p.Normalize()
	query := r.db.WithContext(ctx).Model(&domain.TopUp{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count top-ups: %w", err)
	}

	var rows []domain.TopUp
	err := query.Order("date desc").Order("id desc").
		Offset(p.Offset()).Limit(p.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list top-ups: %w", err)
	}

	return rows, total, nil
}

func (r *Repo) ListIncome(ctx context.Context, f repository.IncomeFilter, p repository.Page) ([]domain.IncomeTransaction, int64, error) {
	p = p.Normalize()
	query := r.db.WithContext(ctx).Model(&domain.IncomeTransaction{})

	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		query = query.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("date <= ?", f.To)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count income: %w", err)
	}

	var rows []domain.IncomeTransaction
	err := query.Order("date desc").Order("id desc").
		Offset(p.Offset()).Limit(p.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list income: %w", err)
	}

	return rows, total, nil
}

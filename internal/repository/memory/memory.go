// Package memory is an in-process Repository. Deposits for the same user are
// serialized by a per-user lock held for the whole unit of work, and writes
// are staged until commit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
	"gig_ledger/internal/repository"
)

var _ repository.Repository = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	users    map[uint]*domain.User
	accounts map[uint]*domain.Account // by user ID
	income   []domain.IncomeTransaction
	topUps   []domain.TopUp

	locksMu sync.Mutex
	locks   map[uint]chan struct{}

	nextUserID    uint
	nextAccountID uint
	nextIncomeID  uint
	nextTopUpID   uint
}

func New() *Store {
	return &Store{
		users:    make(map[uint]*domain.User),
		accounts: make(map[uint]*domain.Account),
		locks:    make(map[uint]chan struct{}),
	}
}

// --- Users ---

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return repository.ErrDuplicateEmail
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	u.Email = email

	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.nextAccountID++
	acc := domain.NewAccount(u.ID)
	acc.ID = s.nextAccountID
	acc.UpdatedAt = now
	u.Account = acc

	stored := *u
	s.users[u.ID] = &stored
	s.accounts[u.ID] = &acc

	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return s.userCopy(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (s *Store) FindUserByID(_ context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return s.userCopy(u), nil
}

func (s *Store) UpdateUserName(_ context.Context, id uint, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	u.Name = name
	u.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *Store) ListUsers(_ context.Context, p repository.Page) ([]domain.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *s.userCopy(u))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return paginate(out, p), int64(len(out)), nil
}

// userCopy must be called with s.mu held.
func (s *Store) userCopy(u *domain.User) *domain.User {
	c := *u
	if acc, ok := s.accounts[u.ID]; ok {
		c.Account = *acc
	}

	return &c
}

// --- Accounts and history ---

func (s *Store) GetAccount(_ context.Context, userID uint) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}

	c := *acc

	return &c, nil
}

func (s *Store) ListTopUps(_ context.Context, userID uint, p repository.Page) ([]domain.TopUp, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TopUp
	for i := len(s.topUps) - 1; i >= 0; i-- {
		if s.topUps[i].UserID == userID {
			out = append(out, s.topUps[i])
		}
	}

	return paginate(out, p), int64(len(out)), nil
}

func (s *Store) ListIncome(_ context.Context, f repository.IncomeFilter, p repository.Page) ([]domain.IncomeTransaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.IncomeTransaction
	for i := len(s.income) - 1; i >= 0; i-- {
		rec := s.income[i]

		switch {
		case f.UserID != 0 && rec.UserID != f.UserID:
			continue
		case f.Status != "" && rec.Status != f.Status:
			continue
		case !f.From.IsZero() && rec.Date.Before(f.From):
			continue
		case !f.To.IsZero() && rec.Date.After(f.To):
			continue
		}

		out = append(out, rec)
	}

	return paginate(out, p), int64(len(out)), nil
}

func paginate[T any](rows []T, p repository.Page) []T {
	p = p.Normalize()

	start := p.Offset()
	if start >= len(rows) {
		return []T{}
	}

	end := start + p.Size
	if end > len(rows) {
		end = len(rows)
	}

	return rows[start:end]
}

package memory

import (
	"context"
	"fmt"
	"time"

	"gig_ledger/internal/domain"
	"gig_ledger/internal/ledger"
)

type memTx struct {
	s      *Store
	held   []chan struct{}
	staged map[uint]domain.Account
	income []domain.IncomeTransaction
	topUps []domain.TopUp
}

// WithinTx runs fn and applies its staged writes only if fn returns nil.
// Account locks taken by fn are released when WithinTx returns.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx := &memTx{s: s, staged: make(map[uint]domain.Account)}
	defer tx.release()

	err := fn(tx)
	if err != nil {
		return err
	}

	return tx.commit(ctx)
}

func (s *Store) userLock(userID uint) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[userID]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[userID] = l
	}

	return l
}

func (t *memTx) LockAccount(ctx context.Context, userID uint) (*domain.Account, error) {
	if acc, ok := t.staged[userID]; ok {
		return &acc, nil
	}

	l := t.s.userLock(userID)

	select {
	case l <- struct{}{}:
		t.held = append(t.held, l)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for account lock: %w", ctx.Err())
	}

	t.s.mu.RLock()
	acc, ok := t.s.accounts[userID]
	t.s.mu.RUnlock()

	if !ok {
		return nil, ledger.ErrAccountNotFound
	}

	c := *acc
	t.staged[userID] = c

	return &c, nil
}

func (t *memTx) UpdateBalances(_ context.Context, acc *domain.Account) error {
	if _, ok := t.staged[acc.UserID]; !ok {
		return fmt.Errorf("account for user %d is not locked", acc.UserID)
	}

	t.staged[acc.UserID] = *acc

	return nil
}

func (t *memTx) InsertIncome(_ context.Context, rec *domain.IncomeTransaction) error {
	t.s.mu.Lock()
	t.s.nextIncomeID++
	rec.ID = t.s.nextIncomeID
	t.s.mu.Unlock()

	t.income = append(t.income, *rec)

	return nil
}

func (t *memTx) InsertTopUp(_ context.Context, rec *domain.TopUp) error {
	t.s.mu.Lock()
	t.s.nextTopUpID++
	rec.ID = t.s.nextTopUpID
	t.s.mu.Unlock()

	t.topUps = append(t.topUps, *rec)

	return nil
}

func (t *memTx) commit(ctx context.Context) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	now := time.Now().UTC()
	for userID, acc := range t.staged {
		acc.UpdatedAt = now
		stored := acc
		t.s.accounts[userID] = &stored
	}

	t.s.income = append(t.s.income, t.income...)
	t.s.topUps = append(t.s.topUps, t.topUps...)

	return nil
}

func (t *memTx) release() {
	for _, l := range t.held {
		<-l
	}

	t.held = nil
}

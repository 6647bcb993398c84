package repository

import (
	"context"
	"sync"
	"time"

	"QuantDesk/internal/domain/repository"
)

// BalanceMutation is one recorded change to an account balance.
type BalanceMutation struct {
	Time    time.Time
	Delta   float64
	Balance float64
	Reason  string
}

type account struct {
	balance float64
	history []BalanceMutation
}

// MemoryBalanceStore keeps account balances in memory. Accounts are
// created lazily with the configured initial balance on first access.
type MemoryBalanceStore struct {
	mu       sync.Mutex
	accounts map[string]*account
	initial  float64
}

var _ repository.BalanceStore = (*MemoryBalanceStore)(nil)

func NewMemoryBalanceStore(initialBalance float64) *MemoryBalanceStore {
	return &MemoryBalanceStore{
		accounts: make(map[string]*account),
		initial:  initialBalance,
	}
}

func (s *MemoryBalanceStore) account(id string) *account {
	acct, ok := s.accounts[id]
	if !ok {
		acct = &account{balance: s.initial}
		s.accounts[id] = acct
	}
	return acct
}

func (s *MemoryBalanceStore) Balance(_ context.Context, accountID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account(accountID).balance, nil
}

func (s *MemoryBalanceStore) AdjustBalance(_ context.Context, accountID string, delta float64, reason string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(accountID)
	acct.balance += delta
	acct.history = append(acct.history, BalanceMutation{
		Time:    time.Now().UTC(),
		Delta:   delta,
		Balance: acct.balance,
		Reason:  reason,
	})
	return acct.balance, nil
}

// History returns a copy of the mutation log for an account.
func (s *MemoryBalanceStore) History(accountID string) []BalanceMutation {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return nil
	}
	out := make([]BalanceMutation, len(acct.history))
	copy(out, acct.history)
	return out
}

// Package store provides in-memory implementations of the ledger stores.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moneta/ledger-engine/ledger"
)

// =============================================================================
// ACCOUNT STORE
// =============================================================================

type Accounts struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]ledger.Account
}

func NewAccounts() *Accounts {
	return &Accounts{accounts: make(map[uuid.UUID]ledger.Account)}
}

func (s *Accounts) Save(_ context.Context, account ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

func (s *Accounts) FindByID(_ context.Context, id uuid.UUID) (ledger.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	return account, ok, nil
}

func (s *Accounts) FindAll(_ context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ledger.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		result = append(result, account)
	}
	return result, nil
}

func (s *Accounts) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	return true, nil
}

func (s *Accounts) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[uuid.UUID]ledger.Account)
	return nil
}

// =============================================================================
// CATEGORY STORE
// =============================================================================

type Categories struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]ledger.Category
}

func NewCategories() *Categories {
	return &Categories{categories: make(map[uuid.UUID]ledger.Category)}
}

func (s *Categories) Save(_ context.Context, category ledger.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = category
	return nil
}

func (s *Categories) FindByID(_ context.Context, id uuid.UUID) (ledger.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	return category, ok, nil
}

func (s *Categories) FindAll(_ context.Context) ([]ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ledger.Category, 0, len(s.categories))
	for _, category := range s.categories {
		result = append(result, category)
	}
	return result, nil
}

func (s *Categories) FindByKind(_ context.Context, kind ledger.OperationKind) ([]ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []ledger.Category
	for _, category := range s.categories {
		if category.Kind == kind {
			result = append(result, category)
		}
	}
	return result, nil
}

func (s *Categories) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	return true, nil
}

func (s *Categories) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[uuid.UUID]ledger.Category)
	return nil
}

// =============================================================================
// OPERATION STORE
// =============================================================================

type Operations struct {
	mu         sync.RWMutex
	operations map[uuid.UUID]ledger.Operation

	// order holds ids in insertion order so scans are reproducible.
	// Top-spending ranking breaks ties by first insertion.
	order []uuid.UUID
}

func NewOperations() *Operations {
	return &Operations{operations: make(map[uuid.UUID]ledger.Operation)}
}

func (s *Operations) Save(_ context.Context, op ledger.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.operations[op.ID]; !exists {
		s.order = append(s.order, op.ID)
	}
	s.operations[op.ID] = op
	return nil
}

func (s *Operations) FindByID(_ context.Context, id uuid.UUID) (ledger.Operation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operations[id]
	return op, ok, nil
}

func (s *Operations) FindAll(_ context.Context) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(ledger.Operation) bool { return true }), nil
}

func (s *Operations) FindByAccountID(_ context.Context, accountID uuid.UUID) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(op ledger.Operation) bool { return op.AccountID == accountID }), nil
}

func (s *Operations) FindByCategoryID(_ context.Context, categoryID uuid.UUID) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(op ledger.Operation) bool { return op.CategoryID == categoryID }), nil
}

func (s *Operations) FindByKind(_ context.Context, kind ledger.OperationKind) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(op ledger.Operation) bool { return op.Kind == kind }), nil
}

func (s *Operations) FindByDateRange(_ context.Context, from, to time.Time) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(func(op ledger.Operation) bool {
		return !op.Date.Before(from) && !op.Date.After(to)
	}), nil
}

// filterLocked walks ids in insertion order and copies matching operations.
// Caller must hold at least a read lock.
func (s *Operations) filterLocked(match func(ledger.Operation) bool) []ledger.Operation {
	var result []ledger.Operation
	for _, id := range s.order {
		op, ok := s.operations[id]
		if ok && match(op) {
			result = append(result, op)
		}
	}
	return result
}

func (s *Operations) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operations[id]; !ok {
		return false, nil
	}
	delete(s.operations, id)
	s.compactLocked()
	return true, nil
}

func (s *Operations) DeleteByAccountID(_ context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, op := range s.operations {
		if op.AccountID == accountID {
			delete(s.operations, id)
		}
	}
	s.compactLocked()
	return nil
}

func (s *Operations) DeleteByCategoryID(_ context.Context, categoryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, op := range s.operations {
		if op.CategoryID == categoryID {
			delete(s.operations, id)
		}
	}
	s.compactLocked()
	return nil
}

func (s *Operations) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operations = make(map[uuid.UUID]ledger.Operation)
	s.order = nil
	return nil
}

// compactLocked drops ids whose operations no longer exist.
func (s *Operations) compactLocked() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.operations[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

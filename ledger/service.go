/*
service.go - The ledger service: orchestration and cross-entity rules

PURPOSE:
  The Service is the single write path into the ledger. It composes the
  factories and stores, and owns every rule that spans more than one entity:
  referential integrity, category/operation kind matching, incremental
  balance maintenance, negative-balance rejection, and cascade deletes.

BALANCE INVARIANT:
  account.Balance == sum(income amounts) - sum(expense amounts) over the
  account's current operations. Maintained incrementally at create/delete
  time, never recomputed on read. An expense that would drive the balance
  below zero is rejected before any write.

ATOMICITY SCOPE:
  Each store call is atomic; the check-then-mutate sequence in
  CreateOperation/DeleteOperation and the cascades in DeleteAccount/
  DeleteCategory are not enclosed in a cross-store transaction. Concurrent
  writers against the same account can interleave between the balance check
  and the persisted write.

SEE ALSO:
  - factory.go: Input validation and id generation
  - cache.go: The account store wrapper the Service is usually given
  - analytics.go: Read-only queries, independent of this write path
*/
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the ledger facade. Construct one per store set; stores are
// injected so tests can build isolated instances.
type Service struct {
	accounts   AccountStore
	categories CategoryStore
	operations OperationStore
	timing     TimingHook
}

// Option configures a Service.
type Option func(*Service)

// WithTimingHook installs a hook invoked around every mutating operation.
func WithTimingHook(hook TimingHook) Option {
	return func(s *Service) { s.timing = hook }
}

// NewService builds a Service over the given stores. The account store is
// typically a CachedAccountStore fronting the authoritative store.
func NewService(accounts AccountStore, categories CategoryStore, operations OperationStore, opts ...Option) *Service {
	s := &Service{
		accounts:   accounts,
		categories: categories,
		operations: operations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// CreateAccount validates via the factory and persists the new account.
// A nil initialBalance defaults to zero.
func (s *Service) CreateAccount(ctx context.Context, name string, initialBalance *decimal.Decimal) (_ Account, err error) {
	defer s.observe("CreateAccount", time.Now(), &err)

	account, err := NewAccount(name, initialBalance)
	if err != nil {
		return Account{}, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// UpdateAccount renames an account. A blank newName returns (nil, nil) —
// "nothing matched" — rather than an error. Inherited asymmetry: every other
// validation path fails loudly, renames do not.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, newName string) (_ *Account, err error) {
	defer s.observe("UpdateAccount", time.Now(), &err)

	if strings.TrimSpace(newName) == "" {
		return nil, nil
	}

	account, ok, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "account", ID: id}
	}

	account.Name = newName
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount removes the account and cascades to its operations first.
// Returns false if the account does not exist.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	defer s.observe("DeleteAccount", time.Now(), &err)

	_, ok, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.operations.DeleteByAccountID(ctx, id); err != nil {
		return false, err
	}
	return s.accounts.DeleteByID(ctx, id)
}

// RecalculateBalance folds the account's current operations into a fresh
// balance and persists it. A repair tool for out-of-band drift; the normal
// write path never needs it.
func (s *Service) RecalculateBalance(ctx context.Context, id uuid.UUID) (_ Account, err error) {
	defer s.observe("RecalculateBalance", time.Now(), &err)

	account, ok, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if !ok {
		return Account{}, &NotFoundError{Entity: "account", ID: id}
	}

	ops, err := s.operations.FindByAccountID(ctx, id)
	if err != nil {
		return Account{}, err
	}

	balance := decimal.Zero
	for _, op := range ops {
		if op.Kind == KindIncome {
			balance = balance.Add(op.Amount)
		} else {
			balance = balance.Sub(op.Amount)
		}
	}

	account.Balance = balance
	if err := s.accounts.Save(ctx, account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// Accounts returns a snapshot of all accounts.
func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	return s.accounts.FindAll(ctx)
}

// AccountByID looks up one account.
func (s *Service) AccountByID(ctx context.Context, id uuid.UUID) (Account, bool, error) {
	return s.accounts.FindByID(ctx, id)
}

// =============================================================================
// CATEGORIES
// =============================================================================

// CreateCategory validates via the factory and persists the new category.
func (s *Service) CreateCategory(ctx context.Context, name string, kind OperationKind) (_ Category, err error) {
	defer s.observe("CreateCategory", time.Now(), &err)

	category, err := NewCategory(name, kind)
	if err != nil {
		return Category{}, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// UpdateCategory renames a category. Kind is immutable. Unlike accounts,
// renames are not blank-checked (inherited behavior).
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, newName string) (_ *Category, err error) {
	defer s.observe("UpdateCategory", time.Now(), &err)

	category, ok, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "category", ID: id}
	}

	category.Name = newName
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category and cascades to its operations first.
// Returns false if the category does not exist.
//
// Cascaded operations do NOT reverse their balance effect; the cascade
// removes history, it does not undo it. Matches the account cascade.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	defer s.observe("DeleteCategory", time.Now(), &err)

	_, ok, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.operations.DeleteByCategoryID(ctx, id); err != nil {
		return false, err
	}
	return s.categories.DeleteByID(ctx, id)
}

// Categories returns a snapshot of all categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.categories.FindAll(ctx)
}

// CategoriesByKind returns categories with the given kind.
func (s *Service) CategoriesByKind(ctx context.Context, kind OperationKind) ([]Category, error) {
	return s.categories.FindByKind(ctx, kind)
}

// CategoryByID looks up one category.
func (s *Service) CategoryByID(ctx context.Context, id uuid.UUID) (Category, bool, error) {
	return s.categories.FindByID(ctx, id)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CreateOperation records a transaction and applies it to the account
// balance. Order matters:
//  1. Resolve account and category (NotFound).
//  2. Reject a kind mismatch (InvalidArgument).
//  3. Compute the new balance; reject an expense that would go negative
//     (InvalidState) before any write.
//  4. Persist the operation, then the updated account.
func (s *Service) CreateOperation(ctx context.Context, kind OperationKind, accountID uuid.UUID, amount decimal.Decimal, categoryID uuid.UUID, description string) (_ Operation, err error) {
	defer s.observe("CreateOperation", time.Now(), &err)

	account, ok, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return Operation{}, err
	}
	if !ok {
		return Operation{}, &NotFoundError{Entity: "account", ID: accountID}
	}

	category, ok, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return Operation{}, err
	}
	if !ok {
		return Operation{}, &NotFoundError{Entity: "category", ID: categoryID}
	}

	if category.Kind != kind {
		return Operation{}, &KindMismatchError{
			CategoryID:   categoryID,
			CategoryKind: category.Kind,
			Requested:    kind,
		}
	}

	op, err := NewOperation(kind, accountID, amount, categoryID, description)
	if err != nil {
		return Operation{}, err
	}

	if kind == KindIncome {
		account.Balance = account.Balance.Add(amount)
	} else {
		newBalance := account.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return Operation{}, &NegativeBalanceError{
				AccountID: accountID,
				Balance:   account.Balance,
				Requested: amount,
			}
		}
		account.Balance = newBalance
	}

	if err := s.operations.Save(ctx, op); err != nil {
		return Operation{}, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// DeleteOperation removes a transaction and reverses its balance effect.
// Returns false if the operation does not exist. A missing owning account is
// an integrity violation (InvalidState), not a miss.
//
// The reversal is not re-checked for non-negativity; it can only go negative
// if the stores were mutated out-of-band (inherited behavior).
func (s *Service) DeleteOperation(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	defer s.observe("DeleteOperation", time.Now(), &err)

	op, ok, err := s.operations.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	account, ok, err := s.accounts.FindByID(ctx, op.AccountID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, &missingAccountError{operationID: id, accountID: op.AccountID}
	}

	if op.Kind == KindIncome {
		account.Balance = account.Balance.Sub(op.Amount)
	} else {
		account.Balance = account.Balance.Add(op.Amount)
	}

	deleted, err := s.operations.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return false, err
	}
	return deleted, nil
}

// Operations returns a snapshot of all operations.
func (s *Service) Operations(ctx context.Context) ([]Operation, error) {
	return s.operations.FindAll(ctx)
}

// OperationByID looks up one operation.
func (s *Service) OperationByID(ctx context.Context, id uuid.UUID) (Operation, bool, error) {
	return s.operations.FindByID(ctx, id)
}

// OperationsByAccount returns the operations posted against an account.
func (s *Service) OperationsByAccount(ctx context.Context, accountID uuid.UUID) ([]Operation, error) {
	return s.operations.FindByAccountID(ctx, accountID)
}

// OperationsByCategory returns the operations tagged with a category.
func (s *Service) OperationsByCategory(ctx context.Context, categoryID uuid.UUID) ([]Operation, error) {
	return s.operations.FindByCategoryID(ctx, categoryID)
}

// OperationsByKind returns operations of one kind.
func (s *Service) OperationsByKind(ctx context.Context, kind OperationKind) ([]Operation, error) {
	return s.operations.FindByKind(ctx, kind)
}

// OperationsByDateRange returns operations with from <= date <= to.
func (s *Service) OperationsByDateRange(ctx context.Context, from, to time.Time) ([]Operation, error) {
	return s.operations.FindByDateRange(ctx, from, to)
}

// missingAccountError marks a dangling operation found during delete.
type missingAccountError struct {
	operationID uuid.UUID
	accountID   uuid.UUID
}

func (e *missingAccountError) Error() string {
	return "account " + e.accountID.String() + " not found for operation " + e.operationID.String()
}

func (e *missingAccountError) Unwrap() error { return ErrInvalidState }

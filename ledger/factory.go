/*
factory.go - Validating constructors for ledger entities

PURPOSE:
  Factories turn raw field values into fully-formed entities with fresh
  UUIDs, or fail with InvalidArgument. They never touch stores; persistence
  and cross-entity rules live in the Service.

VALIDATION RULES:
  Account:   name non-blank; balance defaults to zero, negative rejected
  Category:  name non-blank; kind must be a known kind
  Operation: kind known, ids non-nil, amount strictly positive; the
             timestamp is assigned here (construction time), never supplied
             by the caller

SEE ALSO:
  - service.go: The only caller in the write path
  - export/import.go: Replays imported rows through the Service, not here
*/
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewAccount builds an Account with a generated id. A nil initialBalance
// defaults to zero.
func NewAccount(name string, initialBalance *decimal.Decimal) (Account, error) {
	if strings.TrimSpace(name) == "" {
		return Account{}, &InvalidArgumentError{Field: "name", Reason: "cannot be empty"}
	}

	balance := decimal.Zero
	if initialBalance != nil {
		if initialBalance.IsNegative() {
			return Account{}, &InvalidArgumentError{Field: "balance", Reason: "cannot be negative"}
		}
		balance = *initialBalance
	}

	return Account{
		ID:      uuid.New(),
		Name:    name,
		Balance: balance,
	}, nil
}

// NewCategory builds a Category with a generated id.
func NewCategory(name string, kind OperationKind) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, &InvalidArgumentError{Field: "name", Reason: "cannot be empty"}
	}
	if !kind.Valid() {
		return Category{}, &InvalidArgumentError{Field: "kind", Reason: "must be INCOME or EXPENSE"}
	}

	return Category{
		ID:   uuid.New(),
		Name: name,
		Kind: kind,
	}, nil
}

// NewOperation builds an Operation with a generated id and the current time
// as its date. Referential checks against accounts and categories are the
// Service's job, not the factory's.
func NewOperation(kind OperationKind, accountID uuid.UUID, amount decimal.Decimal, categoryID uuid.UUID, description string) (Operation, error) {
	if !kind.Valid() {
		return Operation{}, &InvalidArgumentError{Field: "kind", Reason: "must be INCOME or EXPENSE"}
	}
	if accountID == uuid.Nil {
		return Operation{}, &InvalidArgumentError{Field: "accountID", Reason: "cannot be nil"}
	}
	if !amount.IsPositive() {
		return Operation{}, &InvalidArgumentError{Field: "amount", Reason: "must be positive"}
	}
	if categoryID == uuid.Nil {
		return Operation{}, &InvalidArgumentError{Field: "categoryID", Reason: "cannot be nil"}
	}

	return Operation{
		ID:          uuid.New(),
		Kind:        kind,
		AccountID:   accountID,
		Amount:      amount,
		Date:        time.Now(),
		CategoryID:  categoryID,
		Description: description,
	}, nil
}

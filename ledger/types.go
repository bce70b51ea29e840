/*
Package ledger provides the core personal-finance engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking money
  across accounts, classifying it into categories, and recording dated
  operations that move it. Balances are materialized on the account and kept
  consistent incrementally as operations are created and deleted.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A named money container with a non-negative balance
  - Category: A named classification tagged income or expense
  - Operation: An immutable dated transaction against exactly one account
  - OperationKind: The income/expense discriminator shared by categories
    and operations

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Generated identity: IDs are UUIDs minted by factories, never by callers
  3. Single source of truth: stores hold state, entities are plain values

SEE ALSO:
  - factory.go: Validating constructors
  - service.go: Balance rules and cascades
  - analytics.go: Read-only aggregation queries
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// OPERATION KIND - Income/expense discriminator
// =============================================================================

type OperationKind string

const (
	KindIncome  OperationKind = "INCOME"
	KindExpense OperationKind = "EXPENSE"
)

// Valid reports whether k is one of the two known kinds.
func (k OperationKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind converts external input (imports, API requests) into an
// OperationKind. Returns an error for anything but the two known values.
func ParseKind(s string) (OperationKind, error) {
	k := OperationKind(s)
	if !k.Valid() {
		return "", &InvalidArgumentError{Field: "kind", Reason: "must be INCOME or EXPENSE"}
	}
	return k, nil
}

// =============================================================================
// ENTITIES
// =============================================================================

// Account is a named money container. Balance is materialized and mutated
// only by the Service as operations post against it.
type Account struct {
	ID      uuid.UUID
	Name    string
	Balance decimal.Decimal
}

// Category classifies operations. Kind is fixed at creation; renames are the
// only update in the normal flow.
type Category struct {
	ID   uuid.UUID
	Name string
	Kind OperationKind
}

// Operation is a single dated transaction. Immutable once created; the only
// way to change history is delete-and-recreate through the Service.
type Operation struct {
	ID          uuid.UUID
	Kind        OperationKind
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  uuid.UUID
	Description string
}

// MustParseDecimal parses s, returning zero on malformed input. Intended for
// test fixtures and trusted constants.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

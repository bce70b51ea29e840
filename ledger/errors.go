/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is against the three sentinels.

ERROR CATEGORIES:
  1. InvalidArgument - malformed or missing input (factory/service boundary)
  2. NotFound        - a referenced id is absent from its store
  3. InvalidState    - a runtime integrity violation (negative balance,
                       operation whose account has vanished)

USAGE:
  if errors.Is(err, ledger.ErrNotFound) { ... }

  var nbe *ledger.NegativeBalanceError
  if errors.As(err, &nbe) { fmt.Println(nbe.Shortfall()) }

SEE ALSO:
  - factory.go: Raises InvalidArgument
  - service.go: Raises all three
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for malformed or missing input caught
	// at the factory or service boundary.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a referenced account, category, or
	// operation id is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned for integrity violations detected at
	// runtime, such as an expense that would drive a balance negative.
	ErrInvalidState = errors.New("invalid state")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidArgumentError reports which field failed validation and why.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NotFoundError identifies the entity type and id that could not be resolved.
type NotFoundError struct {
	Entity string // "account", "category", "operation"
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// KindMismatchError is returned when an operation's kind does not match the
// kind of its category.
type KindMismatchError struct {
	CategoryID   uuid.UUID
	CategoryKind OperationKind
	Requested    OperationKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("category %s has kind %s, operation requested %s",
		e.CategoryID, e.CategoryKind, e.Requested)
}

func (e *KindMismatchError) Unwrap() error { return ErrInvalidArgument }

// NegativeBalanceError reports an expense that was rejected because it would
// drive the account balance below zero.
type NegativeBalanceError struct {
	AccountID uuid.UUID
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("operation would drive account %s negative: balance %s, requested %s",
		e.AccountID, e.Balance, e.Requested)
}

func (e *NegativeBalanceError) Unwrap() error { return ErrInvalidState }

// Shortfall returns how much the requested amount exceeds the balance.
func (e *NegativeBalanceError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Balance)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInvalidArgument returns true if the error is due to bad caller input.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidState returns true if the error indicates an integrity violation.
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

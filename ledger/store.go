/*
store.go - Persistence interfaces for ledger entities

PURPOSE:
  Defines the interface between the domain logic and storage. Stores are
  authoritative keyed collections; the Service composes them and enforces
  cross-entity rules. Implementations must be safe for concurrent use.

SNAPSHOT CONTRACT:
  FindAll and every filtered find return a snapshot: a copy independent of
  the live internal storage. Later mutation of the store must not change a
  previously returned slice.

ATOMICITY CONTRACT:
  Each store call is individually atomic. Multi-step service sequences
  (validate-then-mutate-two-stores) are NOT transactional across stores;
  see service.go for where that matters.

IMPLEMENTATIONS:
  - store/memory.go: RWMutex-guarded maps (the only implementation; durable
    storage is out of scope for this system)

SEE ALSO:
  - cache.go: Write-through caching wrapper for AccountStore
  - service.go: The orchestration layer over these interfaces
*/
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore persists accounts keyed by id.
type AccountStore interface {
	// Save upserts the account by id.
	Save(ctx context.Context, account Account) error

	// FindByID returns (account, true) if present.
	FindByID(ctx context.Context, id uuid.UUID) (Account, bool, error)

	// FindAll returns a snapshot of every account.
	FindAll(ctx context.Context) ([]Account, error)

	// DeleteByID removes the account, reporting whether it existed.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Clear removes every account.
	Clear(ctx context.Context) error
}

// CategoryStore persists categories keyed by id.
type CategoryStore interface {
	Save(ctx context.Context, category Category) error
	FindByID(ctx context.Context, id uuid.UUID) (Category, bool, error)
	FindAll(ctx context.Context) ([]Category, error)

	// FindByKind returns a snapshot of categories with the given kind.
	FindByKind(ctx context.Context, kind OperationKind) ([]Category, error)

	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Clear(ctx context.Context) error
}

// OperationStore persists operations keyed by id, with the filtered scans
// the service layer and analytics need.
type OperationStore interface {
	Save(ctx context.Context, op Operation) error
	FindByID(ctx context.Context, id uuid.UUID) (Operation, bool, error)
	FindAll(ctx context.Context) ([]Operation, error)

	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]Operation, error)
	FindByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]Operation, error)
	FindByKind(ctx context.Context, kind OperationKind) ([]Operation, error)

	// FindByDateRange returns operations with from <= date <= to.
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Operation, error)

	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteByAccountID removes all operations for the account. Best-effort
	// cascade: reports nothing about how many were removed.
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error

	// DeleteByCategoryID removes all operations for the category.
	DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) error

	Clear(ctx context.Context) error
}

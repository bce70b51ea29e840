/*
import.go - Replaying snapshots through the ledger service

PURPOSE:
  Imports never bypass the service: every row goes through the same create
  operations the CLI and API use, so all validation and balance rules apply.
  Identifiers in the file are ignored — the ledger generates fresh ones —
  and operations are re-linked by account name and category (name, kind).

SKIP SEMANTICS (inherited from the original importer):
  Rows that cannot be resolved or fail validation are skipped and counted,
  not fatal. An unreadable file or unknown format is an error.
*/
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/moneta/ledger-engine/ledger"
)

// Stats summarizes an import run.
type Stats struct {
	AccountsCreated   int `json:"accounts_created"`
	CategoriesCreated int `json:"categories_created"`
	OperationsCreated int `json:"operations_created"`
	Skipped           int `json:"skipped"`
}

// Importer replays snapshots into a ledger service.
type Importer struct {
	svc *ledger.Service
}

func NewImporter(svc *ledger.Service) *Importer {
	return &Importer{svc: svc}
}

// Import decodes r in the given format and replays it.
func (im *Importer) Import(ctx context.Context, r io.Reader, format Format) (Stats, error) {
	snapshot, err := DecodeSnapshot(r, format)
	if err != nil {
		return Stats{}, err
	}
	return im.Replay(ctx, snapshot)
}

// DecodeSnapshot parses a serialized snapshot.
func DecodeSnapshot(r io.Reader, format Format) (Snapshot, error) {
	switch format {
	case FormatJSON:
		var snapshot Snapshot
		if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
			return Snapshot{}, fmt.Errorf("json import: %w", err)
		}
		return snapshot, nil
	case FormatYAML:
		var snapshot Snapshot
		if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil {
			return Snapshot{}, fmt.Errorf("yaml import: %w", err)
		}
		return snapshot, nil
	case FormatCSV:
		return decodeCSV(r)
	default:
		return Snapshot{}, fmt.Errorf("unknown import format %q", format)
	}
}

// Replay creates accounts, then categories, then operations. Operations are
// resolved against the full current ledger state, so importing into a
// non-empty ledger links against pre-existing entities too.
func (im *Importer) Replay(ctx context.Context, snapshot Snapshot) (Stats, error) {
	var stats Stats

	for _, record := range snapshot.Accounts {
		balance, err := decimal.NewFromString(record.Balance)
		if err != nil {
			stats.Skipped++
			continue
		}
		if _, err := im.svc.CreateAccount(ctx, record.Name, &balance); err != nil {
			stats.Skipped++
			continue
		}
		stats.AccountsCreated++
	}

	for _, record := range snapshot.Categories {
		kind, err := ledger.ParseKind(record.Kind)
		if err != nil {
			stats.Skipped++
			continue
		}
		if _, err := im.svc.CreateCategory(ctx, record.Name, kind); err != nil {
			stats.Skipped++
			continue
		}
		stats.CategoriesCreated++
	}

	accounts, err := im.svc.Accounts(ctx)
	if err != nil {
		return stats, err
	}
	categories, err := im.svc.Categories(ctx)
	if err != nil {
		return stats, err
	}

	accountsByName := make(map[string]uuid.UUID, len(accounts))
	for _, account := range accounts {
		accountsByName[account.Name] = account.ID
	}
	type categoryKey struct {
		name string
		kind ledger.OperationKind
	}
	categoriesByKey := make(map[categoryKey]uuid.UUID, len(categories))
	for _, category := range categories {
		categoriesByKey[categoryKey{category.Name, category.Kind}] = category.ID
	}

	for _, record := range snapshot.Operations {
		kind, err := ledger.ParseKind(record.Kind)
		if err != nil {
			stats.Skipped++
			continue
		}
		amount, err := decimal.NewFromString(record.Amount)
		if err != nil {
			stats.Skipped++
			continue
		}
		accountID, ok := accountsByName[record.AccountName]
		if !ok {
			stats.Skipped++
			continue
		}
		categoryID, ok := categoriesByKey[categoryKey{record.CategoryName, kind}]
		if !ok {
			stats.Skipped++
			continue
		}
		if _, err := im.svc.CreateOperation(ctx, kind, accountID, amount, categoryID, record.Description); err != nil {
			stats.Skipped++
			continue
		}
		stats.OperationsCreated++
	}

	return stats, nil
}

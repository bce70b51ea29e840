/*
Package export serializes ledger snapshots to JSON, YAML, and CSV, and
replays them back in through the ledger service.

PURPOSE:
  Import/export is an external collaborator of the ledger core: it consumes
  the same service contracts as any other caller and never writes stores
  directly. Exports carry entity names alongside ids so a snapshot can be
  imported into a fresh ledger, where every id is regenerated.

FORMATS:
  json  - one document: {accounts, categories, operations}
  yaml  - same shape as JSON
  csv   - three titled sections, each with its own header row

SEE ALSO:
  - import.go: Replaying snapshots through the service
  - csv.go: The sectioned CSV codec
*/
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moneta/ledger-engine/ledger"
)

// Format selects a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat converts external input into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// =============================================================================
// SNAPSHOT - The serialized shape shared by all formats
// =============================================================================

type Snapshot struct {
	Accounts   []AccountRecord   `json:"accounts" yaml:"accounts"`
	Categories []CategoryRecord  `json:"categories" yaml:"categories"`
	Operations []OperationRecord `json:"operations" yaml:"operations"`
}

type AccountRecord struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Balance string `json:"balance" yaml:"balance"`
}

type CategoryRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
}

type OperationRecord struct {
	ID           string `json:"id" yaml:"id"`
	Kind         string `json:"kind" yaml:"kind"`
	Amount       string `json:"amount" yaml:"amount"`
	Date         string `json:"date" yaml:"date"`
	AccountID    string `json:"account_id" yaml:"account_id"`
	AccountName  string `json:"account_name" yaml:"account_name"`
	CategoryID   string `json:"category_id" yaml:"category_id"`
	CategoryName string `json:"category_name" yaml:"category_name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter assembles snapshots from the ledger service's read contracts.
type Exporter struct {
	svc *ledger.Service
}

func NewExporter(svc *ledger.Service) *Exporter {
	return &Exporter{svc: svc}
}

// BuildSnapshot reads all accounts, categories, and operations through the
// service. Name fields on operations are resolved here; operations whose
// references vanished mid-read keep empty names.
func (e *Exporter) BuildSnapshot(ctx context.Context) (Snapshot, error) {
	accounts, err := e.svc.Accounts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export accounts: %w", err)
	}
	categories, err := e.svc.Categories(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export categories: %w", err)
	}
	operations, err := e.svc.Operations(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export operations: %w", err)
	}

	accountNames := make(map[string]string, len(accounts))
	categoryNames := make(map[string]string, len(categories))

	snapshot := Snapshot{}
	for _, account := range accounts {
		accountNames[account.ID.String()] = account.Name
		snapshot.Accounts = append(snapshot.Accounts, AccountRecord{
			ID:      account.ID.String(),
			Name:    account.Name,
			Balance: account.Balance.String(),
		})
	}
	for _, category := range categories {
		categoryNames[category.ID.String()] = category.Name
		snapshot.Categories = append(snapshot.Categories, CategoryRecord{
			ID:   category.ID.String(),
			Name: category.Name,
			Kind: string(category.Kind),
		})
	}
	for _, op := range operations {
		snapshot.Operations = append(snapshot.Operations, OperationRecord{
			ID:           op.ID.String(),
			Kind:         string(op.Kind),
			Amount:       op.Amount.String(),
			Date:         op.Date.Format(time.RFC3339),
			AccountID:    op.AccountID.String(),
			AccountName:  accountNames[op.AccountID.String()],
			CategoryID:   op.CategoryID.String(),
			CategoryName: categoryNames[op.CategoryID.String()],
			Description:  op.Description,
		})
	}
	return snapshot, nil
}

// Export writes the current ledger state to w in the given format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format Format) error {
	snapshot, err := e.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	return EncodeSnapshot(w, snapshot, format)
}

// EncodeSnapshot serializes an already built snapshot.
func EncodeSnapshot(w io.Writer, snapshot Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(snapshot)
	case FormatCSV:
		return encodeCSV(w, snapshot)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

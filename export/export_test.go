package export_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta/ledger-engine/export"
	"github.com/moneta/ledger-engine/ledger"
	"github.com/moneta/ledger-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newService(t *testing.T) *ledger.Service {
	t.Helper()
	accounts := store.NewAccounts()
	return ledger.NewService(
		ledger.NewCachedAccountStore(accounts),
		store.NewCategories(),
		store.NewOperations(),
	)
}

// seedLedger builds: account "Checking" (100), categories Salary/INCOME and
// Food/EXPENSE, one income 50 and one expense 30.
func seedLedger(t *testing.T, svc *ledger.Service) {
	t.Helper()
	ctx := context.Background()

	initial := ledger.MustParseDecimal("100")
	account, err := svc.CreateAccount(ctx, "Checking", &initial)
	require.NoError(t, err)
	salary, err := svc.CreateCategory(ctx, "Salary", ledger.KindIncome)
	require.NoError(t, err)
	food, err := svc.CreateCategory(ctx, "Food", ledger.KindExpense)
	require.NoError(t, err)

	_, err = svc.CreateOperation(ctx, ledger.KindIncome, account.ID, ledger.MustParseDecimal("50"), salary.ID, "paycheck")
	require.NoError(t, err)
	_, err = svc.CreateOperation(ctx, ledger.KindExpense, account.ID, ledger.MustParseDecimal("30"), food.ID, "groceries, weekly")
	require.NoError(t, err)
}

// =============================================================================
// SNAPSHOT ASSEMBLY
// =============================================================================

func TestBuildSnapshot_ResolvesNames(t *testing.T) {
	svc := newService(t)
	seedLedger(t, svc)

	snapshot, err := export.NewExporter(svc).BuildSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Accounts, 1)
	assert.Equal(t, "Checking", snapshot.Accounts[0].Name)
	assert.Equal(t, "120", snapshot.Accounts[0].Balance)

	require.Len(t, snapshot.Categories, 2)
	require.Len(t, snapshot.Operations, 2)
	for _, op := range snapshot.Operations {
		assert.Equal(t, "Checking", op.AccountName)
		assert.NotEmpty(t, op.CategoryName)
		assert.NotEmpty(t, op.Date)
	}
}

// =============================================================================
// CODEC ROUND TRIPS
// =============================================================================

func TestEncodeDecode_RoundTripsAllFormats(t *testing.T) {
	svc := newService(t)
	seedLedger(t, svc)
	original, err := export.NewExporter(svc).BuildSnapshot(context.Background())
	require.NoError(t, err)

	for _, format := range []export.Format{export.FormatJSON, export.FormatYAML, export.FormatCSV} {
		var buf bytes.Buffer
		require.NoError(t, export.EncodeSnapshot(&buf, original, format), "encode %s", format)

		decoded, err := export.DecodeSnapshot(&buf, format)
		require.NoError(t, err, "decode %s", format)
		assert.Equal(t, original, decoded, "round trip %s", format)
	}
}

func TestCSV_EscapesCommasInFields(t *testing.T) {
	svc := newService(t)
	seedLedger(t, svc) // one description contains a comma

	var buf bytes.Buffer
	require.NoError(t, export.NewExporter(svc).Export(context.Background(), &buf, export.FormatCSV))
	assert.Contains(t, buf.String(), `"groceries, weekly"`)

	decoded, err := export.DecodeSnapshot(strings.NewReader(buf.String()), export.FormatCSV)
	require.NoError(t, err)
	require.Len(t, decoded.Operations, 2)
}

func TestParseFormat_RejectsUnknown(t *testing.T) {
	_, err := export.ParseFormat("xml")
	assert.Error(t, err)

	format, err := export.ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, export.FormatYAML, format)
}

// =============================================================================
// IMPORT REPLAY
// =============================================================================

func TestImport_ReplaysThroughService(t *testing.T) {
	source := newService(t)
	seedLedger(t, source)

	var buf bytes.Buffer
	require.NoError(t, export.NewExporter(source).Export(context.Background(), &buf, export.FormatJSON))

	target := newService(t)
	stats, err := export.NewImporter(target).Import(context.Background(), &buf, export.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.AccountsCreated)
	assert.Equal(t, 2, stats.CategoriesCreated)
	assert.Equal(t, 2, stats.OperationsCreated)
	assert.Equal(t, 0, stats.Skipped)

	// Replay re-applies the operations on top of the exported balance
	// (120 + 50 - 30): imports go through the same write path as any
	// caller, inherited from the original importer.
	accounts, err := target.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Balance.Equal(ledger.MustParseDecimal("140")), "got %s", accounts[0].Balance)

	ops, err := target.Operations(context.Background())
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}

func TestImport_SkipsUnresolvableRows(t *testing.T) {
	target := newService(t)

	snapshot := export.Snapshot{
		Accounts: []export.AccountRecord{
			{Name: "Checking", Balance: "100"},
			{Name: "Bad", Balance: "not-a-number"},
		},
		Categories: []export.CategoryRecord{
			{Name: "Salary", Kind: "INCOME"},
			{Name: "Weird", Kind: "TRANSFER"},
		},
		Operations: []export.OperationRecord{
			{Kind: "INCOME", Amount: "10", AccountName: "Checking", CategoryName: "Salary"},
			{Kind: "INCOME", Amount: "10", AccountName: "Missing", CategoryName: "Salary"},
			{Kind: "EXPENSE", Amount: "10", AccountName: "Checking", CategoryName: "Salary"}, // kind mismatch
		},
	}

	stats, err := export.NewImporter(target).Replay(context.Background(), snapshot)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.AccountsCreated)
	assert.Equal(t, 1, stats.CategoriesCreated)
	assert.Equal(t, 1, stats.OperationsCreated)
	assert.Equal(t, 4, stats.Skipped)
}

func TestImport_IntoNonEmptyLedger_LinksExistingEntities(t *testing.T) {
	target := newService(t)
	ctx := context.Background()
	initial := ledger.MustParseDecimal("500")
	_, err := target.CreateAccount(ctx, "Existing", &initial)
	require.NoError(t, err)
	_, err = target.CreateCategory(ctx, "Salary", ledger.KindIncome)
	require.NoError(t, err)

	snapshot := export.Snapshot{
		Operations: []export.OperationRecord{
			{Kind: "INCOME", Amount: "25", AccountName: "Existing", CategoryName: "Salary"},
		},
	}

	stats, err := export.NewImporter(target).Replay(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OperationsCreated)

	accounts, err := target.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Balance.Equal(ledger.MustParseDecimal("525")))
}

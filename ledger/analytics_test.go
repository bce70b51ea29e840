package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta/ledger-engine/ledger"
	"github.com/moneta/ledger-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// Analytics tests seed the operation store directly so dates are under test
// control; the service write path always stamps construction time.

type analyticsFixture struct {
	analytics  *ledger.Analytics
	operations *store.Operations
	categories *store.Categories
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	operations := store.NewOperations()
	categories := store.NewCategories()
	return &analyticsFixture{
		analytics:  ledger.NewAnalytics(operations, categories),
		operations: operations,
		categories: categories,
	}
}

func (f *analyticsFixture) seedCategory(t *testing.T, name string, kind ledger.OperationKind) ledger.Category {
	t.Helper()
	category, err := ledger.NewCategory(name, kind)
	require.NoError(t, err)
	require.NoError(t, f.categories.Save(context.Background(), category))
	return category
}

func (f *analyticsFixture) seedOperation(t *testing.T, kind ledger.OperationKind, categoryID uuid.UUID, amount string, date time.Time) ledger.Operation {
	t.Helper()
	op := ledger.Operation{
		ID:         uuid.New(),
		Kind:       kind,
		AccountID:  uuid.New(),
		Amount:     ledger.MustParseDecimal(amount),
		Date:       date,
		CategoryID: categoryID,
	}
	require.NoError(t, f.operations.Save(context.Background(), op))
	return op
}

// =============================================================================
// BALANCE DIFFERENCE
// =============================================================================

func TestBalanceDifference_NetsIncomeAgainstExpense(t *testing.T) {
	f := newAnalyticsFixture(t)
	salary := f.seedCategory(t, "Salary", ledger.KindIncome)
	food := f.seedCategory(t, "Food", ledger.KindExpense)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindIncome, salary.ID, "100.00", base)
	f.seedOperation(t, ledger.KindExpense, food.ID, "40.50", base.Add(time.Hour))
	f.seedOperation(t, ledger.KindIncome, salary.ID, "10.00", base.Add(2*time.Hour))

	// Outside the range: must not count.
	f.seedOperation(t, ledger.KindIncome, salary.ID, "999", base.AddDate(0, 0, 10))

	diff, err := f.analytics.BalanceDifference(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, diff.Equal(ledger.MustParseDecimal("69.50")), "got %s", diff)
}

func TestBalanceDifference_RangeIsInclusive(t *testing.T) {
	f := newAnalyticsFixture(t)
	salary := f.seedCategory(t, "Salary", ledger.KindIncome)

	from := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindIncome, salary.ID, "1", from)
	f.seedOperation(t, ledger.KindIncome, salary.ID, "2", to)

	diff, err := f.analytics.BalanceDifference(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, diff.Equal(ledger.MustParseDecimal("3")))
}

// =============================================================================
// GROUP BY CATEGORY
// =============================================================================

func TestGroupByCategory_SignAgnosticSums(t *testing.T) {
	// Income and expense amounts both add positively into their bucket.

	f := newAnalyticsFixture(t)
	salary := f.seedCategory(t, "Salary", ledger.KindIncome)
	food := f.seedCategory(t, "Food", ledger.KindExpense)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindIncome, salary.ID, "100", base)
	f.seedOperation(t, ledger.KindExpense, food.ID, "30", base)
	f.seedOperation(t, ledger.KindExpense, food.ID, "20", base.Add(time.Hour))

	grouped, err := f.analytics.GroupByCategory(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, grouped, 2)
	assert.True(t, grouped[salary].Equal(ledger.MustParseDecimal("100")))
	assert.True(t, grouped[food].Equal(ledger.MustParseDecimal("50")))
}

func TestGroupByCategory_DropsVanishedCategories(t *testing.T) {
	f := newAnalyticsFixture(t)
	food := f.seedCategory(t, "Food", ledger.KindExpense)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindExpense, food.ID, "30", base)
	f.seedOperation(t, ledger.KindExpense, uuid.New(), "99", base) // category never existed

	grouped, err := f.analytics.GroupByCategory(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, grouped, 1)
}

// =============================================================================
// TOP SPENDING CATEGORIES
// =============================================================================

func TestTopSpendingCategories_RanksAndTruncates(t *testing.T) {
	// Scenario from the acceptance sheet: A=120, B=90, C=200, limit 2
	// -> [C:200, A:120].

	f := newAnalyticsFixture(t)
	a := f.seedCategory(t, "A", ledger.KindExpense)
	b := f.seedCategory(t, "B", ledger.KindExpense)
	c := f.seedCategory(t, "C", ledger.KindExpense)
	salary := f.seedCategory(t, "Salary", ledger.KindIncome)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindExpense, a.ID, "120.00", base)
	f.seedOperation(t, ledger.KindExpense, b.ID, "90.00", base)
	f.seedOperation(t, ledger.KindExpense, c.ID, "200.00", base)

	// Income never counts toward spending.
	f.seedOperation(t, ledger.KindIncome, salary.ID, "1000", base)

	top, err := f.analytics.TopSpendingCategories(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, c.ID, top[0].Category.ID)
	assert.True(t, top[0].Total.Equal(ledger.MustParseDecimal("200.00")))
	assert.Equal(t, a.ID, top[1].Category.ID)
	assert.True(t, top[1].Total.Equal(ledger.MustParseDecimal("120.00")))
}

func TestTopSpendingCategories_TiesKeepInsertionOrder(t *testing.T) {
	f := newAnalyticsFixture(t)
	first := f.seedCategory(t, "First", ledger.KindExpense)
	second := f.seedCategory(t, "Second", ledger.KindExpense)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	f.seedOperation(t, ledger.KindExpense, first.ID, "50", base)
	f.seedOperation(t, ledger.KindExpense, second.ID, "50", base.Add(time.Minute))

	top, err := f.analytics.TopSpendingCategories(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].Category.ID, "tie broken by first appearance in history")
	assert.Equal(t, second.ID, top[1].Category.ID)
}

// =============================================================================
// MONTHLY TREND
// =============================================================================

func TestMonthlyTrend_ChronologicalBuckets(t *testing.T) {
	// Scenario: 10.00 in month M, 15.00 in month M+1, monthsBack=2
	// -> ordered {M: 10.00, M+1: 15.00}.

	f := newAnalyticsFixture(t)
	food := f.seedCategory(t, "Food", ledger.KindExpense)

	later := time.Now().Add(-time.Hour)
	y, m, _ := later.Date()
	earlier := time.Date(y, m-1, 10, 12, 0, 0, 0, later.Location())

	f.seedOperation(t, ledger.KindExpense, food.ID, "15.00", later)
	f.seedOperation(t, ledger.KindExpense, food.ID, "10.00", earlier)

	trend, err := f.analytics.MonthlyTrend(context.Background(), food.ID, 2)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, earlier.Format("2006-01"), trend[0].Month)
	assert.True(t, trend[0].Total.Equal(ledger.MustParseDecimal("10.00")))
	assert.Equal(t, later.Format("2006-01"), trend[1].Month)
	assert.True(t, trend[1].Total.Equal(ledger.MustParseDecimal("15.00")))
}

func TestMonthlyTrend_ExcludesOperationsOutsideWindow(t *testing.T) {
	f := newAnalyticsFixture(t)
	food := f.seedCategory(t, "Food", ledger.KindExpense)

	f.seedOperation(t, ledger.KindExpense, food.ID, "10", time.Now().Add(-time.Hour))
	f.seedOperation(t, ledger.KindExpense, food.ID, "99", time.Now().AddDate(0, -6, 0))

	trend, err := f.analytics.MonthlyTrend(context.Background(), food.ID, 2)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.True(t, trend[0].Total.Equal(ledger.MustParseDecimal("10")))
}

func TestMonthlyTrend_MissingCategory_NotFound(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.analytics.MonthlyTrend(context.Background(), uuid.New(), 3)
	assert.True(t, ledger.IsNotFound(err))
}

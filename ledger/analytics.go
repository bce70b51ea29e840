/*
analytics.go - Read-only aggregation over the operation history

PURPOSE:
  Answers the reporting questions the CLI and API ask: net income/expense
  delta over a period, spend per category, the biggest expense categories,
  and month-over-month trends for one category. Everything here reads
  snapshots; nothing mutates.

SIGN CONVENTION:
  GroupByCategory and MonthlyTrend sum amounts sign-agnostically: income and
  expense amounts both add positively into their bucket. Only
  BalanceDifference nets them against each other, and only
  TopSpendingCategories restricts to expenses.

SEE ALSO:
  - store.go: The snapshot contracts these queries rely on
  - service.go: The write path that keeps the data consistent
*/
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Analytics computes aggregation queries over operations and categories.
// Read-only; safe to share.
type Analytics struct {
	operations OperationStore
	categories CategoryStore
}

func NewAnalytics(operations OperationStore, categories CategoryStore) *Analytics {
	return &Analytics{operations: operations, categories: categories}
}

// CategoryTotal pairs a category with a summed amount. Slices of these are
// ordered (ranking or first-seen order, per query).
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// MonthTotal is one bucket of a monthly trend, keyed "YYYY-MM".
type MonthTotal struct {
	Month string
	Total decimal.Decimal
}

// BalanceDifference returns sum(income) - sum(expense) over operations with
// from <= date <= to.
func (a *Analytics) BalanceDifference(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	ops, err := a.operations.FindByDateRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	diff := decimal.Zero
	for _, op := range ops {
		if op.Kind == KindIncome {
			diff = diff.Add(op.Amount)
		} else {
			diff = diff.Sub(op.Amount)
		}
	}
	return diff, nil
}

// GroupByCategory partitions operations in range by category and sums the
// amounts per bucket, sign-agnostically. Categories that no longer exist are
// silently dropped from the result.
func (a *Analytics) GroupByCategory(ctx context.Context, from, to time.Time) (map[Category]decimal.Decimal, error) {
	ops, err := a.operations.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, op := range ops {
		totals[op.CategoryID] = totals[op.CategoryID].Add(op.Amount)
	}

	result := make(map[Category]decimal.Decimal, len(totals))
	for categoryID, total := range totals {
		category, ok, err := a.categories.FindByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result[category] = total
	}
	return result, nil
}

// TopSpendingCategories ranks expense totals per category over the range,
// descending, truncated to limit. Ties keep the order in which a category
// first appeared in the operation history, so results are reproducible.
func (a *Analytics) TopSpendingCategories(ctx context.Context, from, to time.Time, limit int) ([]CategoryTotal, error) {
	ops, err := a.operations.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	var seen []uuid.UUID
	for _, op := range ops {
		if op.Kind != KindExpense {
			continue
		}
		if _, ok := totals[op.CategoryID]; !ok {
			seen = append(seen, op.CategoryID)
		}
		totals[op.CategoryID] = totals[op.CategoryID].Add(op.Amount)
	}

	var ranked []CategoryTotal
	for _, categoryID := range seen {
		category, ok, err := a.categories.FindByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ranked = append(ranked, CategoryTotal{Category: category, Total: totals[categoryID]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.GreaterThan(ranked[j].Total)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// MonthlyTrend buckets a category's operations by "YYYY-MM" over the window
// [now - monthsBack months, now], returned chronologically. Fails with
// NotFound if the category is absent.
func (a *Analytics) MonthlyTrend(ctx context.Context, categoryID uuid.UUID, monthsBack int) ([]MonthTotal, error) {
	_, ok, err := a.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "category", ID: categoryID}
	}

	to := time.Now()
	from := to.AddDate(0, -monthsBack, 0)

	ops, err := a.operations.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, op := range ops {
		if op.Date.Before(from) || op.Date.After(to) {
			continue
		}
		month := op.Date.Format("2006-01")
		totals[month] = totals[month].Add(op.Amount)
	}

	result := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		result = append(result, MonthTotal{Month: month, Total: total})
	}
	// "YYYY-MM" sorts lexicographically in chronological order.
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

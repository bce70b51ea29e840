/*
handlers.go - HTTP API handlers for the ledger engine

PURPOSE:
  Exposes the ledger service and analytics over REST. Handles HTTP
  request/response, JSON serialization, and delegates everything else to
  the domain layer.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                   List accounts
    POST   /api/accounts                   Create account
    GET    /api/accounts/{id}              Get account
    PUT    /api/accounts/{id}              Rename account
    DELETE /api/accounts/{id}              Delete account (cascades)
    POST   /api/accounts/{id}/recalculate  Rebuild balance from history

  Categories:
    GET    /api/categories            List (optionally ?kind=EXPENSE)
    POST   /api/categories            Create
    GET    /api/categories/{id}       Get
    PUT    /api/categories/{id}       Rename
    DELETE /api/categories/{id}       Delete (cascades)

  Operations:
    GET    /api/operations            List (?account=, ?category=, ?kind=,
                                            ?from=&to= RFC 3339)
    POST   /api/operations            Create
    GET    /api/operations/{id}       Get
    DELETE /api/operations/{id}       Delete (reverses balance effect)

  Analytics:
    GET    /api/analytics/balance-difference?from=&to=
    GET    /api/analytics/grouped?from=&to=
    GET    /api/analytics/top-spending?from=&to=&limit=
    GET    /api/analytics/monthly-trend?category=&months=

  Data exchange:
    GET    /api/export?format=json|yaml|csv
    POST   /api/import?format=json|yaml|csv

ERROR HANDLING:
  - 400: InvalidArgument (blank names, bad amounts, kind mismatch)
  - 404: NotFound, and deletes that matched nothing
  - 409: InvalidState (overdraft, dangling references)
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta/ledger-engine/export"
	"github.com/moneta/ledger-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service   *ledger.Service
	Analytics *ledger.Analytics
	Exporter  *export.Exporter
	Importer  *export.Importer
}

// NewHandler creates a handler over the given service and analytics engine.
func NewHandler(svc *ledger.Service, analytics *ledger.Analytics) *Handler {
	return &Handler{
		Service:   svc,
		Analytics: analytics,
		Exporter:  export.NewExporter(svc),
		Importer:  export.NewImporter(svc),
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.Accounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTOs(accounts))
}

// CreateAccount creates a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var initial *decimal.Decimal
	if req.Balance != "" {
		parsed, err := decimal.NewFromString(req.Balance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid balance (use a decimal string)", err)
			return
		}
		initial = &parsed
	}

	account, err := h.Service.CreateAccount(r.Context(), req.Name, initial)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(account))
}

// GetAccount returns a single account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	account, found, err := h.Service.AccountByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

// UpdateAccount renames an account. A blank name yields 404 "nothing
// matched", mirroring the service's no-op contract.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	account, err := h.Service.UpdateAccount(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "Nothing matched", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*account))
}

// DeleteAccount removes an account and its operations.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.DeleteAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecalculateBalance rebuilds the account balance from its operations.
func (h *Handler) RecalculateBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	account, err := h.Service.RecalculateBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns all categories, optionally filtered by ?kind=.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		categories []ledger.Category
		err        error
	)
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, parseErr := ledger.ParseKind(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid kind (use INCOME or EXPENSE)", parseErr)
			return
		}
		categories, err = h.Service.CategoriesByKind(r.Context(), kind)
	} else {
		categories, err = h.Service.Categories(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTOs(categories))
}

// CreateCategory creates a new category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	kind, err := ledger.ParseKind(req.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	category, err := h.Service.CreateCategory(r.Context(), req.Name, kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(category))
}

// GetCategory returns a single category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	category, found, err := h.Service.CategoryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get category", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Category not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(category))
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	category, err := h.Service.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(*category))
}

// DeleteCategory removes a category and its operations.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.DeleteCategory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Category not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OPERATION HANDLERS
// =============================================================================

// ListOperations returns operations, filtered by at most one of ?account=,
// ?category=, ?kind=, or ?from=&to=.
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	switch {
	case q.Get("account") != "":
		accountID, err := uuid.Parse(q.Get("account"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid account id", err)
			return
		}
		ops, err := h.Service.OperationsByAccount(ctx, accountID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list operations", err)
			return
		}
		writeJSON(w, http.StatusOK, toOperationDTOs(ops))

	case q.Get("category") != "":
		categoryID, err := uuid.Parse(q.Get("category"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid category id", err)
			return
		}
		ops, err := h.Service.OperationsByCategory(ctx, categoryID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list operations", err)
			return
		}
		writeJSON(w, http.StatusOK, toOperationDTOs(ops))

	case q.Get("kind") != "":
		kind, err := ledger.ParseKind(q.Get("kind"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid kind (use INCOME or EXPENSE)", err)
			return
		}
		ops, err := h.Service.OperationsByKind(ctx, kind)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list operations", err)
			return
		}
		writeJSON(w, http.StatusOK, toOperationDTOs(ops))

	case q.Get("from") != "" || q.Get("to") != "":
		from, to, ok := parseDateRange(w, r)
		if !ok {
			return
		}
		ops, err := h.Service.OperationsByDateRange(ctx, from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list operations", err)
			return
		}
		writeJSON(w, http.StatusOK, toOperationDTOs(ops))

	default:
		ops, err := h.Service.Operations(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list operations", err)
			return
		}
		writeJSON(w, http.StatusOK, toOperationDTOs(ops))
	}
}

// CreateOperation records a transaction against an account.
func (h *Handler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var req CreateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind, err := ledger.ParseKind(req.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account_id", err)
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category_id", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount (use a decimal string)", err)
		return
	}

	op, err := h.Service.CreateOperation(r.Context(), kind, accountID, amount, categoryID, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOperationDTO(op))
}

// GetOperation returns a single operation.
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	op, found, err := h.Service.OperationByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get operation", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Operation not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toOperationDTO(op))
}

// DeleteOperation removes a transaction and reverses its balance effect.
func (h *Handler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.DeleteOperation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Operation not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// BalanceDifference returns sum(income) - sum(expense) over the range.
func (h *Handler) BalanceDifference(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	diff, err := h.Analytics.BalanceDifference(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance difference", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDifferenceDTO{
		From:       from.Format(time.RFC3339),
		To:         to.Format(time.RFC3339),
		Difference: diff.String(),
	})
}

// GroupedByCategory returns per-category totals over the range.
func (h *Handler) GroupedByCategory(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	grouped, err := h.Analytics.GroupByCategory(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to group operations", err)
		return
	}
	dtos := make([]CategoryTotalDTO, 0, len(grouped))
	for category, total := range grouped {
		dtos = append(dtos, CategoryTotalDTO{
			Category: toCategoryDTO(category),
			Total:    total.String(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TopSpending returns the highest-total expense categories over the range.
func (h *Handler) TopSpending(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	top, err := h.Analytics.TopSpendingCategories(r.Context(), from, to, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to rank categories", err)
		return
	}
	dtos := make([]CategoryTotalDTO, len(top))
	for i, entry := range top {
		dtos[i] = CategoryTotalDTO{
			Category: toCategoryDTO(entry.Category),
			Total:    entry.Total.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MonthlyTrend returns month buckets for one category.
func (h *Handler) MonthlyTrend(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category id", err)
		return
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, convErr := strconv.Atoi(raw)
		if convErr != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid months", convErr)
			return
		}
		months = parsed
	}

	trend, err := h.Analytics.MonthlyTrend(r.Context(), categoryID, months)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]MonthTotalDTO, len(trend))
	for i, bucket := range trend {
		dtos[i] = MonthTotalDTO{Month: bucket.Month, Total: bucket.Total.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EXPORT / IMPORT HANDLERS
// =============================================================================

// ExportData streams the ledger state in the requested format.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown format (use json, yaml, or csv)", err)
		return
	}

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	}
	if err := h.Exporter.Export(r.Context(), w, format); err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed", err)
	}
}

// ImportData replays an uploaded snapshot through the ledger service.
func (h *Handler) ImportData(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown format (use json, yaml, or csv)", err)
		return
	}
	stats, err := h.Importer.Import(r.Context(), r.Body, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{
		AccountsCreated:   stats.AccountsCreated,
		CategoriesCreated: stats.CategoriesCreated,
		OperationsCreated: stats.OperationsCreated,
		Skipped:           stats.Skipped,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id (use a UUID)", err)
		return uuid.Nil, false
	}
	return id, true
}

func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from (use RFC 3339)", err)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to (use RFC 3339)", err)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// writeDomainError maps ledger error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case ledger.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case ledger.IsInvalidState(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

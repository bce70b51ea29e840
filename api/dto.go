/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the domain
  model from the external contract. Money travels as decimal strings and
  dates as RFC 3339; ids are UUID strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/moneta/ledger-engine/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// CreateAccountRequest is the request to create an account. Balance is
// optional; omitted means zero.
type CreateAccountRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance,omitempty"`
}

// RenameRequest is the request to rename an account or category.
type RenameRequest struct {
	Name string `json:"name"`
}

// CategoryDTO represents a category in API responses.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// CreateCategoryRequest is the request to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// OperationDTO represents an operation in API responses.
type OperationDTO struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description,omitempty"`
}

// CreateOperationRequest is the request to record an operation. The date is
// assigned server-side at creation time and cannot be supplied.
type CreateOperationRequest struct {
	Kind        string `json:"kind"`
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description,omitempty"`
}

// CategoryTotalDTO pairs a category with a summed amount.
type CategoryTotalDTO struct {
	Category CategoryDTO `json:"category"`
	Total    string      `json:"total"`
}

// MonthTotalDTO is one bucket of a monthly trend.
type MonthTotalDTO struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// BalanceDifferenceDTO is the net income-expense delta over a range.
type BalanceDifferenceDTO struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Difference string `json:"difference"`
}

// ImportResultDTO reports what an import run created and skipped.
type ImportResultDTO struct {
	AccountsCreated   int `json:"accounts_created"`
	CategoriesCreated int `json:"categories_created"`
	OperationsCreated int `json:"operations_created"`
	Skipped           int `json:"skipped"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toAccountDTO(account ledger.Account) AccountDTO {
	return AccountDTO{
		ID:      account.ID.String(),
		Name:    account.Name,
		Balance: account.Balance.String(),
	}
}

func toAccountDTOs(accounts []ledger.Account) []AccountDTO {
	dtos := make([]AccountDTO, len(accounts))
	for i, account := range accounts {
		dtos[i] = toAccountDTO(account)
	}
	return dtos
}

func toCategoryDTO(category ledger.Category) CategoryDTO {
	return CategoryDTO{
		ID:   category.ID.String(),
		Name: category.Name,
		Kind: string(category.Kind),
	}
}

func toCategoryDTOs(categories []ledger.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		dtos[i] = toCategoryDTO(category)
	}
	return dtos
}

func toOperationDTO(op ledger.Operation) OperationDTO {
	return OperationDTO{
		ID:          op.ID.String(),
		Kind:        string(op.Kind),
		AccountID:   op.AccountID.String(),
		Amount:      op.Amount.String(),
		Date:        op.Date.Format(time.RFC3339),
		CategoryID:  op.CategoryID.String(),
		Description: op.Description,
	}
}

func toOperationDTOs(ops []ledger.Operation) []OperationDTO {
	dtos := make([]OperationDTO, len(ops))
	for i, op := range ops {
		dtos[i] = toOperationDTO(op)
	}
	return dtos
}

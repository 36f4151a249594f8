// Package transaction contains transaction query and correction use cases.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	OrganizationID uuid.UUID
	FinancialYear  *int
	StartDate      *time.Time
	EndDate        *time.Time
	Type           *entity.TransactionType
	CategoryKey    string
	Search         string
	Page           int
	Limit          int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// ListTransactionsUseCase handles the public transaction listing.
type ListTransactionsUseCase struct {
	orgRepo adapter.OrganizationRepository
	txnRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(
	orgRepo adapter.OrganizationRepository,
	txnRepo adapter.TransactionRepository,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		orgRepo: orgRepo,
		txnRepo: txnRepo,
	}
}

// Execute retrieves transactions matching the filters.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if _, err := uc.orgRepo.FindByID(ctx, input.OrganizationID); err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	result, err := uc.txnRepo.FindByFilter(ctx, adapter.TransactionFilter{
		OrganizationID: input.OrganizationID,
		FinancialYear:  input.FinancialYear,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Type:           input.Type,
		CategoryKey:    input.CategoryKey,
		Search:         input.Search,
	}, adapter.TransactionPagination{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	return &ListTransactionsOutput{
		Transactions: result.Transactions,
		Total:        result.Total,
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
	}, nil
}

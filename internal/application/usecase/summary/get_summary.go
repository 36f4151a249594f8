// Package summary contains the public financial summary use case.
package summary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// GetSummaryInput represents the input for the financial summary.
type GetSummaryInput struct {
	OrganizationID uuid.UUID
	FinancialYear  *int
	StartDate      *time.Time
	EndDate        *time.Time
}

// CategoryShare is one friendly category with its share of the expense total.
type CategoryShare struct {
	CategoryKey      string
	FriendlyCategory string
	Amount           int64
	Percentage       float64
	TransactionCount int
}

// GetSummaryOutput represents the output of the financial summary.
type GetSummaryOutput struct {
	IncomeTotal  int64
	ExpenseTotal int64
	NetTotal     int64
	Categories   []CategoryShare
}

// GetSummaryUseCase computes income/expense totals and per-category expense
// shares for the public dashboard. Offsetting rows are excluded throughout.
type GetSummaryUseCase struct {
	orgRepo adapter.OrganizationRepository
	txnRepo adapter.TransactionRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	orgRepo adapter.OrganizationRepository,
	txnRepo adapter.TransactionRepository,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		orgRepo: orgRepo,
		txnRepo: txnRepo,
	}
}

// Execute computes the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if _, err := uc.orgRepo.FindByID(ctx, input.OrganizationID); err != nil {
		return nil, err
	}

	filter := adapter.TransactionFilter{
		OrganizationID: input.OrganizationID,
		FinancialYear:  input.FinancialYear,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	}

	totals, err := uc.txnRepo.GetTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	expenseType := entity.TransactionTypeExpense
	expenseFilter := filter
	expenseFilter.Type = &expenseType
	categoryTotals, err := uc.txnRepo.GetCategoryTotals(ctx, expenseFilter)
	if err != nil {
		return nil, err
	}

	expenseTotal := decimal.NewFromInt(totals.ExpenseTotal)
	categories := make([]CategoryShare, 0, len(categoryTotals))
	for _, ct := range categoryTotals {
		var percentage float64
		if !expenseTotal.IsZero() {
			pct := decimal.NewFromInt(ct.Amount).
				Mul(decimal.NewFromInt(100)).
				Div(expenseTotal)
			percentage, _ = pct.Round(2).Float64()
		}
		categories = append(categories, CategoryShare{
			CategoryKey:      ct.CategoryKey,
			FriendlyCategory: ct.FriendlyCategory,
			Amount:           ct.Amount,
			Percentage:       percentage,
			TransactionCount: ct.TransactionCount,
		})
	}

	return &GetSummaryOutput{
		IncomeTotal:  totals.IncomeTotal,
		ExpenseTotal: totals.ExpenseTotal,
		NetTotal:     totals.NetTotal,
		Categories:   categories,
	}, nil
}

package dto

import (
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/summary"
)

// CategoryShareResponse is one expense category with its share of the total.
type CategoryShareResponse struct {
	CategoryKey      string  `json:"category_key"`
	FriendlyCategory string  `json:"friendly_category"`
	Amount           int64   `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transaction_count"`
}

// SummaryResponse is the financial summary payload.
type SummaryResponse struct {
	IncomeTotal  int64                   `json:"income_total"`
	ExpenseTotal int64                   `json:"expense_total"`
	NetTotal     int64                   `json:"net_total"`
	Categories   []CategoryShareResponse `json:"categories"`
}

// ToSummaryResponse converts a summary outcome to its response form.
func ToSummaryResponse(output *summary.GetSummaryOutput) SummaryResponse {
	categories := make([]CategoryShareResponse, len(output.Categories))
	for i, c := range output.Categories {
		categories[i] = CategoryShareResponse{
			CategoryKey:      c.CategoryKey,
			FriendlyCategory: c.FriendlyCategory,
			Amount:           c.Amount,
			Percentage:       c.Percentage,
			TransactionCount: c.TransactionCount,
		}
	}
	return SummaryResponse{
		IncomeTotal:  output.IncomeTotal,
		ExpenseTotal: output.ExpenseTotal,
		NetTotal:     output.NetTotal,
		Categories:   categories,
	}
}

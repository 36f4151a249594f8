// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// TransactionFilter defines filter options for querying transactions.
type TransactionFilter struct {
	OrganizationID uuid.UUID
	FinancialYear  *int
	StartDate      *time.Time
	EndDate        *time.Time
	Type           *entity.TransactionType
	CategoryKey    string
	Search         string // Case-insensitive description match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*entity.Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// TransactionTotals represents aggregated yen totals for transactions.
// Offsetting rows are excluded.
type TransactionTotals struct {
	IncomeTotal  int64
	ExpenseTotal int64
	NetTotal     int64
}

// CategoryTotal represents the aggregated amount for one friendly category.
type CategoryTotal struct {
	CategoryKey      string
	FriendlyCategory string
	Amount           int64
	TransactionCount int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// FindExistingHashes returns the subset of the given dedup hashes that are
	// already stored for the organization.
	FindExistingHashes(ctx context.Context, orgID uuid.UUID, hashes []string) (map[string]struct{}, error)

	// Insert creates a single transaction. It returns
	// domainerror.ErrDuplicateTransaction when a row with the same hash
	// already exists for the organization.
	Insert(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*TransactionListResult, error)

	// FindAllByFilter retrieves all transactions matching the filter, without
	// pagination. Feeds the Sankey aggregator.
	FindAllByFilter(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// GetTotals calculates income/expense totals for the filter, excluding
	// offsetting rows.
	GetTotals(ctx context.Context, filter TransactionFilter) (*TransactionTotals, error)

	// GetCategoryTotals aggregates amounts per friendly category for the filter.
	GetCategoryTotals(ctx context.Context, filter TransactionFilter) ([]CategoryTotal, error)

	// Update updates an existing transaction.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

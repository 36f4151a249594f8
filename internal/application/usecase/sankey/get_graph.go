package sankey

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
)

// GetGraphInput represents the input for building a Sankey graph.
type GetGraphInput struct {
	OrganizationID uuid.UUID
	FinancialYear  *int
	StartDate      *time.Time
	EndDate        *time.Time
}

// GetGraphUseCase reads persisted transactions and aggregates them into a
// Sankey graph, serving whole-financial-year graphs from the cache when one
// is configured.
type GetGraphUseCase struct {
	orgRepo adapter.OrganizationRepository
	txnRepo adapter.TransactionRepository
	cache   adapter.SankeyCache // optional
}

// NewGetGraphUseCase creates a new GetGraphUseCase instance. cache may be nil.
func NewGetGraphUseCase(
	orgRepo adapter.OrganizationRepository,
	txnRepo adapter.TransactionRepository,
	cache adapter.SankeyCache,
) *GetGraphUseCase {
	return &GetGraphUseCase{
		orgRepo: orgRepo,
		txnRepo: txnRepo,
		cache:   cache,
	}
}

// Execute builds the graph for the organization and filters.
func (uc *GetGraphUseCase) Execute(ctx context.Context, input GetGraphInput) (*Graph, error) {
	if _, err := uc.orgRepo.FindByID(ctx, input.OrganizationID); err != nil {
		return nil, err
	}

	// Only plain whole-year graphs are cached; date-bounded queries always
	// hit the repository.
	cacheable := uc.cache != nil && input.FinancialYear != nil &&
		input.StartDate == nil && input.EndDate == nil

	if cacheable {
		payload, err := uc.cache.Get(ctx, input.OrganizationID, *input.FinancialYear)
		if err != nil {
			slog.Warn("Sankey cache read failed",
				"organizationID", input.OrganizationID,
				"error", err,
			)
		} else if payload != nil {
			var graph Graph
			if err := json.Unmarshal(payload, &graph); err == nil {
				return &graph, nil
			}
			slog.Warn("Discarding malformed sankey cache entry",
				"organizationID", input.OrganizationID,
			)
		}
	}

	transactions, err := uc.txnRepo.FindAllByFilter(ctx, adapter.TransactionFilter{
		OrganizationID: input.OrganizationID,
		FinancialYear:  input.FinancialYear,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	graph := Aggregate(transactions)

	if cacheable {
		if payload, err := json.Marshal(graph); err == nil {
			if err := uc.cache.Set(ctx, input.OrganizationID, *input.FinancialYear, payload); err != nil {
				slog.Warn("Sankey cache write failed",
					"organizationID", input.OrganizationID,
					"error", err,
				)
			}
		}
	}

	return graph, nil
}

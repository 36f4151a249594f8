package transaction

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
)

// DeleteTransactionUseCase removes a transaction by ID.
type DeleteTransactionUseCase struct {
	txnRepo adapter.TransactionRepository
	cache   adapter.SankeyCache // optional
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	txnRepo adapter.TransactionRepository,
	cache adapter.SankeyCache,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		txnRepo: txnRepo,
		cache:   cache,
	}
}

// Execute deletes the transaction.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	txn, err := uc.txnRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.txnRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, txn.OrganizationID); err != nil {
			slog.Warn("Failed to invalidate sankey cache after delete",
				"organizationID", txn.OrganizationID,
				"error", err,
			)
		}
	}
	return nil
}

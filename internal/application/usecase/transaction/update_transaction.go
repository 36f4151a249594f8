package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/importer"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for a manual correction.
// Nil pointers leave the field unchanged.
type UpdateTransactionInput struct {
	ID uuid.UUID

	Date          *time.Time
	DebitAccount  *string
	DebitAmount   *int64
	CreditAccount *string
	CreditAmount  *int64
	Description   *string
	Memo          *string
}

// UpdateTransactionUseCase handles manual corrections of persisted rows.
// Classification, financial year and the dedup hash are recomputed from the
// corrected fields, keeping idempotent re-import guarantees intact.
type UpdateTransactionUseCase struct {
	txnRepo              adapter.TransactionRepository
	classifier           *importer.Classifier
	cache                adapter.SankeyCache // optional
	fiscalYearStartMonth int
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	txnRepo adapter.TransactionRepository,
	classifier *importer.Classifier,
	cache adapter.SankeyCache,
	fiscalYearStartMonth int,
) *UpdateTransactionUseCase {
	if fiscalYearStartMonth < 1 || fiscalYearStartMonth > 12 {
		fiscalYearStartMonth = 1
	}
	return &UpdateTransactionUseCase{
		txnRepo:              txnRepo,
		classifier:           classifier,
		cache:                cache,
		fiscalYearStartMonth: fiscalYearStartMonth,
	}
}

// Execute applies the correction and returns the updated transaction.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*entity.Transaction, error) {
	txn, err := uc.txnRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		txn.Date = *input.Date
	}
	if input.DebitAccount != nil {
		txn.DebitAccount = *input.DebitAccount
	}
	if input.DebitAmount != nil {
		txn.DebitAmount = *input.DebitAmount
	}
	if input.CreditAccount != nil {
		txn.CreditAccount = *input.CreditAccount
	}
	if input.CreditAmount != nil {
		txn.CreditAmount = *input.CreditAmount
	}
	if input.Description != nil {
		txn.Description = *input.Description
	}
	if input.Memo != nil {
		txn.Memo = *input.Memo
	}

	if err := validateCorrected(txn); err != nil {
		return nil, err
	}

	row := importer.ParsedRow{
		Date:             txn.Date,
		DebitAccount:     txn.DebitAccount,
		DebitSubAccount:  txn.DebitSubAccount,
		DebitDepartment:  txn.DebitDepartment,
		DebitPartner:     txn.DebitPartner,
		DebitTaxCategory: txn.DebitTaxCategory,
		DebitAmount:      txn.DebitAmount,

		CreditAccount:     txn.CreditAccount,
		CreditSubAccount:  txn.CreditSubAccount,
		CreditDepartment:  txn.CreditDepartment,
		CreditPartner:     txn.CreditPartner,
		CreditTaxCategory: txn.CreditTaxCategory,
		CreditAmount:      txn.CreditAmount,

		Description: txn.Description,
		Memo:        txn.Memo,
	}
	classified := uc.classifier.Classify(row)

	txn.Type = classified.Type
	txn.CategoryKey = classified.CategoryKey
	txn.FriendlyCategory = classified.FriendlyCategory
	txn.Label = classified.Label
	txn.FinancialYear = importer.FinancialYear(txn.Date, uc.fiscalYearStartMonth)
	txn.Hash = importer.ComputeHash(txn.OrganizationID, row)
	txn.UpdatedAt = time.Now().UTC()

	if err := uc.txnRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, txn.OrganizationID)
	return txn, nil
}

func (uc *UpdateTransactionUseCase) invalidateCache(ctx context.Context, orgID uuid.UUID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, orgID); err != nil {
		slog.Warn("Failed to invalidate sankey cache after correction",
			"organizationID", orgID,
			"error", err,
		)
	}
}

func validateCorrected(txn *entity.Transaction) error {
	if txn.Date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"transaction date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if txn.DebitAccount == "" || txn.CreditAccount == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingAccount,
			"debit and credit accounts are required",
			domainerror.ErrMissingAccount,
		)
	}
	if txn.DebitAmount < 0 || txn.CreditAmount < 0 {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must not be negative",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if txn.DebitAmount == 0 && txn.CreditAmount == 0 {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be positive",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

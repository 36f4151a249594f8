package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// CommitRow is one caller-supplied row to persist. It carries the structural
// fields only; classification, hash and financial year are recomputed server
// side rather than trusted from the preview payload.
type CommitRow struct {
	Line int

	Date time.Time

	DebitAccount     string
	DebitSubAccount  string
	DebitDepartment  string
	DebitPartner     string
	DebitTaxCategory string
	DebitAmount      int64

	CreditAccount     string
	CreditSubAccount  string
	CreditDepartment  string
	CreditPartner     string
	CreditTaxCategory string
	CreditAmount      int64

	Description string
	Memo        string
}

// CommitRowError reports a row that could not be committed.
type CommitRowError struct {
	Line   int
	Reason string
}

// CommitInput represents the input for committing previewed rows.
type CommitInput struct {
	OrganizationID uuid.UUID
	Rows           []CommitRow
}

// CommitOutput represents the outcome of a commit.
type CommitOutput struct {
	ProcessedCount int
	SavedCount     int
	SkippedCount   int
	Errors         []CommitRowError
}

// CommitUseCase persists previewed rows. Rows are re-validated and re-hashed,
// duplicates are skipped, and a persistence failure on one row does not block
// the rest. Re-submitting the same batch is safe: inserts are hash-guarded.
type CommitUseCase struct {
	orgRepo              adapter.OrganizationRepository
	txnRepo              adapter.TransactionRepository
	classifier           *Classifier
	cache                adapter.SankeyCache // optional
	fiscalYearStartMonth int
}

// NewCommitUseCase creates a new CommitUseCase instance. cache may be nil.
func NewCommitUseCase(
	orgRepo adapter.OrganizationRepository,
	txnRepo adapter.TransactionRepository,
	classifier *Classifier,
	cache adapter.SankeyCache,
	fiscalYearStartMonth int,
) *CommitUseCase {
	if fiscalYearStartMonth < 1 || fiscalYearStartMonth > 12 {
		fiscalYearStartMonth = 1
	}
	return &CommitUseCase{
		orgRepo:              orgRepo,
		txnRepo:              txnRepo,
		classifier:           classifier,
		cache:                cache,
		fiscalYearStartMonth: fiscalYearStartMonth,
	}
}

// Execute performs the commit.
func (uc *CommitUseCase) Execute(ctx context.Context, input CommitInput) (*CommitOutput, error) {
	if _, err := uc.orgRepo.FindByID(ctx, input.OrganizationID); err != nil {
		return nil, err
	}
	if len(input.Rows) == 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeEmptyCommit,
			"at least one transaction is required",
			domainerror.ErrNoDataRows,
		)
	}

	output := &CommitOutput{ProcessedCount: len(input.Rows)}

	// Re-validate and re-hash every row before touching storage.
	type candidate struct {
		row  ParsedRow
		hash string
	}
	candidates := make([]candidate, 0, len(input.Rows))
	hashes := make([]string, 0, len(input.Rows))
	for _, commitRow := range input.Rows {
		row, reason := validateCommitRow(commitRow)
		if reason != "" {
			output.Errors = append(output.Errors, CommitRowError{Line: commitRow.Line, Reason: reason})
			continue
		}
		hash := ComputeHash(input.OrganizationID, row)
		candidates = append(candidates, candidate{row: row, hash: hash})
		hashes = append(hashes, hash)
	}

	existing, err := uc.txnRepo.FindExistingHashes(ctx, input.OrganizationID, hashes)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternalError,
			"failed to look up existing transactions",
			err,
		)
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(candidates))
	for _, cand := range candidates {
		if _, dup := existing[cand.hash]; dup {
			output.SkippedCount++
			continue
		}
		if _, dup := seen[cand.hash]; dup {
			output.SkippedCount++
			continue
		}
		seen[cand.hash] = struct{}{}

		classified := uc.classifier.Classify(cand.row)
		txn := uc.buildTransaction(input.OrganizationID, classified, cand.hash, now)

		if err := uc.txnRepo.Insert(ctx, txn); err != nil {
			// A concurrent import may have landed the same hash after the
			// lookup; count it as skipped rather than failed.
			if isDuplicate(err) {
				output.SkippedCount++
				continue
			}
			output.Errors = append(output.Errors, CommitRowError{
				Line:   cand.row.Line,
				Reason: fmt.Sprintf("failed to save transaction: %v", err),
			})
			continue
		}
		output.SavedCount++
	}

	if uc.cache != nil && output.SavedCount > 0 {
		if err := uc.cache.Invalidate(ctx, input.OrganizationID); err != nil {
			slog.Warn("Failed to invalidate sankey cache after commit",
				"organizationID", input.OrganizationID,
				"error", err,
			)
		}
	}

	return output, nil
}

func (uc *CommitUseCase) buildTransaction(
	orgID uuid.UUID,
	classified Classified,
	hash string,
	now time.Time,
) *entity.Transaction {
	return &entity.Transaction{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Date:           classified.Date,
		FinancialYear:  FinancialYear(classified.Date, uc.fiscalYearStartMonth),

		Type:             classified.Type,
		CategoryKey:      classified.CategoryKey,
		FriendlyCategory: classified.FriendlyCategory,
		Label:            classified.Label,

		DebitAccount:     classified.DebitAccount,
		DebitSubAccount:  classified.DebitSubAccount,
		DebitDepartment:  classified.DebitDepartment,
		DebitPartner:     classified.DebitPartner,
		DebitTaxCategory: classified.DebitTaxCategory,
		DebitAmount:      classified.DebitAmount,

		CreditAccount:     classified.CreditAccount,
		CreditSubAccount:  classified.CreditSubAccount,
		CreditDepartment:  classified.CreditDepartment,
		CreditPartner:     classified.CreditPartner,
		CreditTaxCategory: classified.CreditTaxCategory,
		CreditAmount:      classified.CreditAmount,

		Description: classified.Description,
		Memo:        classified.Memo,
		Hash:        hash,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// validateCommitRow applies the same row rules as the parser to structured
// input. A non-empty reason rejects the row.
func validateCommitRow(row CommitRow) (ParsedRow, string) {
	if row.Date.IsZero() {
		return ParsedRow{}, "transaction date is required"
	}
	if row.DebitAccount == "" {
		return ParsedRow{}, "debit account is required"
	}
	if row.CreditAccount == "" {
		return ParsedRow{}, "credit account is required"
	}
	if row.DebitAmount < 0 || row.CreditAmount < 0 {
		return ParsedRow{}, "amount must not be negative"
	}
	if row.DebitAmount == 0 && row.CreditAmount == 0 {
		return ParsedRow{}, "amount must be positive"
	}

	return ParsedRow{
		Line: row.Line,
		Date: row.Date,

		DebitAccount:     row.DebitAccount,
		DebitSubAccount:  row.DebitSubAccount,
		DebitDepartment:  row.DebitDepartment,
		DebitPartner:     row.DebitPartner,
		DebitTaxCategory: row.DebitTaxCategory,
		DebitAmount:      row.DebitAmount,

		CreditAccount:     row.CreditAccount,
		CreditSubAccount:  row.CreditSubAccount,
		CreditDepartment:  row.CreditDepartment,
		CreditPartner:     row.CreditPartner,
		CreditTaxCategory: row.CreditTaxCategory,
		CreditAmount:      row.CreditAmount,

		Description: row.Description,
		Memo:        row.Memo,
	}, ""
}

// FinancialYear returns the reporting year of a date under the given fiscal
// year start month. With startMonth 1 this is the calendar year; with 4,
// March 2025 belongs to fiscal year 2024.
func FinancialYear(date time.Time, startMonth int) int {
	if startMonth <= 1 {
		return date.Year()
	}
	if int(date.Month()) >= startMonth {
		return date.Year()
	}
	return date.Year() - 1
}

func isDuplicate(err error) bool {
	return errors.Is(err, domainerror.ErrDuplicateTransaction)
}

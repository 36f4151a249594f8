package dto

import (
	"fmt"
	"time"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/importer"
)

const apiDateFormat = "2006-01-02"

// PreviewTransactionResponse is one valid parsed row in a preview response.
type PreviewTransactionResponse struct {
	Line             int    `json:"line"`
	Date             string `json:"date"`
	Type             string `json:"type"`
	CategoryKey      string `json:"category_key"`
	FriendlyCategory string `json:"friendly_category"`
	Label            string `json:"label"`

	DebitAccount     string `json:"debit_account"`
	DebitSubAccount  string `json:"debit_sub_account,omitempty"`
	DebitDepartment  string `json:"debit_department,omitempty"`
	DebitPartner     string `json:"debit_partner,omitempty"`
	DebitTaxCategory string `json:"debit_tax_category,omitempty"`
	DebitAmount      int64  `json:"debit_amount"`

	CreditAccount     string `json:"credit_account"`
	CreditSubAccount  string `json:"credit_sub_account,omitempty"`
	CreditDepartment  string `json:"credit_department,omitempty"`
	CreditPartner     string `json:"credit_partner,omitempty"`
	CreditTaxCategory string `json:"credit_tax_category,omitempty"`
	CreditAmount      int64  `json:"credit_amount"`

	Description string `json:"description,omitempty"`
	Memo        string `json:"memo,omitempty"`

	Hash      string `json:"hash"`
	Duplicate bool   `json:"duplicate"`
}

// InvalidRowResponse is one rejected row in a preview response.
type InvalidRowResponse struct {
	Line   int      `json:"line"`
	Cells  []string `json:"cells,omitempty"`
	Reason string   `json:"reason"`
}

// PreviewResponse is the outcome of a dry-run upload.
type PreviewResponse struct {
	ValidCount     int                          `json:"valid_count"`
	InvalidCount   int                          `json:"invalid_count"`
	DuplicateCount int                          `json:"duplicate_count"`
	Transactions   []PreviewTransactionResponse `json:"transactions"`
	InvalidRows    []InvalidRowResponse         `json:"invalid_rows"`
}

// ToPreviewResponse converts a preview outcome to its response form.
func ToPreviewResponse(output *importer.PreviewOutput) PreviewResponse {
	transactions := make([]PreviewTransactionResponse, len(output.ValidTransactions))
	for i, t := range output.ValidTransactions {
		transactions[i] = PreviewTransactionResponse{
			Line:             t.Line,
			Date:             t.Date.Format(apiDateFormat),
			Type:             string(t.Type),
			CategoryKey:      t.CategoryKey,
			FriendlyCategory: t.FriendlyCategory,
			Label:            t.Label,

			DebitAccount:     t.DebitAccount,
			DebitSubAccount:  t.DebitSubAccount,
			DebitDepartment:  t.DebitDepartment,
			DebitPartner:     t.DebitPartner,
			DebitTaxCategory: t.DebitTaxCategory,
			DebitAmount:      t.DebitAmount,

			CreditAccount:     t.CreditAccount,
			CreditSubAccount:  t.CreditSubAccount,
			CreditDepartment:  t.CreditDepartment,
			CreditPartner:     t.CreditPartner,
			CreditTaxCategory: t.CreditTaxCategory,
			CreditAmount:      t.CreditAmount,

			Description: t.Description,
			Memo:        t.Memo,

			Hash:      t.Hash,
			Duplicate: t.Duplicate,
		}
	}

	invalid := make([]InvalidRowResponse, len(output.InvalidRows))
	for i, r := range output.InvalidRows {
		invalid[i] = InvalidRowResponse{
			Line:   r.Line,
			Cells:  r.Cells,
			Reason: r.Reason,
		}
	}

	return PreviewResponse{
		ValidCount:     len(transactions),
		InvalidCount:   len(invalid),
		DuplicateCount: output.DuplicateCount,
		Transactions:   transactions,
		InvalidRows:    invalid,
	}
}

// CommitRowRequest is one row to persist in a commit request.
type CommitRowRequest struct {
	Line int    `json:"line"`
	Date string `json:"date" binding:"required"`

	DebitAccount     string `json:"debit_account" binding:"required"`
	DebitSubAccount  string `json:"debit_sub_account"`
	DebitDepartment  string `json:"debit_department"`
	DebitPartner     string `json:"debit_partner"`
	DebitTaxCategory string `json:"debit_tax_category"`
	DebitAmount      int64  `json:"debit_amount"`

	CreditAccount     string `json:"credit_account" binding:"required"`
	CreditSubAccount  string `json:"credit_sub_account"`
	CreditDepartment  string `json:"credit_department"`
	CreditPartner     string `json:"credit_partner"`
	CreditTaxCategory string `json:"credit_tax_category"`
	CreditAmount      int64  `json:"credit_amount"`

	Description string `json:"description"`
	Memo        string `json:"memo"`
}

// CommitRequest is the payload for persisting previewed rows.
type CommitRequest struct {
	Transactions []CommitRowRequest `json:"transactions" binding:"required"`
}

// ToCommitRows converts the request rows into use case rows. Rows with an
// unparsable date are returned as errors rather than silently dropped.
func (r CommitRequest) ToCommitRows() ([]importer.CommitRow, []CommitErrorResponse) {
	rows := make([]importer.CommitRow, 0, len(r.Transactions))
	var invalid []CommitErrorResponse
	for _, t := range r.Transactions {
		date, err := time.Parse(apiDateFormat, t.Date)
		if err != nil {
			invalid = append(invalid, CommitErrorResponse{
				Line:   t.Line,
				Reason: fmt.Sprintf("unparsable date %q", t.Date),
			})
			continue
		}
		rows = append(rows, importer.CommitRow{
			Line: t.Line,
			Date: date,

			DebitAccount:     t.DebitAccount,
			DebitSubAccount:  t.DebitSubAccount,
			DebitDepartment:  t.DebitDepartment,
			DebitPartner:     t.DebitPartner,
			DebitTaxCategory: t.DebitTaxCategory,
			DebitAmount:      t.DebitAmount,

			CreditAccount:     t.CreditAccount,
			CreditSubAccount:  t.CreditSubAccount,
			CreditDepartment:  t.CreditDepartment,
			CreditPartner:     t.CreditPartner,
			CreditTaxCategory: t.CreditTaxCategory,
			CreditAmount:      t.CreditAmount,

			Description: t.Description,
			Memo:        t.Memo,
		})
	}
	return rows, invalid
}

// CommitErrorResponse reports one row that failed to commit.
type CommitErrorResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// CommitResponse is the outcome of a commit.
type CommitResponse struct {
	ProcessedCount int                   `json:"processed_count"`
	SavedCount     int                   `json:"saved_count"`
	SkippedCount   int                   `json:"skipped_count"`
	Errors         []CommitErrorResponse `json:"errors"`
}

// ToCommitResponse converts a commit outcome to its response form, appending
// any rows already rejected during request decoding.
func ToCommitResponse(output *importer.CommitOutput, decodeErrors []CommitErrorResponse) CommitResponse {
	errs := make([]CommitErrorResponse, 0, len(output.Errors)+len(decodeErrors))
	errs = append(errs, decodeErrors...)
	for _, e := range output.Errors {
		errs = append(errs, CommitErrorResponse{Line: e.Line, Reason: e.Reason})
	}
	return CommitResponse{
		ProcessedCount: output.ProcessedCount + len(decodeErrors),
		SavedCount:     output.SavedCount,
		SkippedCount:   output.SkippedCount,
		Errors:         errs,
	}
}

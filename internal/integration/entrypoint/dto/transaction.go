package dto

import (
	"time"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// TransactionResponse represents a persisted transaction in API responses.
type TransactionResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Date           string `json:"date"`
	FinancialYear  int    `json:"financial_year"`

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

	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	Memo        string `json:"memo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTransactionsResponse wraps the paginated transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// UpdateTransactionRequest is the payload for a manual correction. Absent
// fields leave the stored value unchanged.
type UpdateTransactionRequest struct {
	Date          *string `json:"date"`
	DebitAccount  *string `json:"debit_account"`
	DebitAmount   *int64  `json:"debit_amount"`
	CreditAccount *string `json:"credit_account"`
	CreditAmount  *int64  `json:"credit_amount"`
	Description   *string `json:"description"`
	Memo          *string `json:"memo"`
}

// ToTransactionResponse converts a Transaction entity to its response form.
func ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             txn.ID.String(),
		OrganizationID: txn.OrganizationID.String(),
		Date:           txn.Date.Format(apiDateFormat),
		FinancialYear:  txn.FinancialYear,

		Type:             string(txn.Type),
		CategoryKey:      txn.CategoryKey,
		FriendlyCategory: txn.FriendlyCategory,
		Label:            txn.Label,

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

		Amount:      txn.Amount(),
		Description: txn.Description,
		Memo:        txn.Memo,

		CreatedAt: txn.CreatedAt,
		UpdatedAt: txn.UpdatedAt,
	}
}

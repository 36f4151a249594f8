// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the normalized type of a journal row.
type TransactionType string

const (
	TransactionTypeIncome        TransactionType = "income"
	TransactionTypeExpense       TransactionType = "expense"
	TransactionTypeOffsetIncome  TransactionType = "offset_income"
	TransactionTypeOffsetExpense TransactionType = "offset_expense"
)

// IsOffset reports whether the type is an internal transfer/correction.
// Offsetting rows are excluded from income/expense totals and from the
// Sankey graph.
func (t TransactionType) IsOffset() bool {
	return t == TransactionTypeOffsetIncome || t == TransactionTypeOffsetExpense
}

// IsValid reports whether the type is one of the known variants.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense,
		TransactionTypeOffsetIncome, TransactionTypeOffsetExpense:
		return true
	}
	return false
}

// Transaction represents one double-entry ledger row of a political
// organization. Amounts are exact yen, no fractional units.
type Transaction struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Date           time.Time
	FinancialYear  int

	Type             TransactionType
	CategoryKey      string
	FriendlyCategory string
	Label            string

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

	// Hash is the dedup fingerprint over the canonical row fields. Two rows
	// with the same hash are the same economic event.
	Hash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Amount returns the flow amount of the row, taken from the side that holds
// the dominant (non-cash) account for the row's type.
func (t *Transaction) Amount() int64 {
	switch t.Type {
	case TransactionTypeIncome, TransactionTypeOffsetIncome:
		if t.CreditAmount != 0 {
			return t.CreditAmount
		}
		return t.DebitAmount
	default:
		if t.DebitAmount != 0 {
			return t.DebitAmount
		}
		return t.CreditAmount
	}
}

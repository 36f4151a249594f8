// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// The (organization_id, dedup_hash) pair is unique: committing the same
// economic event twice is rejected by the database itself.
type TransactionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_org_hash"`
	Date           time.Time `gorm:"type:date;not null;index"`
	FinancialYear  int       `gorm:"not null;index"`

	Type             string `gorm:"type:varchar(16);not null;index"`
	CategoryKey      string `gorm:"type:varchar(64);not null;index"`
	FriendlyCategory string `gorm:"type:varchar(255);not null"`
	Label            string `gorm:"type:varchar(255);not null"`

	DebitAccount     string `gorm:"type:varchar(255);not null"`
	DebitSubAccount  string `gorm:"type:varchar(255)"`
	DebitDepartment  string `gorm:"type:varchar(255)"`
	DebitPartner     string `gorm:"type:varchar(255)"`
	DebitTaxCategory string `gorm:"type:varchar(64)"`
	DebitAmount      int64  `gorm:"not null"`

	CreditAccount     string `gorm:"type:varchar(255);not null"`
	CreditSubAccount  string `gorm:"type:varchar(255)"`
	CreditDepartment  string `gorm:"type:varchar(255)"`
	CreditPartner     string `gorm:"type:varchar(255)"`
	CreditTaxCategory string `gorm:"type:varchar(64)"`
	CreditAmount      int64  `gorm:"not null"`

	Description string `gorm:"type:text"`
	Memo        string `gorm:"type:text"`

	DedupHash string `gorm:"type:varchar(64);not null;uniqueIndex:idx_org_hash"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Organization *OrganizationModel `gorm:"foreignKey:OrganizationID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Date:           m.Date,
		FinancialYear:  m.FinancialYear,

		Type:             entity.TransactionType(m.Type),
		CategoryKey:      m.CategoryKey,
		FriendlyCategory: m.FriendlyCategory,
		Label:            m.Label,

		DebitAccount:     m.DebitAccount,
		DebitSubAccount:  m.DebitSubAccount,
		DebitDepartment:  m.DebitDepartment,
		DebitPartner:     m.DebitPartner,
		DebitTaxCategory: m.DebitTaxCategory,
		DebitAmount:      m.DebitAmount,

		CreditAccount:     m.CreditAccount,
		CreditSubAccount:  m.CreditSubAccount,
		CreditDepartment:  m.CreditDepartment,
		CreditPartner:     m.CreditPartner,
		CreditTaxCategory: m.CreditTaxCategory,
		CreditAmount:      m.CreditAmount,

		Description: m.Description,
		Memo:        m.Memo,
		Hash:        m.DedupHash,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:             transaction.ID,
		OrganizationID: transaction.OrganizationID,
		Date:           transaction.Date,
		FinancialYear:  transaction.FinancialYear,

		Type:             string(transaction.Type),
		CategoryKey:      transaction.CategoryKey,
		FriendlyCategory: transaction.FriendlyCategory,
		Label:            transaction.Label,

		DebitAccount:     transaction.DebitAccount,
		DebitSubAccount:  transaction.DebitSubAccount,
		DebitDepartment:  transaction.DebitDepartment,
		DebitPartner:     transaction.DebitPartner,
		DebitTaxCategory: transaction.DebitTaxCategory,
		DebitAmount:      transaction.DebitAmount,

		CreditAccount:     transaction.CreditAccount,
		CreditSubAccount:  transaction.CreditSubAccount,
		CreditDepartment:  transaction.CreditDepartment,
		CreditPartner:     transaction.CreditPartner,
		CreditTaxCategory: transaction.CreditTaxCategory,
		CreditAmount:      transaction.CreditAmount,

		Description: transaction.Description,
		Memo:        transaction.Memo,
		DedupHash:   transaction.Hash,

		CreatedAt: transaction.CreatedAt,
		UpdatedAt: transaction.UpdatedAt,
	}
}

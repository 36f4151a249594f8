// Package persistence implements repository interfaces using GORM.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence/model"
)

// TransactionRepository implements the adapter.TransactionRepository interface using GORM.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository instance.
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) FindExistingHashes(ctx context.Context, orgID uuid.UUID, hashes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(hashes))
	if len(hashes) == 0 {
		return existing, nil
	}

	var stored []string
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("organization_id = ? AND dedup_hash IN ?", orgID, hashes).
		Pluck("dedup_hash", &stored).Error
	if err != nil {
		return nil, err
	}

	for _, h := range stored {
		existing[h] = struct{}{}
	}
	return existing, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, transaction *entity.Transaction) error {
	m := model.TransactionFromEntity(transaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainerror.ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var m model.TransactionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *TransactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	var models []model.TransactionModel
	err := query.
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}

	totalPages := int(total) / pagination.Limit
	if int(total)%pagination.Limit > 0 {
		totalPages++
	}

	return &adapter.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

func (r *TransactionRepository) FindAllByFilter(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	var models []model.TransactionModel
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter).
		Order("date ASC, created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}

func (r *TransactionRepository) GetTotals(ctx context.Context, filter adapter.TransactionFilter) (*adapter.TransactionTotals, error) {
	var result struct {
		IncomeTotal  int64
		ExpenseTotal int64
	}

	// One-sided rows store 0 on the blank side; fall back to the populated
	// side, matching entity.Transaction.Amount.
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter).
		Select(`
			COALESCE(SUM(CASE WHEN type = ? THEN CASE WHEN credit_amount <> 0 THEN credit_amount ELSE debit_amount END ELSE 0 END), 0) as income_total,
			COALESCE(SUM(CASE WHEN type = ? THEN CASE WHEN debit_amount <> 0 THEN debit_amount ELSE credit_amount END ELSE 0 END), 0) as expense_total`,
			string(entity.TransactionTypeIncome), string(entity.TransactionTypeExpense)).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &adapter.TransactionTotals{
		IncomeTotal:  result.IncomeTotal,
		ExpenseTotal: result.ExpenseTotal,
		NetTotal:     result.IncomeTotal - result.ExpenseTotal,
	}, nil
}

func (r *TransactionRepository) GetCategoryTotals(ctx context.Context, filter adapter.TransactionFilter) ([]adapter.CategoryTotal, error) {
	var rows []struct {
		CategoryKey      string
		FriendlyCategory string
		Amount           int64
		TransactionCount int
	}

	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter).
		Select(`
			category_key,
			friendly_category,
			COALESCE(SUM(CASE WHEN type = ? THEN CASE WHEN credit_amount <> 0 THEN credit_amount ELSE debit_amount END ELSE CASE WHEN debit_amount <> 0 THEN debit_amount ELSE credit_amount END END), 0) as amount,
			COUNT(*) as transaction_count`,
			string(entity.TransactionTypeIncome)).
		Group("category_key, friendly_category").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]adapter.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.CategoryTotal{
			CategoryKey:      row.CategoryKey,
			FriendlyCategory: row.FriendlyCategory,
			Amount:           row.Amount,
			TransactionCount: row.TransactionCount,
		}
	}
	return totals, nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	m := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", transaction.ID).
		Select("*").
		Omit("id", "organization_id", "created_at").
		Updates(m)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domainerror.ErrDuplicateTransaction
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) applyFilter(query *gorm.DB, filter adapter.TransactionFilter) *gorm.DB {
	query = query.Where("organization_id = ?", filter.OrganizationID)

	if filter.FinancialYear != nil {
		query = query.Where("financial_year = ?", *filter.FinancialYear)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.CategoryKey != "" {
		query = query.Where("category_key = ?", filter.CategoryKey)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	return query
}

// isDuplicateErr reports whether err came from a unique constraint violation.
// Both the postgres and sqlite drivers are covered.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

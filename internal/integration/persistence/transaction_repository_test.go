package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence/model"
)

var testDBCounter int

// newTestDB opens a fresh in-memory database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.OrganizationModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedOrganization(t *testing.T, db *gorm.DB) *entity.Organization {
	t.Helper()

	org := entity.NewOrganization("チームみらい", "team-mirai", "")
	if err := NewOrganizationRepository(db).Create(context.Background(), org); err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
	return org
}

func buildTransaction(orgID uuid.UUID, day int, txnType entity.TransactionType, hash string) *entity.Transaction {
	now := time.Now().UTC()
	amount := int64(10000)
	return &entity.Transaction{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Date:           time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		FinancialYear:  2025,

		Type:             txnType,
		CategoryKey:      "donation_individual",
		FriendlyCategory: "個人献金",
		Label:            "個人からの寄附",

		DebitAccount:  "現金",
		DebitAmount:   amount,
		CreditAccount: "個人からの寄附",
		CreditAmount:  amount,

		Description: "寄附受領",
		Hash:        hash,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTransactionRepository_InsertAndDedup(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("inserts and reads back", func(t *testing.T) {
		txn := buildTransaction(org.ID, 10, entity.TransactionTypeIncome, "hash-1")
		if err := repo.Insert(ctx, txn); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		got, err := repo.FindByID(ctx, txn.ID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if got.Hash != "hash-1" || got.CreditAmount != 10000 {
			t.Errorf("unexpected transaction %+v", got)
		}
	})

	t.Run("same hash for the same organization is rejected", func(t *testing.T) {
		dup := buildTransaction(org.ID, 11, entity.TransactionTypeIncome, "hash-1")
		err := repo.Insert(ctx, dup)
		if !errors.Is(err, domainerror.ErrDuplicateTransaction) {
			t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
		}
	})

	t.Run("same hash for another organization is allowed", func(t *testing.T) {
		other := entity.NewOrganization("別団体", "another-org", "")
		if err := NewOrganizationRepository(db).Create(ctx, other); err != nil {
			t.Fatalf("failed to create organization: %v", err)
		}
		txn := buildTransaction(other.ID, 10, entity.TransactionTypeIncome, "hash-1")
		if err := repo.Insert(ctx, txn); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
	})

	t.Run("FindExistingHashes returns only stored hashes", func(t *testing.T) {
		existing, err := repo.FindExistingHashes(ctx, org.ID, []string{"hash-1", "hash-unknown"})
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if _, ok := existing["hash-1"]; !ok {
			t.Error("expected hash-1 to be reported as existing")
		}
		if _, ok := existing["hash-unknown"]; ok {
			t.Error("expected hash-unknown to be absent")
		}
	})

	t.Run("FindExistingHashes with no input skips the query", func(t *testing.T) {
		existing, err := repo.FindExistingHashes(ctx, org.ID, nil)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(existing) != 0 {
			t.Errorf("expected empty result, got %v", existing)
		}
	})
}

func TestTransactionRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	income := buildTransaction(org.ID, 10, entity.TransactionTypeIncome, "q-income")
	expense := buildTransaction(org.ID, 12, entity.TransactionTypeExpense, "q-expense")
	expense.CategoryKey = "personnel"
	expense.FriendlyCategory = "人件費"
	expense.Label = "人件費"
	expense.DebitAccount = "人件費"
	expense.CreditAccount = "現金"
	expense.DebitAmount = 15000
	expense.CreditAmount = 15000
	expense.Description = "1月給与"
	offset := buildTransaction(org.ID, 14, entity.TransactionTypeOffsetIncome, "q-offset")
	offset.CreditAccount = "事業主借"

	for _, txn := range []*entity.Transaction{income, expense, offset} {
		if err := repo.Insert(ctx, txn); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	t.Run("FindByFilter paginates newest first", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{OrganizationID: org.ID},
			adapter.TransactionPagination{Page: 1, Limit: 2})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.Total != 3 {
			t.Errorf("expected total 3, got %d", result.Total)
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", result.TotalPages)
		}
		if len(result.Transactions) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(result.Transactions))
		}
		if !result.Transactions[0].Date.After(result.Transactions[1].Date) {
			t.Error("expected newest-first ordering")
		}
	})

	t.Run("FindByFilter filters by type", func(t *testing.T) {
		txnType := entity.TransactionTypeExpense
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{
			OrganizationID: org.ID,
			Type:           &txnType,
		}, adapter.TransactionPagination{Page: 1, Limit: 50})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.Total != 1 || result.Transactions[0].Hash != "q-expense" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("FindByFilter searches descriptions", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{
			OrganizationID: org.ID,
			Search:         "給与",
		}, adapter.TransactionPagination{Page: 1, Limit: 50})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.Total != 1 || result.Transactions[0].Hash != "q-expense" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("FindByFilter bounds by date", func(t *testing.T) {
		start := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{
			OrganizationID: org.ID,
			StartDate:      &start,
			EndDate:        &end,
		}, adapter.TransactionPagination{Page: 1, Limit: 50})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.Total != 1 || result.Transactions[0].Hash != "q-expense" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("FindAllByFilter returns oldest first", func(t *testing.T) {
		all, err := repo.FindAllByFilter(ctx, adapter.TransactionFilter{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(all))
		}
		if all[0].Hash != "q-income" {
			t.Errorf("expected oldest row first, got %s", all[0].Hash)
		}
	})

	t.Run("GetTotals excludes offsetting rows", func(t *testing.T) {
		totals, err := repo.GetTotals(ctx, adapter.TransactionFilter{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if totals.IncomeTotal != 10000 {
			t.Errorf("expected income 10000, got %d", totals.IncomeTotal)
		}
		if totals.ExpenseTotal != 15000 {
			t.Errorf("expected expense 15000, got %d", totals.ExpenseTotal)
		}
		if totals.NetTotal != -5000 {
			t.Errorf("expected net -5000, got %d", totals.NetTotal)
		}
	})

	t.Run("GetCategoryTotals groups by category", func(t *testing.T) {
		txnType := entity.TransactionTypeExpense
		totals, err := repo.GetCategoryTotals(ctx, adapter.TransactionFilter{
			OrganizationID: org.ID,
			Type:           &txnType,
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(totals) != 1 {
			t.Fatalf("expected 1 category, got %d", len(totals))
		}
		got := totals[0]
		if got.CategoryKey != "personnel" || got.Amount != 15000 || got.TransactionCount != 1 {
			t.Errorf("unexpected category total %+v", got)
		}
	})
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	txn := buildTransaction(org.ID, 10, entity.TransactionTypeIncome, "ud-1")
	if err := repo.Insert(ctx, txn); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	t.Run("update rewrites the row", func(t *testing.T) {
		txn.Description = "訂正済み"
		txn.Hash = "ud-1-corrected"
		if err := repo.Update(ctx, txn); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, err := repo.FindByID(ctx, txn.ID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if got.Description != "訂正済み" || got.Hash != "ud-1-corrected" {
			t.Errorf("unexpected transaction %+v", got)
		}
	})

	t.Run("update of a missing row reports not found", func(t *testing.T) {
		missing := buildTransaction(org.ID, 11, entity.TransactionTypeIncome, "ud-missing")
		err := repo.Update(ctx, missing)
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		if err := repo.Delete(ctx, txn.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := repo.FindByID(ctx, txn.ID)
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("delete of a missing row reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionRepository_TotalsWithOneSidedRows(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	// Journal exports may carry only one populated side; the blank side is
	// stored as 0 and the populated side is the flow amount.
	income := buildTransaction(org.ID, 10, entity.TransactionTypeIncome, "os-income")
	income.DebitAmount = 20000
	income.CreditAmount = 0
	if err := repo.Insert(ctx, income); err != nil {
		t.Fatalf("insert income failed: %v", err)
	}

	expense := buildTransaction(org.ID, 20, entity.TransactionTypeExpense, "os-expense")
	expense.CategoryKey = "personnel"
	expense.FriendlyCategory = "人件費"
	expense.DebitAccount = "人件費"
	expense.DebitAmount = 0
	expense.CreditAccount = "普通預金"
	expense.CreditAmount = 15000
	if err := repo.Insert(ctx, expense); err != nil {
		t.Fatalf("insert expense failed: %v", err)
	}

	t.Run("GetTotals falls back to the populated side", func(t *testing.T) {
		totals, err := repo.GetTotals(ctx, adapter.TransactionFilter{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if totals.IncomeTotal != 20000 {
			t.Errorf("expected income 20000, got %d", totals.IncomeTotal)
		}
		if totals.ExpenseTotal != 15000 {
			t.Errorf("expected expense 15000, got %d", totals.ExpenseTotal)
		}
		if totals.NetTotal != 5000 {
			t.Errorf("expected net 5000, got %d", totals.NetTotal)
		}
	})

	t.Run("GetCategoryTotals falls back to the populated side", func(t *testing.T) {
		txnType := entity.TransactionTypeIncome
		totals, err := repo.GetCategoryTotals(ctx, adapter.TransactionFilter{
			OrganizationID: org.ID,
			Type:           &txnType,
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(totals) != 1 {
			t.Fatalf("expected 1 category, got %d", len(totals))
		}
		if totals[0].Amount != 20000 {
			t.Errorf("expected amount 20000, got %d", totals[0].Amount)
		}
	})
}

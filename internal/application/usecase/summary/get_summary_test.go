package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

type stubOrgRepo struct {
	org *entity.Organization
}

func (s *stubOrgRepo) Create(ctx context.Context, org *entity.Organization) error { return nil }

func (s *stubOrgRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	if s.org != nil && s.org.ID == id {
		return s.org, nil
	}
	return nil, domainerror.ErrOrganizationNotFound
}

func (s *stubOrgRepo) FindBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	return nil, domainerror.ErrOrganizationNotFound
}

func (s *stubOrgRepo) FindAll(ctx context.Context) ([]*entity.Organization, error) { return nil, nil }

type stubTxnRepo struct {
	totals         *adapter.TransactionTotals
	categoryTotals []adapter.CategoryTotal
}

func (s *stubTxnRepo) FindExistingHashes(ctx context.Context, orgID uuid.UUID, hashes []string) (map[string]struct{}, error) {
	return nil, nil
}

func (s *stubTxnRepo) Insert(ctx context.Context, txn *entity.Transaction) error { return nil }

func (s *stubTxnRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return nil, domainerror.ErrTransactionNotFound
}

func (s *stubTxnRepo) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	return &adapter.TransactionListResult{}, nil
}

func (s *stubTxnRepo) FindAllByFilter(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	return nil, nil
}

func (s *stubTxnRepo) GetTotals(ctx context.Context, filter adapter.TransactionFilter) (*adapter.TransactionTotals, error) {
	return s.totals, nil
}

func (s *stubTxnRepo) GetCategoryTotals(ctx context.Context, filter adapter.TransactionFilter) ([]adapter.CategoryTotal, error) {
	return s.categoryTotals, nil
}

func (s *stubTxnRepo) Update(ctx context.Context, txn *entity.Transaction) error { return nil }

func (s *stubTxnRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func TestGetSummaryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	org := &entity.Organization{ID: uuid.New(), Name: "チームみらい", Slug: "team-mirai"}
	orgRepo := &stubOrgRepo{org: org}

	t.Run("computes totals and category shares", func(t *testing.T) {
		txnRepo := &stubTxnRepo{
			totals: &adapter.TransactionTotals{
				IncomeTotal:  100000,
				ExpenseTotal: 80000,
				NetTotal:     20000,
			},
			categoryTotals: []adapter.CategoryTotal{
				{CategoryKey: "personnel", FriendlyCategory: "人件費", Amount: 60000, TransactionCount: 3},
				{CategoryKey: "office", FriendlyCategory: "事務所費", Amount: 20000, TransactionCount: 1},
			},
		}
		uc := NewGetSummaryUseCase(orgRepo, txnRepo)

		output, err := uc.Execute(ctx, GetSummaryInput{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.IncomeTotal != 100000 || output.ExpenseTotal != 80000 || output.NetTotal != 20000 {
			t.Errorf("unexpected totals %+v", output)
		}
		if len(output.Categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(output.Categories))
		}
		if output.Categories[0].Percentage != 75 {
			t.Errorf("expected 75%%, got %v", output.Categories[0].Percentage)
		}
		if output.Categories[1].Percentage != 25 {
			t.Errorf("expected 25%%, got %v", output.Categories[1].Percentage)
		}
	})

	t.Run("rounds percentages to two decimals", func(t *testing.T) {
		txnRepo := &stubTxnRepo{
			totals: &adapter.TransactionTotals{ExpenseTotal: 30000},
			categoryTotals: []adapter.CategoryTotal{
				{CategoryKey: "personnel", FriendlyCategory: "人件費", Amount: 10000, TransactionCount: 1},
			},
		}
		uc := NewGetSummaryUseCase(orgRepo, txnRepo)

		output, err := uc.Execute(ctx, GetSummaryInput{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Categories[0].Percentage != 33.33 {
			t.Errorf("expected 33.33, got %v", output.Categories[0].Percentage)
		}
	})

	t.Run("zero expense total yields zero percentages", func(t *testing.T) {
		txnRepo := &stubTxnRepo{
			totals: &adapter.TransactionTotals{},
			categoryTotals: []adapter.CategoryTotal{
				{CategoryKey: "personnel", FriendlyCategory: "人件費", Amount: 0, TransactionCount: 1},
			},
		}
		uc := NewGetSummaryUseCase(orgRepo, txnRepo)

		output, err := uc.Execute(ctx, GetSummaryInput{OrganizationID: org.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Categories[0].Percentage != 0 {
			t.Errorf("expected 0, got %v", output.Categories[0].Percentage)
		}
	})

	t.Run("unknown organization fails", func(t *testing.T) {
		uc := NewGetSummaryUseCase(orgRepo, &stubTxnRepo{totals: &adapter.TransactionTotals{}})
		_, err := uc.Execute(ctx, GetSummaryInput{OrganizationID: uuid.New()})
		if !errors.Is(err, domainerror.ErrOrganizationNotFound) {
			t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
		}
	})
}

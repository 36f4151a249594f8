package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// fakeOrgRepo serves a single known organization.
type fakeOrgRepo struct {
	org *entity.Organization
}

func (f *fakeOrgRepo) Create(ctx context.Context, org *entity.Organization) error { return nil }

func (f *fakeOrgRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	if f.org != nil && f.org.ID == id {
		return f.org, nil
	}
	return nil, domainerror.ErrOrganizationNotFound
}

func (f *fakeOrgRepo) FindBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	if f.org != nil && f.org.Slug == slug {
		return f.org, nil
	}
	return nil, domainerror.ErrOrganizationNotFound
}

func (f *fakeOrgRepo) FindAll(ctx context.Context) ([]*entity.Organization, error) {
	if f.org == nil {
		return nil, nil
	}
	return []*entity.Organization{f.org}, nil
}

// fakeTxnRepo stores transactions in memory keyed by dedup hash.
type fakeTxnRepo struct {
	byHash map[string]*entity.Transaction

	// failDescriptions makes Insert fail for rows with these descriptions.
	failDescriptions map[string]struct{}
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{
		byHash:           make(map[string]*entity.Transaction),
		failDescriptions: make(map[string]struct{}),
	}
}

func (f *fakeTxnRepo) FindExistingHashes(ctx context.Context, orgID uuid.UUID, hashes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for _, h := range hashes {
		if _, ok := f.byHash[h]; ok {
			existing[h] = struct{}{}
		}
	}
	return existing, nil
}

func (f *fakeTxnRepo) Insert(ctx context.Context, txn *entity.Transaction) error {
	if _, fail := f.failDescriptions[txn.Description]; fail {
		return errors.New("storage unavailable")
	}
	if _, ok := f.byHash[txn.Hash]; ok {
		return domainerror.ErrDuplicateTransaction
	}
	f.byHash[txn.Hash] = txn
	return nil
}

func (f *fakeTxnRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for _, txn := range f.byHash {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (f *fakeTxnRepo) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	return &adapter.TransactionListResult{}, nil
}

func (f *fakeTxnRepo) FindAllByFilter(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, txn := range f.byHash {
		out = append(out, txn)
	}
	return out, nil
}

func (f *fakeTxnRepo) GetTotals(ctx context.Context, filter adapter.TransactionFilter) (*adapter.TransactionTotals, error) {
	return &adapter.TransactionTotals{}, nil
}

func (f *fakeTxnRepo) GetCategoryTotals(ctx context.Context, filter adapter.TransactionFilter) ([]adapter.CategoryTotal, error) {
	return nil, nil
}

func (f *fakeTxnRepo) Update(ctx context.Context, txn *entity.Transaction) error {
	for hash, stored := range f.byHash {
		if stored.ID == txn.ID {
			delete(f.byHash, hash)
			f.byHash[txn.Hash] = txn
			return nil
		}
	}
	return domainerror.ErrTransactionNotFound
}

func (f *fakeTxnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for hash, stored := range f.byHash {
		if stored.ID == id {
			delete(f.byHash, hash)
			return nil
		}
	}
	return domainerror.ErrTransactionNotFound
}

// fakeCache records invalidations.
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Get(ctx context.Context, orgID uuid.UUID, financialYear int) ([]byte, error) {
	return nil, nil
}

func (f *fakeCache) Set(ctx context.Context, orgID uuid.UUID, financialYear int, payload []byte) error {
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, orgID uuid.UUID) error {
	f.invalidations++
	return nil
}

func testOrg() *entity.Organization {
	return &entity.Organization{
		ID:   uuid.New(),
		Name: "チームみらい",
		Slug: "team-mirai",
	}
}

func previewCSV() string {
	return strings.Join([]string{
		testHeader,
		makeRow("1", "2025/01/10", "現金", "20000", "個人", "20000", "寄附"),
		makeRow("2", "2025/01/12", "人件費", "15000", "現金", "15000", "1月給与"),
	}, "\n")
}

func TestPreviewUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	org := testOrg()
	normalizer := NewEncodingNormalizer(CharsetShiftJIS)
	classifier := NewClassifier(DefaultClassifierConfig())

	t.Run("computes without persisting", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewPreviewUseCase(&fakeOrgRepo{org: org}, txnRepo, normalizer, classifier)

		output, err := uc.Execute(ctx, PreviewInput{
			OrganizationID: org.ID,
			Content:        []byte(previewCSV()),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.ValidTransactions) != 2 {
			t.Fatalf("expected 2 valid transactions, got %d", len(output.ValidTransactions))
		}
		if output.DuplicateCount != 0 {
			t.Errorf("expected no duplicates, got %d", output.DuplicateCount)
		}
		if len(txnRepo.byHash) != 0 {
			t.Error("preview must not persist anything")
		}

		income := output.ValidTransactions[0]
		if income.Type != entity.TransactionTypeIncome {
			t.Errorf("expected income, got %s", income.Type)
		}
		if income.Hash == "" {
			t.Error("expected a hash on every previewed row")
		}
	})

	t.Run("flags rows already stored", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewPreviewUseCase(&fakeOrgRepo{org: org}, txnRepo, normalizer, classifier)

		commit := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, nil, 1)
		if _, err := commit.Execute(ctx, CommitInput{
			OrganizationID: org.ID,
			Rows: []CommitRow{{
				Line:          2,
				Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
				DebitAccount:  "現金",
				DebitAmount:   20000,
				CreditAccount: "個人",
				CreditAmount:  20000,
				Description:   "寄附",
			}},
		}); err != nil {
			t.Fatalf("seed commit failed: %v", err)
		}

		output, err := uc.Execute(ctx, PreviewInput{
			OrganizationID: org.ID,
			Content:        []byte(previewCSV()),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.DuplicateCount != 1 {
			t.Fatalf("expected 1 duplicate, got %d", output.DuplicateCount)
		}
		if !output.ValidTransactions[0].Duplicate {
			t.Error("expected the stored row to be flagged")
		}
		if output.ValidTransactions[1].Duplicate {
			t.Error("expected the new row to stay unflagged")
		}
	})

	t.Run("flags duplicates within the batch", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewPreviewUseCase(&fakeOrgRepo{org: org}, txnRepo, normalizer, classifier)

		row := makeRow("1", "2025/01/10", "現金", "20000", "個人", "20000", "寄附")
		text := strings.Join([]string{testHeader, row, row}, "\n")

		output, err := uc.Execute(ctx, PreviewInput{OrganizationID: org.ID, Content: []byte(text)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.DuplicateCount != 1 {
			t.Fatalf("expected 1 duplicate, got %d", output.DuplicateCount)
		}
		if output.ValidTransactions[0].Duplicate || !output.ValidTransactions[1].Duplicate {
			t.Error("expected only the second occurrence to be flagged")
		}
	})

	t.Run("unknown organization fails", func(t *testing.T) {
		uc := NewPreviewUseCase(&fakeOrgRepo{org: org}, newFakeTxnRepo(), normalizer, classifier)
		_, err := uc.Execute(ctx, PreviewInput{OrganizationID: uuid.New(), Content: []byte(previewCSV())})
		if !errors.Is(err, domainerror.ErrOrganizationNotFound) {
			t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
		}
	})
}

func commitRows() []CommitRow {
	return []CommitRow{
		{
			Line:          2,
			Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			DebitAccount:  "現金",
			DebitAmount:   20000,
			CreditAccount: "個人",
			CreditAmount:  20000,
			Description:   "寄附",
		},
		{
			Line:          3,
			Date:          time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			DebitAccount:  "人件費",
			DebitAmount:   15000,
			CreditAccount: "現金",
			CreditAmount:  15000,
			Description:   "1月給与",
		},
	}
}

func TestCommitUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	org := testOrg()
	classifier := NewClassifier(DefaultClassifierConfig())

	t.Run("persists classified rows and invalidates the cache", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		cache := &fakeCache{}
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, cache, 1)

		output, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SavedCount != 2 || output.SkippedCount != 0 || len(output.Errors) != 0 {
			t.Fatalf("expected 2 saved, got %+v", output)
		}
		if cache.invalidations != 1 {
			t.Errorf("expected 1 cache invalidation, got %d", cache.invalidations)
		}

		for _, txn := range txnRepo.byHash {
			if txn.FinancialYear != 2025 {
				t.Errorf("expected financial year 2025, got %d", txn.FinancialYear)
			}
			if txn.Hash == "" {
				t.Error("expected every stored row to carry its hash")
			}
		}
	})

	t.Run("re-committing the same batch saves nothing", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, nil, 1)

		if _, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()}); err != nil {
			t.Fatalf("first commit failed: %v", err)
		}
		output, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()})
		if err != nil {
			t.Fatalf("second commit failed: %v", err)
		}
		if output.SavedCount != 0 || output.SkippedCount != 2 {
			t.Fatalf("expected 0 saved 2 skipped, got %+v", output)
		}
		if len(txnRepo.byHash) != 2 {
			t.Errorf("expected 2 stored rows, got %d", len(txnRepo.byHash))
		}
	})

	t.Run("duplicate rows inside one batch are skipped", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, nil, 1)

		rows := commitRows()
		rows = append(rows, rows[0])

		output, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: rows})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SavedCount != 2 || output.SkippedCount != 1 {
			t.Fatalf("expected 2 saved 1 skipped, got %+v", output)
		}
	})

	t.Run("one failing row does not block the rest", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		txnRepo.failDescriptions["寄附"] = struct{}{}
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, nil, 1)

		output, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SavedCount != 1 {
			t.Errorf("expected 1 saved, got %d", output.SavedCount)
		}
		if len(output.Errors) != 1 {
			t.Fatalf("expected 1 row error, got %d", len(output.Errors))
		}
		if output.Errors[0].Line != 2 {
			t.Errorf("expected the error to name line 2, got %d", output.Errors[0].Line)
		}
	})

	t.Run("invalid rows are reported per row", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, nil, 1)

		rows := commitRows()
		rows[0].DebitAmount = 0
		rows[0].CreditAmount = 0

		output, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: rows})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SavedCount != 1 || len(output.Errors) != 1 {
			t.Fatalf("expected 1 saved 1 error, got %+v", output)
		}
	})

	t.Run("empty commit is rejected", func(t *testing.T) {
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, newFakeTxnRepo(), classifier, nil, 1)
		_, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID})
		var impErr *domainerror.ImportError
		if !errors.As(err, &impErr) {
			t.Fatalf("expected an ImportError, got %v", err)
		}
		if impErr.Code != domainerror.ErrCodeEmptyCommit {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeEmptyCommit, impErr.Code)
		}
	})

	t.Run("no cache invalidation when nothing saved", func(t *testing.T) {
		txnRepo := newFakeTxnRepo()
		cache := &fakeCache{}
		uc := NewCommitUseCase(&fakeOrgRepo{org: org}, txnRepo, classifier, cache, 1)

		if _, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()}); err != nil {
			t.Fatalf("first commit failed: %v", err)
		}
		cache.invalidations = 0

		if _, err := uc.Execute(ctx, CommitInput{OrganizationID: org.ID, Rows: commitRows()}); err != nil {
			t.Fatalf("second commit failed: %v", err)
		}
		if cache.invalidations != 0 {
			t.Errorf("expected no invalidation on all-skipped commit, got %d", cache.invalidations)
		}
	})
}

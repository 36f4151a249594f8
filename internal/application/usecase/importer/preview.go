package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
)

// PreviewTransaction is one valid row of a preview, carrying its dedup hash
// and duplicate flag.
type PreviewTransaction struct {
	Classified

	Hash      string
	Duplicate bool
}

// PreviewInput represents the input for previewing an upload.
type PreviewInput struct {
	OrganizationID uuid.UUID
	Content        []byte
}

// PreviewOutput represents the outcome of a preview. It is purely computed;
// nothing is persisted.
type PreviewOutput struct {
	ValidTransactions []PreviewTransaction
	InvalidRows       []InvalidRow
	DuplicateCount    int
}

// PreviewUseCase runs the full pipeline over an uploaded file without side
// effects: normalize, parse, classify, hash, and flag duplicates against both
// the same batch and already-stored transactions.
type PreviewUseCase struct {
	orgRepo    adapter.OrganizationRepository
	txnRepo    adapter.TransactionRepository
	normalizer *EncodingNormalizer
	classifier *Classifier
}

// NewPreviewUseCase creates a new PreviewUseCase instance.
func NewPreviewUseCase(
	orgRepo adapter.OrganizationRepository,
	txnRepo adapter.TransactionRepository,
	normalizer *EncodingNormalizer,
	classifier *Classifier,
) *PreviewUseCase {
	return &PreviewUseCase{
		orgRepo:    orgRepo,
		txnRepo:    txnRepo,
		normalizer: normalizer,
		classifier: classifier,
	}
}

// Execute performs the preview.
func (uc *PreviewUseCase) Execute(ctx context.Context, input PreviewInput) (*PreviewOutput, error) {
	if _, err := uc.orgRepo.FindByID(ctx, input.OrganizationID); err != nil {
		return nil, err
	}

	text, err := uc.normalizer.Normalize(input.Content)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseJournal(text)
	if err != nil {
		return nil, err
	}

	valid := make([]PreviewTransaction, 0, len(parsed.Rows))
	hashes := make([]string, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		hash := ComputeHash(input.OrganizationID, row)
		valid = append(valid, PreviewTransaction{
			Classified: uc.classifier.Classify(row),
			Hash:       hash,
		})
		hashes = append(hashes, hash)
	}

	existing, err := uc.txnRepo.FindExistingHashes(ctx, input.OrganizationID, hashes)
	if err != nil {
		return nil, err
	}

	duplicateCount := 0
	seen := make(map[string]struct{}, len(valid))
	for i := range valid {
		hash := valid[i].Hash
		_, inBatch := seen[hash]
		_, stored := existing[hash]
		if inBatch || stored {
			valid[i].Duplicate = true
			duplicateCount++
		}
		seen[hash] = struct{}{}
	}

	return &PreviewOutput{
		ValidTransactions: valid,
		InvalidRows:       parsed.Invalid,
		DuplicateCount:    duplicateCount,
	}, nil
}

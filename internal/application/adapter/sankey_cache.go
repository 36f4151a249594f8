package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SankeyCache caches serialized Sankey graphs per organization and financial
// year. Implementations must treat a miss as (nil, nil); cache failures are
// soft and callers fall through to the repository.
type SankeyCache interface {
	// Get returns the cached payload for the key, or nil on a miss.
	Get(ctx context.Context, orgID uuid.UUID, financialYear int) ([]byte, error)

	// Set stores the payload for the key with the implementation's TTL.
	Set(ctx context.Context, orgID uuid.UUID, financialYear int, payload []byte) error

	// Invalidate drops all cached graphs for the organization.
	Invalidate(ctx context.Context, orgID uuid.UUID) error
}

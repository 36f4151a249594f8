package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// GetOrganizationUseCase handles retrieving a single organization.
type GetOrganizationUseCase struct {
	orgRepo adapter.OrganizationRepository
}

// NewGetOrganizationUseCase creates a new GetOrganizationUseCase instance.
func NewGetOrganizationUseCase(orgRepo adapter.OrganizationRepository) *GetOrganizationUseCase {
	return &GetOrganizationUseCase{orgRepo: orgRepo}
}

// Execute retrieves the organization by ID.
func (uc *GetOrganizationUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	return uc.orgRepo.FindByID(ctx, id)
}

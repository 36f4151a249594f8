package organization

import (
	"context"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// ListOrganizationsUseCase handles listing all organizations.
type ListOrganizationsUseCase struct {
	orgRepo adapter.OrganizationRepository
}

// NewListOrganizationsUseCase creates a new ListOrganizationsUseCase instance.
func NewListOrganizationsUseCase(orgRepo adapter.OrganizationRepository) *ListOrganizationsUseCase {
	return &ListOrganizationsUseCase{orgRepo: orgRepo}
}

// Execute lists all organizations.
func (uc *ListOrganizationsUseCase) Execute(ctx context.Context) ([]*entity.Organization, error) {
	return uc.orgRepo.FindAll(ctx)
}

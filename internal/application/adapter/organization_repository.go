package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// OrganizationRepository defines the interface for organization persistence operations.
type OrganizationRepository interface {
	// Create creates a new organization. It returns
	// domainerror.ErrOrganizationSlugTaken when the slug is already in use.
	Create(ctx context.Context, organization *entity.Organization) error

	// FindByID retrieves an organization by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)

	// FindBySlug retrieves an organization by its slug.
	FindBySlug(ctx context.Context, slug string) (*entity.Organization, error)

	// FindAll retrieves all organizations ordered by creation time.
	FindAll(ctx context.Context) ([]*entity.Organization, error)
}

// Package organization contains organization management use cases.
package organization

import (
	"context"
	"strings"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// CreateOrganizationInput represents the input for creating an organization.
type CreateOrganizationInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateOrganizationUseCase handles organization creation.
type CreateOrganizationUseCase struct {
	orgRepo adapter.OrganizationRepository
}

// NewCreateOrganizationUseCase creates a new CreateOrganizationUseCase instance.
func NewCreateOrganizationUseCase(orgRepo adapter.OrganizationRepository) *CreateOrganizationUseCase {
	return &CreateOrganizationUseCase{orgRepo: orgRepo}
}

// Execute creates the organization.
func (uc *CreateOrganizationUseCase) Execute(ctx context.Context, input CreateOrganizationInput) (*entity.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewOrganizationError(
			domainerror.ErrCodeInvalidOrganizationName,
			"organization name is required",
			domainerror.ErrInvalidOrganizationName,
		)
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(name)
	}

	org := entity.NewOrganization(name, slug, strings.TrimSpace(input.Description))
	if err := uc.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// slugify lowercases and dash-joins the name; non-alphanumeric runs collapse
// to a single dash.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

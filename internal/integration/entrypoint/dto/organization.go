package dto

import (
	"time"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// CreateOrganizationRequest is the payload for creating an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// OrganizationResponse represents an organization in API responses.
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListOrganizationsResponse wraps the organization listing.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToOrganizationResponse converts an Organization entity to its response form.
func ToOrganizationResponse(org *entity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          org.ID.String(),
		Name:        org.Name,
		Slug:        org.Slug,
		Description: org.Description,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}

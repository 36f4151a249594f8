package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
)

// OrganizationModel represents the organizations table in the database.
type OrganizationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the OrganizationModel.
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToEntity converts an OrganizationModel to a domain Organization entity.
func (m *OrganizationModel) ToEntity() *entity.Organization {
	return &entity.Organization{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OrganizationFromEntity creates an OrganizationModel from a domain Organization entity.
func OrganizationFromEntity(organization *entity.Organization) *OrganizationModel {
	return &OrganizationModel{
		ID:          organization.ID,
		Name:        organization.Name,
		Slug:        organization.Slug,
		Description: organization.Description,
		CreatedAt:   organization.CreatedAt,
		UpdatedAt:   organization.UpdatedAt,
	}
}

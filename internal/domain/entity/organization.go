package entity

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a political organization whose ledger is published.
// It is the tenant boundary for dedup and queries.
type Organization struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrganization creates a new Organization entity.
func NewOrganization(name, slug, description string) *Organization {
	now := time.Now().UTC()

	return &Organization{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

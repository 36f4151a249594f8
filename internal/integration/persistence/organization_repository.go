package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-mirai-volunteer/marumie-backend/internal/domain/entity"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence/model"
)

// OrganizationRepository implements the adapter.OrganizationRepository interface using GORM.
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository instance.
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, organization *entity.Organization) error {
	m := model.OrganizationFromEntity(organization)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainerror.ErrOrganizationSlugTaken
		}
		return err
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	var m model.OrganizationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrOrganizationNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *OrganizationRepository) FindBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	var m model.OrganizationModel
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrOrganizationNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *OrganizationRepository) FindAll(ctx context.Context) ([]*entity.Organization, error) {
	var models []model.OrganizationModel
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	organizations := make([]*entity.Organization, len(models))
	for i := range models {
		organizations[i] = models[i].ToEntity()
	}
	return organizations, nil
}

package implementation

import (
	"context"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/mapper"
	"intituas-ai-be/internal/model"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/repository/scope"
	"intituas-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ContactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContactMapper
}

func NewContactRepository(db *gorm.DB) contract.ContactRepository {
	return &ContactRepositoryImpl{
		db:     db,
		mapper: mapper.NewContactMapper(),
	}
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, contact *entity.Contact) error {
	m := r.mapper.ToModel(contact)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*contact = *r.mapper.ToEntity(m)
	return nil
}

// FindAll returns contacts newest first unless a specification orders them otherwise.
func (r *ContactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Contact, error) {
	var models []*model.Contact
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Scopes(scope.NewestFirst).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Contact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

package implementation

import (
	"context"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/mapper"
	"intituas-ai-be/internal/model"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HistoryMapper
}

func NewSearchHistoryRepository(db *gorm.DB) contract.SearchHistoryRepository {
	return &SearchHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewHistoryMapper(),
	}
}

func (r *SearchHistoryRepositoryImpl) Create(ctx context.Context, entry *entity.HistoryEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *SearchHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryEntry, error) {
	var models []*model.SearchHistory
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SearchHistoryRepositoryImpl) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.SearchHistory{}).Error
}

func (r *SearchHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.SearchHistory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

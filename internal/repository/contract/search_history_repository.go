package contract

import (
	"context"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SearchHistoryRepository interface {
	Create(ctx context.Context, entry *entity.HistoryEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryEntry, error)
	DeleteByIds(ctx context.Context, ids []uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

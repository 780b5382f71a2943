package contract

import (
	"context"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/specification"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Contact, error)
}

package contract

import (
	"context"
	"errors"

	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/specification"
)

// ErrDuplicate is returned by Create when a unique column already holds the value.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}

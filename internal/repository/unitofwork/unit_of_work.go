package unitofwork

import (
	"context"

	"intituas-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SearchHistoryRepository() contract.SearchHistoryRepository
	ContactRepository() contract.ContactRepository
}

package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per operation. Services
// hold the factory, never a UnitOfWork.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

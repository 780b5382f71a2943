package service

import (
	"context"
	"fmt"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/repository/specification"
	"intituas-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

// NewHistoryService is the SQL-backed history store. now defaults to the
// wall clock.
func NewHistoryService(uowFactory unitofwork.RepositoryFactory, now func() time.Time) contract.HistoryStore {
	if now == nil {
		now = time.Now
	}
	return &historyService{
		uowFactory: uowFactory,
		now:        now,
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, contract.ErrHistoryUnavailable, err)
}

func (s *historyService) Append(ctx context.Context, userId, question, answer string, citations []string) (*entity.HistoryEntry, error) {
	entry := &entity.HistoryEntry{
		Id:        uuid.Must(uuid.NewV7()),
		UserId:    userId,
		Question:  question,
		Answer:    answer,
		Citations: citations,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, unavailable("begin", err)
	}
	defer uow.Rollback()

	repo := uow.SearchHistoryRepository()
	if err := repo.Create(ctx, entry); err != nil {
		return nil, unavailable("insert", err)
	}

	entries, err := repo.FindAll(ctx, specification.ByUserID{UserID: userId}, specification.NewestFirst{})
	if err != nil {
		return nil, unavailable("list for retention", err)
	}

	if len(entries) > constant.HistoryRetention {
		surplus := entries[constant.HistoryRetention:]
		ids := make([]uuid.UUID, len(surplus))
		for i, e := range surplus {
			ids[i] = e.Id
		}
		if err := repo.DeleteByIds(ctx, ids); err != nil {
			return nil, unavailable("trim", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, unavailable("commit", err)
	}
	return entry, nil
}

func (s *historyService) ListRecent(ctx context.Context, userId string, limit int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = constant.HistoryRetention
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.SearchHistoryRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.NewestFirst{},
		specification.Limit{N: limit},
	)
	if err != nil {
		return nil, unavailable("list", err)
	}
	return entries, nil
}

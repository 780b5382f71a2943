package service

import (
	"context"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/contract"
)

// Notifier delivers a small frame to a user's live connections.
type Notifier interface {
	Notify(userId, frameType string, data interface{})
}

type notifyingHistoryStore struct {
	contract.HistoryStore
	notifier Notifier
}

// NewNotifyingHistoryStore tells the user's open sockets about every
// successful append, whichever recorder performed it.
func NewNotifyingHistoryStore(store contract.HistoryStore, notifier Notifier) contract.HistoryStore {
	if notifier == nil {
		return store
	}
	return &notifyingHistoryStore{HistoryStore: store, notifier: notifier}
}

func (s *notifyingHistoryStore) Append(ctx context.Context, userId, question, answer string, citations []string) (*entity.HistoryEntry, error) {
	entry, err := s.HistoryStore.Append(ctx, userId, question, answer, citations)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(userId, constant.HistoryUpdatedNotification, ToHistoryResponses([]*entity.HistoryEntry{entry})[0])
	return entry, nil
}

package contract

import (
	"context"
	"errors"

	"intituas-ai-be/internal/entity"
)

// ErrHistoryUnavailable wraps every failure to reach the history backend.
var ErrHistoryUnavailable = errors.New("search history unavailable")

// HistoryStore keeps the most recent questions and answers per user.
// Append trims the user's entries down to the retention size; it never
// touches another user's entries.
type HistoryStore interface {
	Append(ctx context.Context, userId, question, answer string, citations []string) (*entity.HistoryEntry, error)
	ListRecent(ctx context.Context, userId string, limit int) ([]*entity.HistoryEntry, error)
}

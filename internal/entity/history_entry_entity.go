package entity

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one recorded question/answer pair. Entries are never
// updated; the retention policy is the only thing that removes them.
type HistoryEntry struct {
	Id        uuid.UUID
	UserId    string
	Question  string
	Answer    string
	Citations []string
	CreatedAt time.Time
}

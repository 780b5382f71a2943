package dto

import (
	"time"

	"github.com/google/uuid"
)

type HistoryEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Citations []string  `json:"citations,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordHistoryMessage is the payload of the async history topic.
type RecordHistoryMessage struct {
	UserId    string   `json:"userId"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Citations []string `json:"citations,omitempty"`
}

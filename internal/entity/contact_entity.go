package entity

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	Id        uuid.UUID
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

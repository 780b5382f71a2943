package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SearchHistory struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId    string                      `gorm:"type:varchar(128);not null;index:idx_search_histories_user_created,priority:1"`
	Question  string                      `gorm:"type:text;not null"`
	Answer    string                      `gorm:"type:text;not null"`
	Citations datatypes.JSONSlice[string]
	CreatedAt time.Time                   `gorm:"not null;index:idx_search_histories_user_created,priority:2"`
}

func (SearchHistory) TableName() string {
	return "search_histories"
}

func (m *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}

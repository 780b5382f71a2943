package specification

import (
	"intituas-ai-be/internal/repository/scope"

	"gorm.io/gorm"
)

// NewestFirst orders history by creation time, breaking ties on id so the
// order is stable when two entries share a timestamp.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.NewestFirst)
}

package scope

import "gorm.io/gorm"

// NewestFirst sorts append-only tables by created_at, then id. History ids
// are time-ordered so the tie-break follows insertion order.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithRowLock returns a handle whose reads take SELECT ... FOR UPDATE, so
// two transactions mutating the same user serialize on the row instead of
// both reading the same snapshot. SQLite has a single writer and no FOR
// UPDATE syntax, so it passes through unchanged.
func WithRowLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

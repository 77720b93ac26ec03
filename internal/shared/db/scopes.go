package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate takes a row lock on the selected rows. It only has an effect
// inside a transaction; the sqlite dialect ignores locking clauses.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
}

// Paginate applies LIMIT/OFFSET for a 1-based page.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeInsensitive adds a case-insensitive substring match on column. The term
// is always passed as a bound parameter. LOWER/LIKE keeps it portable between
// Postgres and SQLite.
func likeInsensitive(db *gorm.DB, column, term string) *gorm.DB {
	return db.Where("LOWER("+column+") LIKE ?", likePattern(term))
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

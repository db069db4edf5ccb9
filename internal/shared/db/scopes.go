package db

import "gorm.io/gorm"

// Paginate limits a query to one page. A non-positive limit disables it.
func Paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		if offset < 0 {
			offset = 0
		}
		return tx.Offset(offset).Limit(limit)
	}
}

// Newest orders by created_at descending, breaking ties by id.
func Newest(table string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// Package repository holds the GORM data access layer. Every query on a
// tenant-owned table is filtered by usuario_id; a row owned by another tenant
// is reported as gorm.ErrRecordNotFound.
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conn picks the transaction handle when one is given.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE when running inside a transaction so
// concurrent reconciliations on the same row serialize.
func forUpdate(q *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

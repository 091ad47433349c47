package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn against a store session that lives exactly as long as
// the call. The session commits when fn returns nil and rolls back when fn
// returns an error or panics.
type Transactor interface {
	InTx(ctx context.Context, fn func(todos TodoRepository) error) error
}

// GormTransactor scopes each call to one database transaction.
type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) InTx(ctx context.Context, fn func(todos TodoRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormTodoRepository(tx))
	})
}

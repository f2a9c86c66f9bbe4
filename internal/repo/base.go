package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Keyed is a repository over a table addressed by a single key column.
type Keyed[T any] struct {
	Base
	column string
	order  []string
}

// NewKeyed builds a Keyed repository. order is applied to List.
func NewKeyed[T any](db *gorm.DB, column string, order ...string) Keyed[T] {
	return Keyed[T]{Base: NewBase(db), column: column, order: order}
}

func (k Keyed[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	q := k.DB(ctx)
	for _, o := range k.order {
		q = q.Order(o)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// Find returns gorm.ErrRecordNotFound when no row has the key.
func (k Keyed[T]) Find(ctx context.Context, key string) (*T, error) {
	var row T
	if err := k.DB(ctx).First(&row, k.column+" = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (k Keyed[T]) Create(ctx context.Context, row *T) error {
	return k.DB(ctx).Create(row).Error
}

func (k Keyed[T]) Save(ctx context.Context, row *T) error {
	return k.DB(ctx).Save(row).Error
}

// Delete reports whether a row was removed.
func (k Keyed[T]) Delete(ctx context.Context, key string) (bool, error) {
	var zero T
	res := k.DB(ctx).Delete(&zero, k.column+" = ?", key)
	return res.RowsAffected > 0, res.Error
}

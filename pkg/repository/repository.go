package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is a generic gorm-backed store shared by the domain packages.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
	BatchCreate(ctx context.Context, resources []*T) error
}

// QueryOption customizes a query built by the store.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type orderOption struct {
	clause string
}

func (o orderOption) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.clause) }

// WithOrder applies an ORDER BY clause.
func WithOrder(clause string) QueryOption { return orderOption{clause: clause} }

type limitOption struct {
	limit int
}

func (o limitOption) Apply(db *gorm.DB) *gorm.DB { return db.Limit(o.limit) }

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption { return limitOption{limit: limit} }

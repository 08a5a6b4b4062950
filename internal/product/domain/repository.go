package domain

import (
	"context"

	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository is the durable store boundary. Every call is atomic; Create
// and Update surface a unique-constraint violation on code as a
// distinguishable duplicate-key error (pkg/db.IsDuplicateKeyErr).
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	ExistsByCode(ctx context.Context, db *gorm.DB, code string) (bool, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	FindPage(ctx context.Context, db *gorm.DB, req pagination.PageRequest) ([]Product, int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/catalog/pkg/db/pagination"
)

// Service owns every product mutation. Create and Update guarantee that
// at most one live product holds a given code; Update and Delete require
// the product to exist.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	ListPage(ctx context.Context, req pagination.PageRequest) (*pagination.Page[Response], error)
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Category    string  `json:"category"`
	Code        string  `json:"code"`
	Active      *bool   `json:"active"`
}

// UpdateRequest replaces every mutable field. The identifier and
// creation timestamp are immutable.
type UpdateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Category    string  `json:"category"`
	Code        string  `json:"code"`
	Active      *bool   `json:"active"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	Category    string    `json:"category,omitempty"`
	Code        string    `json:"code"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrNotFound     = errors.New("product not found")
	ErrCodeExists   = errors.New("product code already exists")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidCode  = errors.New("invalid_code")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidStock = errors.New("invalid_stock")
)

package domain

import "time"

type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int64     `json:"stock" gorm:"not null;default:0"`
	Category    string    `json:"category" gorm:"type:text"`
	Code        string    `json:"code" gorm:"type:text;not null;uniqueIndex:ux_products_code"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

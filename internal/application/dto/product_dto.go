package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. isActive y stock tienen default.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	SKU          string           `json:"sku" validate:"omitempty,max=100"`
	Description  string           `json:"description" validate:"max=255"`
	Price        *decimal.Decimal `json:"price"`
	CurrencyCode string           `json:"currency_code" validate:"omitempty,len=3"`
	IsActive     *bool            `json:"isActive"`
	Stock        *int             `json:"stock" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto. Stock no es editable.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU          *string          `json:"sku" validate:"omitempty,max=100"`
	Description  *string          `json:"description" validate:"omitempty,max=255"`
	Price        *decimal.Decimal `json:"price"`
	CurrencyCode *string          `json:"currency_code" validate:"omitempty,len=3"`
	IsActive     *bool            `json:"isActive"`
	Stock        *int             `json:"stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"ID"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currency_code"`
	IsActive     bool            `json:"isActive"`
	Stock        int             `json:"stock"`
	CreatedAt    time.Time       `json:"createdAt"`
	ModifiedAt   time.Time       `json:"modifiedAt"`
}

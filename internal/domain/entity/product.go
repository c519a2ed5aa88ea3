package entity

import (
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es la única fuente de verdad de existencias; solo cambia vía movimientos.
type Product struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	SKU          string          `db:"sku"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"`
	CurrencyCode string          `db:"currency_code"`
	IsActive     bool            `db:"is_active"`
	Stock        int             `db:"stock"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// ProductSchema campos consultables de Products (nombre público = canónico).
var ProductSchema = query.Schema{
	"ID":            {Name: "ID", Type: query.String},
	"name":          {Name: "name", Type: query.String},
	"sku":           {Name: "sku", Type: query.String},
	"description":   {Name: "description", Type: query.String},
	"price":         {Name: "price", Type: query.Decimal},
	"currency_code": {Name: "currency_code", Type: query.String},
	"isActive":      {Name: "isActive", Type: query.Bool},
	"stock":         {Name: "stock", Type: query.Int},
	"createdAt":     {Name: "createdAt", Type: query.Time},
	"modifiedAt":    {Name: "modifiedAt", Type: query.Time},
}

// Field devuelve el valor de un campo canónico.
func (p *Product) Field(name string) any {
	switch name {
	case "ID":
		return p.ID
	case "name":
		return p.Name
	case "sku":
		return p.SKU
	case "description":
		return p.Description
	case "price":
		return p.Price
	case "currency_code":
		return p.CurrencyCode
	case "isActive":
		return p.IsActive
	case "stock":
		return p.Stock
	case "createdAt":
		return p.CreatedAt
	case "modifiedAt":
		return p.UpdatedAt
	}
	return nil
}

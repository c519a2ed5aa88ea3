package entity

import (
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// Tipos de movimiento de inventario (kardex).
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// StockMovement registro inmutable del kardex. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID            string    `db:"id"`
	ProductID     string    `db:"product_id"`
	Type          string    `db:"type"`
	Quantity      int       `db:"quantity"` // siempre positivo; el signo lo da Type
	Reference     string    `db:"reference"`
	ResponsibleID string    `db:"responsible_id"`
	CreatedBy     string    `db:"created_by"` // UserID del actor
	Date          time.Time `db:"date"`
}

// Delta cantidad con signo aplicada al stock.
func (m *StockMovement) Delta() int {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}

// StockMovementSchema campos consultables de StockMovements.
var StockMovementSchema = query.Schema{
	"ID":             {Name: "ID", Type: query.String},
	"product_ID":     {Name: "product_ID", Type: query.String},
	"type":           {Name: "type", Type: query.String},
	"quantity":       {Name: "quantity", Type: query.Int},
	"reference":      {Name: "reference", Type: query.String},
	"responsible_ID": {Name: "responsible_ID", Type: query.String},
	"createdBy":      {Name: "createdBy", Type: query.String},
	"date":           {Name: "date", Type: query.Time},
}

// Field devuelve el valor de un campo canónico.
func (m *StockMovement) Field(name string) any {
	switch name {
	case "ID":
		return m.ID
	case "product_ID":
		return m.ProductID
	case "type":
		return m.Type
	case "quantity":
		return m.Quantity
	case "reference":
		return m.Reference
	case "responsible_ID":
		return m.ResponsibleID
	case "createdBy":
		return m.CreatedBy
	case "date":
		return m.Date
	}
	return nil
}

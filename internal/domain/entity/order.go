package entity

import (
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

// OrderKind distingue pedidos de venta y de compra. Ambos siguen el mismo patrón
// cabecera + líneas; cambian nombres de campos, estados y sentido del stock.
type OrderKind string

const (
	KindSales    OrderKind = "sales"
	KindPurchase OrderKind = "purchase"
)

// Estados de pedido.
const (
	StatusOpen      = "OPEN"      // venta recién creada
	StatusConfirmed = "CONFIRMED" // venta despachada (submit)
	StatusCreated   = "CREATED"   // compra recién creada
	StatusReceived  = "RECEIVED"  // compra recibida (receive)
	StatusClosed    = "CLOSED"
	StatusCancelled = "CANCELLED"
)

// Nombres públicos de los campos que difieren entre venta y compra.
type kindNames struct {
	Counterparty string
	Responsible  string
	UnitPrice    string
	LineTotal    string
}

var names = map[OrderKind]kindNames{
	KindSales:    {Counterparty: "customer_ID", Responsible: "salesPerson_ID", UnitPrice: "unitPrice", LineTotal: "lineAmount"},
	KindPurchase: {Counterparty: "supplier_ID", Responsible: "buyer_ID", UnitPrice: "unitCost", LineTotal: "lineTotal"},
}

// Valid indica si el tipo es conocido.
func (k OrderKind) Valid() bool {
	_, ok := names[k]
	return ok
}

// InitialStatus estado en que nace el pedido.
func (k OrderKind) InitialStatus() string {
	if k == KindPurchase {
		return StatusCreated
	}
	return StatusOpen
}

// FulfilledStatus estado tras submit/receive.
func (k OrderKind) FulfilledStatus() string {
	if k == KindPurchase {
		return StatusReceived
	}
	return StatusConfirmed
}

// MovementType tipo de movimiento de kardex que genera el cumplimiento.
func (k OrderKind) MovementType() string {
	if k == KindPurchase {
		return MovementTypeIN
	}
	return MovementTypeOUT
}

// NumberPrefix prefijo del número de pedido autogenerado.
func (k OrderKind) NumberPrefix() string {
	if k == KindPurchase {
		return "PO"
	}
	return "SO"
}

// CounterpartyField nombre público del cliente/proveedor.
func (k OrderKind) CounterpartyField() string { return names[k].Counterparty }

// ResponsibleField nombre público del responsable (vendedor/comprador).
func (k OrderKind) ResponsibleField() string { return names[k].Responsible }

// UnitPriceField nombre público del precio/costo unitario.
func (k OrderKind) UnitPriceField() string { return names[k].UnitPrice }

// LineTotalField nombre público del importe de línea.
func (k OrderKind) LineTotalField() string { return names[k].LineTotal }

// CanPatchStatus transiciones permitidas por edición directa de la cabecera.
// CONFIRMED/RECEIVED solo se alcanza vía la acción de cumplimiento.
func (k OrderKind) CanPatchStatus(from, to string) bool {
	if from == to {
		return true
	}
	switch {
	case from == k.InitialStatus() && to == StatusCancelled:
		return true
	case from == k.FulfilledStatus() && to == StatusClosed:
		return true
	}
	return false
}

// Order cabecera de pedido. TotalAmount es derivado: siempre suma de las líneas.
type Order struct {
	ID             string          `db:"id"`
	Kind           OrderKind       `db:"-"`
	OrderNo        string          `db:"order_no"`
	CounterpartyID string          `db:"counterparty_id"`
	ResponsibleID  string          `db:"responsible_id"`
	OrderDate      time.Time       `db:"order_date"`
	CurrencyCode   string          `db:"currency_code"`
	Status         string          `db:"status"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Notes          string          `db:"notes"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// Editable indica si todavía se pueden modificar las líneas.
func (o *Order) Editable() bool {
	return o.Status == o.Kind.InitialStatus()
}

// Reference texto legible para el kardex, p. ej. "Venta SO-20250101-ab12cd".
func (o *Order) Reference() string {
	label := "Venta"
	if o.Kind == KindPurchase {
		label = "Compra"
	}
	ref := o.OrderNo
	if ref == "" {
		ref = o.ID
	}
	return label + " " + ref
}

// Field devuelve el valor de un campo canónico.
func (o *Order) Field(name string) any {
	switch name {
	case "ID":
		return o.ID
	case "orderNo":
		return o.OrderNo
	case "counterparty_ID":
		return o.CounterpartyID
	case "responsible_ID":
		return o.ResponsibleID
	case "orderDate":
		return o.OrderDate
	case "currency_code":
		return o.CurrencyCode
	case "status":
		return o.Status
	case "totalAmount":
		return o.TotalAmount
	case "notes":
		return o.Notes
	case "createdAt":
		return o.CreatedAt
	}
	return nil
}

// OrderItem línea de pedido. LineTotal = Quantity * UnitPrice (precio en venta, costo en compra).
type OrderItem struct {
	ID        string          `db:"id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total"`
	CreatedAt time.Time       `db:"created_at"`
}

// Field devuelve el valor de un campo canónico.
func (i *OrderItem) Field(name string) any {
	switch name {
	case "ID":
		return i.ID
	case "order_ID":
		return i.OrderID
	case "product_ID":
		return i.ProductID
	case "quantity":
		return i.Quantity
	case "unitPrice":
		return i.UnitPrice
	case "lineTotal":
		return i.LineTotal
	case "createdAt":
		return i.CreatedAt
	}
	return nil
}

// OrderSchema campos consultables de la cabecera con los nombres públicos del tipo.
func OrderSchema(k OrderKind) query.Schema {
	return query.Schema{
		"ID":                  {Name: "ID", Type: query.String},
		"orderNo":             {Name: "orderNo", Type: query.String},
		k.CounterpartyField(): {Name: "counterparty_ID", Type: query.String},
		k.ResponsibleField():  {Name: "responsible_ID", Type: query.String},
		"orderDate":           {Name: "orderDate", Type: query.Time},
		"currency_code":       {Name: "currency_code", Type: query.String},
		"status":              {Name: "status", Type: query.String},
		"totalAmount":         {Name: "totalAmount", Type: query.Decimal},
		"notes":               {Name: "notes", Type: query.String},
		"createdAt":           {Name: "createdAt", Type: query.Time},
	}
}

// OrderItemSchema campos consultables de las líneas con los nombres públicos del tipo.
func OrderItemSchema(k OrderKind) query.Schema {
	return query.Schema{
		"ID":               {Name: "ID", Type: query.String},
		"order_ID":         {Name: "order_ID", Type: query.String},
		"product_ID":       {Name: "product_ID", Type: query.String},
		"quantity":         {Name: "quantity", Type: query.Int},
		k.UnitPriceField(): {Name: "unitPrice", Type: query.Decimal},
		k.LineTotalField(): {Name: "lineTotal", Type: query.Decimal},
		"createdAt":        {Name: "createdAt", Type: query.Time},
	}
}

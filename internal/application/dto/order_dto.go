package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest cabecera de pedido tal como la envía el cliente. Admite los nombres de
// venta (customer_ID, salesPerson_ID) y de compra (supplier_ID, buyer_ID); el handler
// rechaza los que no correspondan al tipo.
type OrderRequest struct {
	OrderNo       *string `json:"orderNo" validate:"omitempty,max=40"`
	CustomerID    *string `json:"customer_ID"`
	SalesPersonID *string `json:"salesPerson_ID"`
	SupplierID    *string `json:"supplier_ID"`
	BuyerID       *string `json:"buyer_ID"`
	OrderDate     *string `json:"orderDate"`
	CurrencyCode  *string `json:"currency_code" validate:"omitempty,len=3"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
	Status        *string `json:"status"`
}

// OrderItemRequest línea de pedido. unitPrice (venta) o unitCost (compra).
type OrderItemRequest struct {
	OrderID   *string          `json:"order_ID"`
	ProductID *string          `json:"product_ID"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	UnitCost  *decimal.Decimal `json:"unitCost"`
}

// SalesOrderResponse cabecera de venta.
type SalesOrderResponse struct {
	ID            string                   `json:"ID"`
	OrderNo       string                   `json:"orderNo"`
	CustomerID    string                   `json:"customer_ID"`
	SalesPersonID string                   `json:"salesPerson_ID"`
	OrderDate     time.Time                `json:"orderDate"`
	CurrencyCode  string                   `json:"currency_code"`
	Status        string                   `json:"status"`
	TotalAmount   decimal.Decimal          `json:"totalAmount"`
	Notes         string                   `json:"notes"`
	CreatedAt     time.Time                `json:"createdAt"`
	ModifiedAt    time.Time                `json:"modifiedAt"`
	Items         []SalesOrderItemResponse `json:"items,omitempty"`
}

// SalesOrderItemResponse línea de venta.
type SalesOrderItemResponse struct {
	ID         string          `json:"ID"`
	OrderID    string          `json:"order_ID"`
	ProductID  string          `json:"product_ID"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineAmount decimal.Decimal `json:"lineAmount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PurchaseOrderResponse cabecera de compra.
type PurchaseOrderResponse struct {
	ID           string                      `json:"ID"`
	OrderNo      string                      `json:"orderNo"`
	SupplierID   string                      `json:"supplier_ID"`
	BuyerID      string                      `json:"buyer_ID"`
	OrderDate    time.Time                   `json:"orderDate"`
	CurrencyCode string                      `json:"currency_code"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"totalAmount"`
	Notes        string                      `json:"notes"`
	CreatedAt    time.Time                   `json:"createdAt"`
	ModifiedAt   time.Time                   `json:"modifiedAt"`
	Items        []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderItemResponse línea de compra.
type PurchaseOrderItemResponse struct {
	ID        string          `json:"ID"`
	OrderID   string          `json:"order_ID"`
	ProductID string          `json:"product_ID"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	CreatedAt time.Time       `json:"createdAt"`
}

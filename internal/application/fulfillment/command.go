// Package fulfillment implementa las acciones Submit (venta) y Receive (compra):
// validan el pedido, mueven stock por línea, registran el kardex y cambian el estado,
// todo dentro de una única unidad de trabajo.
package fulfillment

import (
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
)

// Command acción de cumplimiento sobre un pedido. El conjunto es cerrado:
// SubmitSalesOrder y ReceivePurchaseOrder.
type Command interface {
	Kind() entity.OrderKind
	Target() string
	Identity() entity.Identity
	command()
}

// SubmitSalesOrder confirma una venta: OPEN -> CONFIRMED, stock OUT por línea.
type SubmitSalesOrder struct {
	OrderID string
	Actor   entity.Identity
}

func (SubmitSalesOrder) Kind() entity.OrderKind      { return entity.KindSales }
func (c SubmitSalesOrder) Target() string            { return c.OrderID }
func (c SubmitSalesOrder) Identity() entity.Identity { return c.Actor }
func (SubmitSalesOrder) command()                    {}

// ReceivePurchaseOrder recibe una compra: CREATED -> RECEIVED, stock IN por línea.
type ReceivePurchaseOrder struct {
	OrderID string
	Actor   entity.Identity
}

func (ReceivePurchaseOrder) Kind() entity.OrderKind      { return entity.KindPurchase }
func (c ReceivePurchaseOrder) Target() string            { return c.OrderID }
func (c ReceivePurchaseOrder) Identity() entity.Identity { return c.Actor }
func (ReceivePurchaseOrder) command()                    {}

// Nombres de acción expuestos en /catalog/{Set}/{id}/{action}.
const (
	ActionSubmit  = "submit"
	ActionReceive = "receive"
)

// ParseCommand resuelve conjunto + acción a un comando. ok=false si la combinación no existe.
func ParseCommand(set, action, orderID string, actor entity.Identity) (Command, bool) {
	switch {
	case set == "SalesOrders" && action == ActionSubmit:
		return SubmitSalesOrder{OrderID: orderID, Actor: actor}, true
	case set == "PurchaseOrders" && action == ActionReceive:
		return ReceivePurchaseOrder{OrderID: orderID, Actor: actor}, true
	}
	return nil, false
}

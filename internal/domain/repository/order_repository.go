package repository

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

// OrderRepository persistencia de cabeceras y líneas de un tipo de pedido.
// Los Get devuelven (nil, nil) si no existe.
type OrderRepository interface {
	Kind() entity.OrderKind

	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste los campos de cabecera y el estado; nunca TotalAmount.
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateTotal devuelve false si el pedido ya no existe.
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) (bool, error)
	List(ctx context.Context, q query.ListQuery) ([]*entity.Order, error)
	// Delete elimina la cabecera y sus líneas.
	Delete(ctx context.Context, id string) (bool, error)

	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetItem(ctx context.Context, id string) (*entity.OrderItem, error)
	UpdateItem(ctx context.Context, item *entity.OrderItem) error
	DeleteItem(ctx context.Context, id string) (bool, error)
	// ListItems devuelve todas las líneas del pedido, sin paginar.
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	QueryItems(ctx context.Context, q query.ListQuery) ([]*entity.OrderItem, error)
	// SumLineTotals agrega los importes de línea actuales del pedido.
	SumLineTotals(ctx context.Context, orderID string) (decimal.Decimal, error)
}

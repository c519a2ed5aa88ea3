package repository

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
)

// UnitOfWork repositorios atados a una misma transacción.
type UnitOfWork interface {
	Products() ProductRepository
	Orders(kind entity.OrderKind) OrderRepository
	Movements() StockMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil,
// Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow UnitOfWork) error) error
}

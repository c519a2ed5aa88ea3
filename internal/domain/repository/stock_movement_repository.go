package repository

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// StockMovementRepository kardex de solo inserción.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, q query.ListQuery) ([]*entity.StockMovement, error)
}

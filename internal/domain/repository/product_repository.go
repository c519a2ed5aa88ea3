package repository

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, q query.ListQuery) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	// AdjustStock suma delta al stock de forma condicional: si el resultado quedaría
	// negativo no modifica nada y devuelve domain.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}

package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/application/rollup"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/pricing"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemInput nueva línea de pedido. UnitPrice es precio (venta) o costo (compra).
type ItemInput struct {
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// ItemPatch cambios parciales de una línea; nil = sin cambio.
type ItemPatch struct {
	ProductID *string
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// ItemUseCase CRUD de líneas. Cada mutación y su rollup corren en la misma unidad de trabajo.
type ItemUseCase struct {
	tx     repository.TxRunner
	rollup *rollup.Engine
	now    func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(tx repository.TxRunner, engine *rollup.Engine) *ItemUseCase {
	if engine == nil {
		engine = rollup.New(nil)
	}
	return &ItemUseCase{tx: tx, rollup: engine, now: time.Now}
}

// editableOrder carga la cabecera con bloqueo y verifica que admita cambios en sus líneas.
func editableOrder(ctx context.Context, repo repository.OrderRepository, id string) (*entity.Order, error) {
	order, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.FieldError{Field: "order_ID", Err: domain.ErrNotFound}
	}
	if !order.Editable() {
		return nil, fmt.Errorf("%w: pedido en estado %s", domain.ErrOrderLocked, order.Status)
	}
	return order, nil
}

func ensureProduct(ctx context.Context, products repository.ProductRepository, id string) error {
	if id == "" {
		return domain.InvalidField("product_ID", "obligatorio")
	}
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return &domain.FieldError{Field: "product_ID", Err: domain.ErrNotFound}
	}
	return nil
}

// CreateItems crea una o varias líneas (lote) y recalcula una vez cada pedido afectado.
// Si una línea falla no se crea ninguna.
func (uc *ItemUseCase) CreateItems(ctx context.Context, kind entity.OrderKind, inputs []ItemInput) ([]*entity.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: sin líneas", domain.ErrInvalidInput)
	}
	created := make([]*entity.OrderItem, 0, len(inputs))
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		checked := map[string]bool{}
		touched := make([]string, 0, len(inputs))
		for i, in := range inputs {
			item, err := uc.buildItem(ctx, uow, kind, in, checked)
			if err != nil {
				if len(inputs) > 1 {
					return fmt.Errorf("línea %d: %w", i+1, err)
				}
				return err
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
			created = append(created, item)
			touched = append(touched, item.OrderID)
		}
		return uc.rollup.Recompute(ctx, uow, kind, touched...)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *ItemUseCase) buildItem(ctx context.Context, uow repository.UnitOfWork, kind entity.OrderKind, in ItemInput, checked map[string]bool) (*entity.OrderItem, error) {
	if in.OrderID == "" {
		return nil, domain.InvalidField("order_ID", "obligatorio")
	}
	if !checked[in.OrderID] {
		if _, err := editableOrder(ctx, uow.Orders(kind), in.OrderID); err != nil {
			return nil, err
		}
		checked[in.OrderID] = true
	}
	if err := ensureProduct(ctx, uow.Products(), in.ProductID); err != nil {
		return nil, err
	}
	price, total, err := pricing.LineTotal(kind, in.Quantity, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &entity.OrderItem{
		ID:        uuid.New().String(),
		OrderID:   in.OrderID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: price,
		LineTotal: total,
		CreatedAt: uc.now(),
	}, nil
}

// Get obtiene una línea.
func (uc *ItemUseCase) Get(ctx context.Context, kind entity.OrderKind, id string) (*entity.OrderItem, error) {
	var out *entity.OrderItem
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		item, err := uow.Orders(kind).GetItem(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista líneas de todos los pedidos del tipo (filtrable por order_ID).
func (uc *ItemUseCase) List(ctx context.Context, kind entity.OrderKind, q query.ListQuery) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) (err error) {
		out, err = uow.Orders(kind).QueryItems(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateItem modifica una línea y vuelve a aplicar la regla de precio, de modo que el
// importe guardado nunca queda desfasado respecto de cantidad y precio.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, kind entity.OrderKind, id string, in ItemPatch) (*entity.OrderItem, error) {
	var out *entity.OrderItem
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		item, err := repo.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if _, err := editableOrder(ctx, repo, item.OrderID); err != nil {
			return err
		}
		if in.ProductID != nil && *in.ProductID != item.ProductID {
			if err := ensureProduct(ctx, uow.Products(), *in.ProductID); err != nil {
				return err
			}
			item.ProductID = *in.ProductID
		}
		qty := item.Quantity
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		unit := item.UnitPrice
		if in.UnitPrice != nil {
			unit = *in.UnitPrice
		}
		price, total, err := pricing.LineTotal(kind, qty, &unit)
		if err != nil {
			return err
		}
		item.Quantity, item.UnitPrice, item.LineTotal = qty, price, total
		if err := repo.UpdateItem(ctx, item); err != nil {
			return err
		}
		out = item
		return uc.rollup.Recompute(ctx, uow, kind, item.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItem elimina una línea y recalcula el pedido.
func (uc *ItemUseCase) DeleteItem(ctx context.Context, kind entity.OrderKind, id string) error {
	return uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		item, err := repo.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		order, err := repo.GetForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order != nil && !order.Editable() {
			return fmt.Errorf("%w: pedido en estado %s", domain.ErrOrderLocked, order.Status)
		}
		if _, err := repo.DeleteItem(ctx, id); err != nil {
			return err
		}
		return uc.rollup.Recompute(ctx, uow, kind, item.OrderID)
	})
}

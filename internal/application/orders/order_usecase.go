// Package orders casos de uso de cabeceras (SalesOrders, PurchaseOrders) y líneas de pedido.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OrderInput datos de cabecera al crear un pedido.
type OrderInput struct {
	OrderNo        string
	CounterpartyID string
	ResponsibleID  string
	OrderDate      *time.Time
	CurrencyCode   string
	Notes          string
}

// OrderPatch cambios parciales de cabecera; nil = sin cambio.
type OrderPatch struct {
	OrderNo        *string
	CounterpartyID *string
	ResponsibleID  *string
	OrderDate      *time.Time
	CurrencyCode   *string
	Notes          *string
	Status         *string
}

// OrderWithItems cabecera con sus líneas ($expand=items).
type OrderWithItems struct {
	Order *entity.Order
	Items []*entity.OrderItem
}

// OrderUseCase CRUD de cabeceras. Estado y total no son editables libremente.
type OrderUseCase struct {
	tx  repository.TxRunner
	now func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(tx repository.TxRunner) *OrderUseCase {
	return &OrderUseCase{tx: tx, now: time.Now}
}

// Create crea el pedido en estado inicial y total 0. Genera el número si no viene.
func (uc *OrderUseCase) Create(ctx context.Context, kind entity.OrderKind, in OrderInput) (*entity.Order, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.CounterpartyID) == "" {
		return nil, domain.InvalidField(kind.CounterpartyField(), "obligatorio")
	}
	now := uc.now()
	id := uuid.New().String()
	order := &entity.Order{
		ID:             id,
		Kind:           kind,
		OrderNo:        strings.TrimSpace(in.OrderNo),
		CounterpartyID: in.CounterpartyID,
		ResponsibleID:  in.ResponsibleID,
		OrderDate:      now,
		CurrencyCode:   in.CurrencyCode,
		Status:         kind.InitialStatus(),
		TotalAmount:    decimal.Zero,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	if order.OrderNo == "" {
		order.OrderNo = OrderNumber(kind, now, id)
	}
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		return uow.Orders(kind).Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OrderNumber SO-YYYYMMDD-xxxxxx / PO-YYYYMMDD-xxxxxx a partir del id.
func OrderNumber(kind entity.OrderKind, at time.Time, id string) string {
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s-%s", kind.NumberPrefix(), at.Format("20060102"), suffix)
}

// Get obtiene un pedido; withItems incluye sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, kind entity.OrderKind, id string, withItems bool) (*OrderWithItems, error) {
	var out *OrderWithItems
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		order, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		out = &OrderWithItems{Order: order}
		if withItems {
			out.Items, err = repo.ListItems(ctx, id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista pedidos con las opciones de consulta.
func (uc *OrderUseCase) List(ctx context.Context, kind entity.OrderKind, q query.ListQuery, withItems bool) ([]*OrderWithItems, error) {
	var out []*OrderWithItems
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		list, err := repo.List(ctx, q)
		if err != nil {
			return err
		}
		out = make([]*OrderWithItems, 0, len(list))
		for _, o := range list {
			row := &OrderWithItems{Order: o}
			if withItems {
				if row.Items, err = repo.ListItems(ctx, o.ID); err != nil {
					return err
				}
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update aplica un patch de cabecera. El estado solo sigue las transiciones de CanPatchStatus.
func (uc *OrderUseCase) Update(ctx context.Context, kind entity.OrderKind, id string, in OrderPatch) (*entity.Order, error) {
	var out *entity.Order
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		order, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if in.Status != nil {
			to := strings.ToUpper(strings.TrimSpace(*in.Status))
			if !kind.CanPatchStatus(order.Status, to) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidState, order.Status, to)
			}
			order.Status = to
		}
		if in.OrderNo != nil {
			if strings.TrimSpace(*in.OrderNo) == "" {
				return domain.InvalidField("orderNo", "no puede quedar vacío")
			}
			order.OrderNo = strings.TrimSpace(*in.OrderNo)
		}
		if in.CounterpartyID != nil {
			if strings.TrimSpace(*in.CounterpartyID) == "" {
				return domain.InvalidField(kind.CounterpartyField(), "obligatorio")
			}
			order.CounterpartyID = *in.CounterpartyID
		}
		if in.ResponsibleID != nil {
			order.ResponsibleID = *in.ResponsibleID
		}
		if in.OrderDate != nil {
			order.OrderDate = *in.OrderDate
		}
		if in.CurrencyCode != nil {
			order.CurrencyCode = *in.CurrencyCode
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		order.UpdatedAt = uc.now()
		if err := repo.Update(ctx, order); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina el pedido y sus líneas.
func (uc *OrderUseCase) Delete(ctx context.Context, kind entity.OrderKind, id string) error {
	return uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Orders(kind).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
}

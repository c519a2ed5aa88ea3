package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// Dispatcher ejecuta comandos de cumplimiento.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd Command) (*entity.Order, error)
}

// Service implementación de Dispatcher sobre un TxRunner.
type Service struct {
	tx  repository.TxRunner
	log *logger.Logger
	now func() time.Time
}

var _ Dispatcher = (*Service)(nil)

// NewService construye el servicio. log puede ser nil.
func NewService(tx repository.TxRunner, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{tx: tx, log: log, now: time.Now}
}

// Dispatch enruta el comando según su tipo concreto.
func (s *Service) Dispatch(ctx context.Context, cmd Command) (*entity.Order, error) {
	switch c := cmd.(type) {
	case SubmitSalesOrder:
		return s.fulfill(ctx, c)
	case ReceivePurchaseOrder:
		return s.fulfill(ctx, c)
	case nil:
		return nil, fmt.Errorf("%w: comando vacío", domain.ErrInvalidInput)
	}
	return nil, fmt.Errorf("%w: comando %T no soportado", domain.ErrInvalidInput, cmd)
}

// fulfill aplica el flujo común. Cualquier error deshace stock, kardex y estado.
func (s *Service) fulfill(ctx context.Context, cmd Command) (*entity.Order, error) {
	kind := cmd.Kind()
	var result *entity.Order
	lines := 0

	err := s.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		orders := uow.Orders(kind)
		products := uow.Products()
		movements := uow.Movements()

		order, err := orders.GetForUpdate(ctx, cmd.Target())
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, cmd.Target())
		}
		if order.Status != kind.InitialStatus() {
			return fmt.Errorf("%w: el pedido está en estado %s", domain.ErrInvalidState, order.Status)
		}
		if strings.TrimSpace(order.ResponsibleID) == "" {
			return &domain.FieldError{Field: kind.ResponsibleField(), Err: domain.ErrMissingResponsibleParty}
		}

		items, err := orders.ListItems(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyOrder
		}
		lines = len(items)

		now := s.now()
		ref := order.Reference()
		for _, it := range items {
			product, err := products.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
			}
			delta := it.Quantity
			if kind == entity.KindSales {
				if product.Stock < it.Quantity {
					return stockError(product, it.Quantity, product.Stock)
				}
				delta = -it.Quantity
			}
			available, err := products.AdjustStock(ctx, product.ID, delta)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return stockError(product, it.Quantity, available)
			}
			if err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          kind.MovementType(),
				Quantity:      it.Quantity,
				Reference:     ref,
				ResponsibleID: order.ResponsibleID,
				CreatedBy:     cmd.Identity().UserID,
				Date:          now,
			}
			if err := movements.Create(ctx, mov); err != nil {
				return err
			}
		}

		if err := orders.UpdateStatus(ctx, order.ID, kind.FulfilledStatus()); err != nil {
			return err
		}
		result, err = orders.GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Str("order_id", cmd.Target()).
			Str("actor", cmd.Identity().UserID).Msg("cumplimiento rechazado")
		return nil, err
	}
	s.log.Info().Str("kind", string(kind)).Str("order_id", result.ID).Int("lines", lines).
		Str("status", result.Status).Str("actor", cmd.Identity().UserID).Msg("pedido cumplido")
	return result, nil
}

func stockError(p *entity.Product, required, available int) error {
	return &domain.StockError{ProductID: p.ID, ProductName: p.Name, Required: required, Available: available}
}

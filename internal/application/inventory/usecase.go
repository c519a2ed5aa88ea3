package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales de inventario (IN/OUT) de forma
// transaccional: bloquea el producto, ajusta el stock con decremento condicional y
// agrega el registro al kardex. Commit/Rollback lo hace el TxRunner.
type RegisterMovementUseCase struct {
	txRunner repository.TxRunner
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner repository.TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, now: time.Now}
}

// RegisterMovement aplica el movimiento. El responsable por defecto es el empleado
// vinculado al usuario que lo registra.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor entity.Identity, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	movType := strings.ToUpper(strings.TrimSpace(in.Type))
	if movType != entity.MovementTypeIN && movType != entity.MovementTypeOUT {
		return nil, domain.InvalidField("type", "debe ser IN u OUT")
	}
	if in.ProductID == "" {
		return nil, domain.InvalidField("product_ID", "obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, &domain.FieldError{Field: "quantity", Err: domain.ErrInvalidQuantity}
	}
	responsible := in.ResponsibleID
	if responsible == "" {
		responsible = actor.EmployeeID
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		Type:          movType,
		Quantity:      in.Quantity,
		Reference:     in.Reference,
		ResponsibleID: responsible,
		CreatedBy:     actor.UserID,
		Date:          uc.now(),
	}
	if mov.Reference == "" {
		mov.Reference = "Ajuste manual"
	}

	var stock int
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		product, err := uow.Products().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.FieldError{Field: "product_ID", Err: domain.ErrNotFound}
		}
		stock, err = uow.Products().AdjustStock(ctx, product.ID, mov.Delta())
		if errors.Is(err, domain.ErrInsufficientStock) {
			return &domain.StockError{ProductID: product.ID, ProductName: product.Name, Required: in.Quantity, Available: product.Stock}
		}
		if err != nil {
			return err
		}
		return uow.Movements().Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	out.Stock = &stock
	return out, nil
}

// ListMovements consulta el kardex.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, q query.ListQuery) ([]dto.StockMovementResponse, error) {
	var list []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) (err error) {
		list, err = uow.Movements().List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		ResponsibleID: m.ResponsibleID,
		CreatedBy:     m.CreatedBy,
		Date:          m.Date,
	}
}

// Package rollup mantiene totalAmount de los pedidos como suma de sus líneas.
package rollup

import (
	"context"
	"fmt"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// Engine recalcula totales dentro de la unidad de trabajo del llamador.
type Engine struct {
	log *logger.Logger
}

// New construye el motor. log puede ser nil.
func New(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log}
}

// Recompute suma las líneas actuales de cada pedido (consulta agregada, no delta) y
// escribe el total en la cabecera. Los ids repetidos se procesan una sola vez.
// Un pedido que ya no existe se omite sin error.
func (e *Engine) Recompute(ctx context.Context, uow repository.UnitOfWork, kind entity.OrderKind, orderIDs ...string) error {
	orders := uow.Orders(kind)
	seen := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		total, err := orders.SumLineTotals(ctx, id)
		if err != nil {
			return fmt.Errorf("rollup %s %s: %w", kind, id, err)
		}
		ok, err := orders.UpdateTotal(ctx, id, total)
		if err != nil {
			return fmt.Errorf("rollup %s %s: %w", kind, id, err)
		}
		if !ok {
			e.log.Debug().Str("kind", string(kind)).Str("order_id", id).Msg("rollup omitido: pedido inexistente")
		}
	}
	return nil
}

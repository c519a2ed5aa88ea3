package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/application/fulfillment"
	"github.com/jhoicas/pyme-erp/internal/domain"
)

// ActionHandler acciones ligadas a un pedido: /catalog/{Set}/{id}/{action}.
type ActionHandler struct {
	dispatcher fulfillment.Dispatcher
}

// NewActionHandler construye el handler.
func NewActionHandler(d fulfillment.Dispatcher) *ActionHandler {
	return &ActionHandler{dispatcher: d}
}

// Invoke godoc
// @Summary      Ejecutar acción de cumplimiento
// @Description  SalesOrders/{id}/submit descuenta stock (OPEN -> CONFIRMED); PurchaseOrders/{id}/receive lo suma (CREATED -> RECEIVED).
// @Description  Todo o nada: si una línea falla no se mueve stock ni se escribe kardex. El body se ignora.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        set     path  string  true  "SalesOrders | PurchaseOrders"
// @Param        id      path  string  true  "ID del pedido"
// @Param        action  path  string  true  "submit | receive"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /catalog/{set}/{id}/{action} [post]
func (h *ActionHandler) Invoke(c *fiber.Ctx) error {
	set, action := c.Params("set"), c.Params("action")
	cmd, ok := fulfillment.ParseCommand(set, action, c.Params("id"), GetIdentity(c))
	if !ok {
		return fmt.Errorf("%w: acción %s no existe en %s", domain.ErrNotFound, action, set)
	}
	order, err := h.dispatcher.Dispatch(c.UserContext(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(order, nil))
}

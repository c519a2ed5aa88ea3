package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/application/inventory"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// InventoryHandler kardex: registro manual de movimientos y consulta (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Ajusta el stock del producto y agrega el movimiento al kardex en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_ID, type (IN|OUT), quantity, reference, responsible_ID"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /catalog/StockMovements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return errBody(err)
	}
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if err := validateStruct(&in); err != nil {
		return err
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        $filter   query  string  false  "p. ej. product_ID eq '...' and type eq 'OUT'"
// @Param        $orderby  query  string  false  "p. ej. date desc"
// @Param        $top      query  int     false  "Límite"
// @Param        $skip     query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse[dto.StockMovementResponse]
// @Router       /catalog/StockMovements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q, err := ParseListQuery(c, entity.StockMovementSchema)
	if err != nil {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/StockMovements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.ListMovements(c.UserContext(), query.ListQuery{}.Where("ID", c.Params("id")))
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return domain.ErrNotFound
	}
	return c.JSON(out[0])
}

// Immutable responde 405: el kardex nunca se modifica ni se borra.
func (h *InventoryHandler) Immutable(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusMethodNotAllowed, "los movimientos de inventario son inmutables")
}

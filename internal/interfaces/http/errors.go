package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// errorMapping sentinel de dominio -> status HTTP y código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest, "INVALID_PRICE"},
	{domain.ErrMissingResponsibleParty, fiber.StatusBadRequest, "MISSING_RESPONSIBLE_PARTY"},
	{domain.ErrEmptyOrder, fiber.StatusBadRequest, "EMPTY_ORDER"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrOrderLocked, fiber.StatusConflict, "ORDER_LOCKED"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// classify traduce un error a status, código y target (campo) sin exponer errores internos.
func classify(err error) (int, dto.ErrorBody) {
	var fe *domain.FieldError
	target := ""
	if errors.As(err, &fe) {
		target = fe.Field
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorBody{Code: m.code, Message: err.Error(), Target: target}
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, dto.ErrorBody{Code: fiberCode(fiberErr.Code), Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorBody{Code: "INTERNAL", Message: "error interno del servidor"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	}
	return "ERROR"
}

// ErrorHandler handler de errores de la app Fiber: los handlers devuelven errores de dominio
// y aquí se convierten en { "error": { "code", "message" } }.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: body})
	}
}

// errBody error de parseo del cuerpo.
func errBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido: "+err.Error())
}

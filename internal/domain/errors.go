package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrInvalidQuantity         = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidPrice            = errors.New("precio inválido")
	ErrMissingResponsibleParty = errors.New("el pedido no tiene responsable asignado")
	ErrEmptyOrder              = errors.New("el pedido no tiene líneas")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInvalidState            = errors.New("transición de estado no permitida")
	ErrOrderLocked             = errors.New("el pedido ya no admite cambios en sus líneas")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
)

// StockError detalla una falta de stock. errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ProductID   string
	ProductName string
	Required    int
	Available   int
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: requerido %d, disponible %d", name, e.Required, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// FieldError error de validación asociado a un campo.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// InvalidField construye un FieldError sobre ErrInvalidInput.
func InvalidField(field, reason string) error {
	return &FieldError{Field: field, Err: fmt.Errorf("%w: %s", ErrInvalidInput, reason)}
}

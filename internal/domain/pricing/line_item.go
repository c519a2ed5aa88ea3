package pricing

import (
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineTotal implementa la regla de precio de línea (servicio de dominio).
// Importe = Cantidad * PrecioUnitario.
// Venta exige precio > 0; compra admite costo 0 (bonificación) pero no negativo.
func LineTotal(kind entity.OrderKind, quantity int, unitPrice *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidQuantity
	}
	price := decimal.Zero
	if unitPrice != nil {
		price = *unitPrice
	}
	switch kind {
	case entity.KindSales:
		if unitPrice == nil || !price.GreaterThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidPrice
		}
	case entity.KindPurchase:
		if price.LessThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidPrice
		}
	default:
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	return price, decimal.NewFromInt(int64(quantity)).Mul(price), nil
}

// ValidateProductPrice regla de creación de producto: precio obligatorio y > 0.
func ValidateProductPrice(price *decimal.Decimal) error {
	if price == nil || !price.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidPrice
	}
	return nil
}

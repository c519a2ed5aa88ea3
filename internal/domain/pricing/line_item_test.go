package pricing

import (
	"testing"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLineTotal_Venta(t *testing.T) {
	price, total, err := LineTotal(entity.KindSales, 3, dec("10"))
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(10)))
	assert.True(t, total.Equal(decimal.NewFromInt(30)))

	_, total, err = LineTotal(entity.KindSales, 7, dec("0.15"))
	require.NoError(t, err)
	assert.Equal(t, "1.05", total.String(), "sin errores de punto flotante")
}

func TestLineTotal_Rechazos(t *testing.T) {
	cases := []struct {
		name  string
		kind  entity.OrderKind
		qty   int
		price *decimal.Decimal
		want  error
	}{
		{"cantidad cero", entity.KindSales, 0, dec("5"), domain.ErrInvalidQuantity},
		{"cantidad negativa compra", entity.KindPurchase, -2, dec("5"), domain.ErrInvalidQuantity},
		{"venta precio cero", entity.KindSales, 1, dec("0"), domain.ErrInvalidPrice},
		{"venta sin precio", entity.KindSales, 1, nil, domain.ErrInvalidPrice},
		{"venta precio negativo", entity.KindSales, 1, dec("-1"), domain.ErrInvalidPrice},
		{"compra costo negativo", entity.KindPurchase, 1, dec("-0.01"), domain.ErrInvalidPrice},
		{"tipo desconocido", entity.OrderKind("x"), 1, dec("1"), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := LineTotal(tc.kind, tc.qty, tc.price)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLineTotal_CompraBonificacion(t *testing.T) {
	_, total, err := LineTotal(entity.KindPurchase, 4, dec("0"))
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, total, err = LineTotal(entity.KindPurchase, 4, nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestValidateProductPrice(t *testing.T) {
	assert.ErrorIs(t, ValidateProductPrice(nil), domain.ErrInvalidPrice)
	assert.ErrorIs(t, ValidateProductPrice(dec("0")), domain.ErrInvalidPrice)
	assert.NoError(t, ValidateProductPrice(dec("0.01")))
}

package http

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery_FiltroOrdenYPaginacion(t *testing.T) {
	q, err := parseListQuery(entity.OrderSchema(entity.KindSales),
		"status eq 'OPEN' and totalAmount ge 10.5 and salesPerson_ID eq null",
		"orderDate desc, orderNo", "20", "40")
	require.NoError(t, err)

	require.Len(t, q.Filters, 3)
	assert.Equal(t, query.Condition{Field: "status", Op: query.Eq, Value: "OPEN"}, q.Filters[0])
	assert.Equal(t, "totalAmount", q.Filters[1].Field)
	assert.Equal(t, query.Ge, q.Filters[1].Op)
	assert.True(t, decimal.RequireFromString("10.5").Equal(q.Filters[1].Value.(decimal.Decimal)))
	assert.Equal(t, "responsible_ID", q.Filters[2].Field, "nombre público traducido al canónico")
	assert.Nil(t, q.Filters[2].Value)

	assert.Equal(t, []query.Sort{{Field: "orderDate", Desc: true}, {Field: "orderNo"}}, q.OrderBy)
	assert.Equal(t, 20, q.Top)
	assert.Equal(t, 40, q.Skip)
}

func TestParseListQuery_Literales(t *testing.T) {
	schema := entity.ProductSchema

	q, err := parseListQuery(schema, "name eq 'O''Brien' and isActive eq true and stock lt 3", "", "", "")
	require.NoError(t, err)
	require.Len(t, q.Filters, 3)
	assert.Equal(t, "O'Brien", q.Filters[0].Value)
	assert.Equal(t, true, q.Filters[1].Value)
	assert.Equal(t, 3, q.Filters[2].Value)

	q, err = parseListQuery(entity.StockMovementSchema, "date gt 2025-01-31", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), q.Filters[0].Value)
}

func TestParseListQuery_Errores(t *testing.T) {
	schema := entity.ProductSchema
	cases := []struct{ filter, orderBy, top string }{
		{filter: "password eq 'x'"},
		{filter: "name eq"},
		{filter: "name like 'x'"},
		{filter: "name eq 'x' or stock eq 1"},
		{filter: "name eq 'x' and"},
		{filter: "(name eq 'x')"},
		{filter: "name eq 'sin cerrar"},
		{filter: "stock eq 'muchos'"},
		{orderBy: "name sideways"},
		{orderBy: "secret"},
		{top: "-1"},
		{top: "diez"},
	}
	for _, tc := range cases {
		_, err := parseListQuery(schema, tc.filter, tc.orderBy, tc.top, "")
		require.Error(t, err, "%+v", tc)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", tc)
	}
}

func TestParseListQuery_NombresDeCompra(t *testing.T) {
	_, err := parseListQuery(entity.OrderItemSchema(entity.KindPurchase), "unitPrice gt 0", "", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "en compras el campo es unitCost")

	q, err := parseListQuery(entity.OrderItemSchema(entity.KindPurchase), "unitCost eq 0", "lineTotal desc", "", "")
	require.NoError(t, err)
	assert.Equal(t, "unitPrice", q.Filters[0].Field)
	assert.Equal(t, "lineTotal", q.OrderBy[0].Field)
}

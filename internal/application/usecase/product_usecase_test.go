package usecase

import (
	"context"
	"testing"

	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestProductUseCase_CreateDefaults(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore())
	p, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Tornillo", SKU: "T-1", Price: price("12.50"), CurrencyCode: "clp"})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "CLP", p.CurrencyCode)
	assert.NotEmpty(t, p.ID)

	inactive := false
	p, err = uc.Create(context.Background(), dto.CreateProductRequest{Name: "Tuerca", Price: price("1"), IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}

func TestProductUseCase_CreatePrecioInvalido(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore())
	for _, p := range []*decimal.Decimal{nil, price("0"), price("-3")} {
		_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "X", Price: p})
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	}
}

func TestProductUseCase_StockSoloLectura(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore())
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Caja", Price: price("3")})
	require.NoError(t, err)

	stock := 99
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Stock: &stock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "Caja grande"
	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, Price: price("4")})
	require.NoError(t, err)
	assert.Equal(t, "Caja grande", upd.Name)
	assert.True(t, decimal.NewFromInt(4).Equal(upd.Price))
	assert.Equal(t, 0, upd.Stock)

	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ListYDelete(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore())
	ctx := context.Background()
	a, _ := uc.Create(ctx, dto.CreateProductRequest{Name: "A", SKU: "A", Price: price("5")})
	_, _ = uc.Create(ctx, dto.CreateProductRequest{Name: "B", SKU: "B", Price: price("15")})

	list, err := uc.List(ctx, query.ListQuery{Filters: []query.Condition{{Field: "price", Op: query.Gt, Value: decimal.NewFromInt(10)}}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)
}

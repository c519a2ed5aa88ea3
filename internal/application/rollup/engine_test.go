package rollup

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingOrders cuenta las llamadas a SumLineTotals.
type countingOrders struct {
	repository.OrderRepository
	sums int
}

func (c *countingOrders) SumLineTotals(ctx context.Context, id string) (decimal.Decimal, error) {
	c.sums++
	return c.OrderRepository.SumLineTotals(ctx, id)
}

type countingUoW struct {
	repository.UnitOfWork
	orders *countingOrders
}

func (u *countingUoW) Orders(kind entity.OrderKind) repository.OrderRepository {
	u.orders.OrderRepository = u.UnitOfWork.Orders(kind)
	return u.orders
}

func seedOrder(t *testing.T, store *memory.Store, kind entity.OrderKind, id string, lines ...decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		if err := repo.Create(ctx, &entity.Order{ID: id, Status: kind.InitialStatus(), CreatedAt: time.Now()}); err != nil {
			return err
		}
		for i, lt := range lines {
			it := &entity.OrderItem{ID: id + "-" + string(rune('a'+i)), OrderID: id, ProductID: "p", Quantity: 1, UnitPrice: lt, LineTotal: lt}
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	}))
}

func total(t *testing.T, store *memory.Store, kind entity.OrderKind, id string) decimal.Decimal {
	t.Helper()
	var out decimal.Decimal
	require.NoError(t, store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		o, err := uow.Orders(kind).GetByID(context.Background(), id)
		require.NotNil(t, o)
		out = o.TotalAmount
		return err
	}))
	return out
}

func TestRecompute_SumaLineasActuales(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, entity.KindSales, "so1", decimal.NewFromInt(30), decimal.NewFromInt(10))

	eng := New(nil)
	require.NoError(t, store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		return eng.Recompute(context.Background(), uow, entity.KindSales, "so1")
	}))
	assert.True(t, decimal.NewFromInt(40).Equal(total(t, store, entity.KindSales, "so1")))
}

func TestRecompute_DeduplicaPorPedido(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, entity.KindPurchase, "po1", decimal.NewFromInt(5))
	seedOrder(t, store, entity.KindPurchase, "po2", decimal.NewFromInt(7))

	eng := New(nil)
	counter := &countingOrders{}
	require.NoError(t, store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		return eng.Recompute(context.Background(), &countingUoW{UnitOfWork: uow, orders: counter}, entity.KindPurchase, "po1", "po2", "po1", "", "po2")
	}))
	assert.Equal(t, 2, counter.sums)
	assert.True(t, decimal.NewFromInt(7).Equal(total(t, store, entity.KindPurchase, "po2")))
}

func TestRecompute_PedidoInexistenteSeOmite(t *testing.T) {
	store := memory.NewStore()
	eng := New(nil)
	err := store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		return eng.Recompute(context.Background(), uow, entity.KindSales, "no-existe")
	})
	assert.NoError(t, err)
}

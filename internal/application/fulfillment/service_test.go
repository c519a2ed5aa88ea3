package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actor = entity.Identity{UserID: "u-1", Username: "ana", Role: entity.RoleSales}

type line struct {
	product string
	qty     int
	price   int64
}

type fixture struct {
	t     *testing.T
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	store := memory.NewStore()
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return &fixture{t: t, store: store, svc: svc}
}

func (f *fixture) run(fn func(ctx context.Context, uow repository.UnitOfWork) error) {
	f.t.Helper()
	ctx := context.Background()
	require.NoError(f.t, f.store.Run(ctx, func(uow repository.UnitOfWork) error { return fn(ctx, uow) }))
}

func (f *fixture) product(id string, stock int) {
	f.run(func(ctx context.Context, uow repository.UnitOfWork) error {
		return uow.Products().Create(ctx, &entity.Product{ID: id, Name: "Prod " + id, SKU: id, Price: decimal.NewFromInt(1), IsActive: true, Stock: stock})
	})
}

func (f *fixture) order(kind entity.OrderKind, id, responsible string, lines ...line) {
	f.run(func(ctx context.Context, uow repository.UnitOfWork) error {
		repo := uow.Orders(kind)
		o := &entity.Order{ID: id, OrderNo: "N-" + id, ResponsibleID: responsible, Status: kind.InitialStatus(), CreatedAt: time.Now()}
		if err := repo.Create(ctx, o); err != nil {
			return err
		}
		for i, l := range lines {
			price := decimal.NewFromInt(l.price)
			it := &entity.OrderItem{
				ID: id + "-" + string(rune('a'+i)), OrderID: id, ProductID: l.product, Quantity: l.qty,
				UnitPrice: price, LineTotal: price.Mul(decimal.NewFromInt(int64(l.qty))),
				CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
			}
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *fixture) stock(id string) int {
	var out int
	f.run(func(ctx context.Context, uow repository.UnitOfWork) error {
		p, err := uow.Products().GetByID(ctx, id)
		require.NotNil(f.t, p)
		out = p.Stock
		return err
	})
	return out
}

func (f *fixture) movements() []*entity.StockMovement {
	var out []*entity.StockMovement
	f.run(func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		out, err = uow.Movements().List(ctx, query.ListQuery{})
		return err
	})
	return out
}

func (f *fixture) status(kind entity.OrderKind, id string) string {
	var out string
	f.run(func(ctx context.Context, uow repository.UnitOfWork) error {
		o, err := uow.Orders(kind).GetByID(ctx, id)
		require.NotNil(f.t, o)
		out = o.Status
		return err
	})
	return out
}

func TestSubmit_DescuentaStockYRegistraKardex(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 10)
	f.product("p2", 4)
	f.order(entity.KindSales, "so1", "emp-7", line{"p1", 3, 10}, line{"p2", 2, 5})

	order, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, order.Status)
	assert.Equal(t, 7, f.stock("p1"))
	assert.Equal(t, 2, f.stock("p2"))

	movs := f.movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.Equal(t, "Venta N-so1", m.Reference)
		assert.Equal(t, "emp-7", m.ResponsibleID)
		assert.Equal(t, "u-1", m.CreatedBy)
	}
}

func TestSubmit_StockInsuficienteNoMutaNada(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 2)
	f.product("p2", 50)
	// la línea con stock suficiente va primero: su descuento también debe deshacerse
	f.order(entity.KindSales, "so1", "emp-7", line{"p2", 2, 5}, line{"p1", 3, 10})

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "p1", se.ProductID)
	assert.Equal(t, 3, se.Required)
	assert.Equal(t, 2, se.Available)

	assert.Equal(t, 2, f.stock("p1"))
	assert.Equal(t, 50, f.stock("p2"))
	assert.Empty(t, f.movements())
	assert.Equal(t, entity.StatusOpen, f.status(entity.KindSales, "so1"))
}

func TestSubmit_MismoProductoEnVariasLineas(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 5)
	f.order(entity.KindSales, "so1", "emp-7", line{"p1", 3, 10}, line{"p1", 3, 10})

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock("p1"))
}

func TestSubmit_SinResponsable(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 100)
	f.order(entity.KindSales, "so1", "", line{"p1", 1, 10})

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrMissingResponsibleParty)
	assert.Equal(t, 100, f.stock("p1"))
}

func TestSubmit_PedidoVacioEInexistente(t *testing.T) {
	f := newFixture(t)
	f.order(entity.KindSales, "so1", "emp-7")

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "nope", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_SoloUnaVez(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 10)
	f.order(entity.KindSales, "so1", "emp-7", line{"p1", 1, 10})

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 9, f.stock("p1"))
	assert.Len(t, f.movements(), 1)
}

func TestReceive_SumaStockSinLimite(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 0)
	f.product("p2", 3)
	f.order(entity.KindPurchase, "po1", "buyer-1", line{"p1", 4, 0}, line{"p2", 6, 12})

	order, err := f.svc.Dispatch(context.Background(), ReceivePurchaseOrder{OrderID: "po1", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, order.Status)
	assert.Equal(t, 4, f.stock("p1"))
	assert.Equal(t, 9, f.stock("p2"))

	movs := f.movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeIN, m.Type)
		assert.Equal(t, "buyer-1", m.ResponsibleID)
		assert.Equal(t, "Compra N-po1", m.Reference)
	}
}

func TestReceive_ProductoInexistenteDeshace(t *testing.T) {
	f := newFixture(t)
	f.product("p1", 1)
	f.order(entity.KindPurchase, "po1", "buyer-1", line{"p1", 4, 2}, line{"ghost", 1, 2})

	_, err := f.svc.Dispatch(context.Background(), ReceivePurchaseOrder{OrderID: "po1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.stock("p1"))
	assert.Equal(t, entity.StatusCreated, f.status(entity.KindPurchase, "po1"))
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("SalesOrders", "submit", "x", actor)
	require.True(t, ok)
	assert.Equal(t, SubmitSalesOrder{OrderID: "x", Actor: actor}, cmd)

	cmd, ok = ParseCommand("PurchaseOrders", "receive", "y", actor)
	require.True(t, ok)
	assert.Equal(t, entity.KindPurchase, cmd.Kind())

	_, ok = ParseCommand("SalesOrders", "receive", "x", actor)
	assert.False(t, ok)
	_, ok = ParseCommand("Products", "submit", "x", actor)
	assert.False(t, ok)
}

func TestDispatch_ComandoNil(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func muchasLineas(product string, n int) []line {
	out := make([]line, n)
	for i := range out {
		out[i] = line{product, 1, 2}
	}
	return out
}

func TestReceive_ProcesaTodasLasLineasMasAllaDeUnaPagina(t *testing.T) {
	n := query.MaxTop + 1
	f := newFixture(t)
	f.product("p1", 0)
	f.order(entity.KindPurchase, "po1", "buyer-1", muchasLineas("p1", n)...)

	order, err := f.svc.Dispatch(context.Background(), ReceivePurchaseOrder{OrderID: "po1", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, order.Status)
	assert.Equal(t, n, f.stock("p1"))

	var rest []*entity.StockMovement
	f.run(func(ctx context.Context, uow repository.UnitOfWork) (err error) {
		rest, err = uow.Movements().List(ctx, query.ListQuery{Top: query.MaxTop, Skip: query.MaxTop})
		return err
	})
	assert.Len(t, rest, 1, "debe haber un movimiento por línea")
}

func TestSubmit_LineaFueraDeLaPrimeraPaginaTambienSeValida(t *testing.T) {
	n := query.MaxTop + 1
	f := newFixture(t)
	f.product("p1", query.MaxTop)
	f.order(entity.KindSales, "so1", "sp-1", muchasLineas("p1", n)...)

	_, err := f.svc.Dispatch(context.Background(), SubmitSalesOrder{OrderID: "so1", Actor: actor})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, query.MaxTop, f.stock("p1"))
	assert.Equal(t, entity.StatusOpen, f.status(entity.KindSales, "so1"))
	assert.Empty(t, f.movements())
}

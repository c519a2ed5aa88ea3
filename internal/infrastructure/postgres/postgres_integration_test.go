package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pyme-erp/internal/application/catalog"
	"github.com/jhoicas/pyme-erp/internal/application/fulfillment"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/pyme-erp/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "levantar contenedor postgres")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// idempotente
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestPostgres_Integracion(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	run := func(fn func(uow repository.UnitOfWork) error) error { return tx.Run(ctx, fn) }

	t.Run("productos y stock condicional", func(t *testing.T) {
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			return uow.Products().Create(ctx, &entity.Product{
				ID: "p-1", Name: "Tornillo", SKU: "T-1", Price: decimal.RequireFromString("2.50"),
				IsActive: true, Stock: 5, CreatedAt: now, UpdatedAt: now,
			})
		}))

		err := run(func(uow repository.UnitOfWork) error {
			return uow.Products().Create(ctx, &entity.Product{ID: "p-dup", Name: "Otro", SKU: "T-1", Price: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now})
		})
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		err = run(func(uow repository.UnitOfWork) error {
			_, err := uow.Products().AdjustStock(ctx, "p-1", -6)
			return err
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		var stock int
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			var err error
			stock, err = uow.Products().AdjustStock(ctx, "p-1", 3)
			return err
		}))
		assert.Equal(t, 8, stock)

		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			p, err := uow.Products().GetByID(ctx, "p-1")
			require.NotNil(t, p)
			assert.True(t, decimal.RequireFromString("2.5").Equal(p.Price))
			return err
		}))
	})

	t.Run("pedido de venta, total y despacho", func(t *testing.T) {
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			repo := uow.Orders(entity.KindSales)
			o := &entity.Order{
				ID: "so-1", OrderNo: "SO-1", CounterpartyID: "c-1", ResponsibleID: "e-1",
				OrderDate: now, Status: entity.StatusOpen, CreatedAt: now, UpdatedAt: now,
			}
			if err := repo.Create(ctx, o); err != nil {
				return err
			}
			for i, qty := range []int{2, 4} {
				price := decimal.NewFromInt(5)
				if err := repo.CreateItem(ctx, &entity.OrderItem{
					ID: fmt.Sprintf("si-%d", i), OrderID: "so-1", ProductID: "p-1", Quantity: qty,
					UnitPrice: price, LineTotal: price.Mul(decimal.NewFromInt(int64(qty))), CreatedAt: now.Add(time.Duration(i) * time.Second),
				}); err != nil {
					return err
				}
			}
			sum, err := repo.SumLineTotals(ctx, "so-1")
			if err != nil {
				return err
			}
			assert.True(t, decimal.NewFromInt(30).Equal(sum))
			_, err = repo.UpdateTotal(ctx, "so-1", sum)
			return err
		}))

		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			items, err := uow.Orders(entity.KindSales).QueryItems(ctx, query.ListQuery{}.Where("quantity", 4))
			require.Len(t, items, 1)
			assert.Equal(t, "si-1", items[0].ID)
			return err
		}))

		svc := fulfillment.NewService(tx, nil)
		order, err := svc.Dispatch(ctx, fulfillment.SubmitSalesOrder{OrderID: "so-1", Actor: entity.Identity{UserID: "u-1"}})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, order.Status)
		assert.True(t, decimal.NewFromInt(30).Equal(order.TotalAmount))

		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			p, err := uow.Products().GetByID(ctx, "p-1")
			require.NotNil(t, p)
			assert.Equal(t, 2, p.Stock)
			movs, err2 := uow.Movements().List(ctx, query.ListQuery{}.Where("product_ID", "p-1"))
			assert.Len(t, movs, 2)
			if err != nil {
				return err
			}
			return err2
		}))

		_, err = svc.Dispatch(ctx, fulfillment.SubmitSalesOrder{OrderID: "so-1"})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("borrado en cascada de líneas", func(t *testing.T) {
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			repo := uow.Orders(entity.KindPurchase)
			if err := repo.Create(ctx, &entity.Order{ID: "po-1", OrderNo: "PO-1", CounterpartyID: "s-1", OrderDate: now, Status: entity.StatusCreated, CreatedAt: now, UpdatedAt: now}); err != nil {
				return err
			}
			return repo.CreateItem(ctx, &entity.OrderItem{ID: "pi-1", OrderID: "po-1", ProductID: "p-1", Quantity: 1, UnitPrice: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(1), CreatedAt: now})
		}))
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			ok, err := uow.Orders(entity.KindPurchase).Delete(ctx, "po-1")
			assert.True(t, ok)
			return err
		}))
		require.NoError(t, run(func(uow repository.UnitOfWork) error {
			it, err := uow.Orders(entity.KindPurchase).GetItem(ctx, "pi-1")
			assert.Nil(t, it)
			return err
		}))
	})

	t.Run("catálogo genérico", func(t *testing.T) {
		svc := catalog.NewService(postgres.NewCatalogRepository(pool), catalog.DefaultSets()...)
		set, ok := svc.Set("Customers")
		require.True(t, ok)

		rec, err := svc.Create(ctx, set, map[string]any{"name": "ACME", "city": "Bogotá"})
		require.NoError(t, err)
		id, _ := rec["ID"].(string)
		require.NotEmpty(t, id)
		assert.Equal(t, true, rec["isActive"])

		list, err := svc.List(ctx, set, query.ListQuery{}.Where("city", "Bogotá"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "ACME", list[0]["name"])

		rec, err = svc.Update(ctx, set, id, map[string]any{"isActive": false})
		require.NoError(t, err)
		assert.Equal(t, false, rec["isActive"])

		require.NoError(t, svc.Delete(ctx, set, id))
		_, err = svc.Get(ctx, set, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

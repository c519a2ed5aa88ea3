package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestCatalog_CreateAsignaClaveYDefaults(t *testing.T) {
	svc := NewService(memory.NewStore().Catalog())
	ctx := context.Background()

	rec, err := svc.Create(ctx, Customers, body(t, `{"name":"ACME","taxNumber":"76.123.456-7"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, rec["ID"])
	assert.Equal(t, true, rec["isActive"])

	list, err := svc.List(ctx, Customers, query.ListQuery{}.Where("taxNumber", "76.123.456-7"))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalog_Validaciones(t *testing.T) {
	svc := NewService(memory.NewStore().Catalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, Customers, body(t, `{"name":"X","foo":1}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, Customers, body(t, `{"email":"a@b.c"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, Currencies, body(t, `{"name":"Peso"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, Contracts, body(t, `{"employee_ID":"e1","startDate":"ayer"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_PayrollDerivaTotal(t *testing.T) {
	svc := NewService(memory.NewStore().Catalog())
	ctx := context.Background()

	rec, err := svc.Create(ctx, Payrolls, body(t, `{"employee_ID":"e1","period":"2025-01","baseSalary":1000,"bonuses":200,"overtimeAmount":50,"discounts":150,"totalLiquid":1}`))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1100).Equal(rec["totalLiquid"].(decimal.Decimal)))

	upd, err := svc.Update(ctx, Payrolls, rec["ID"].(string), body(t, `{"discounts":0}`))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1250).Equal(upd["totalLiquid"].(decimal.Decimal)))
}

func TestCatalog_UpdateYDelete(t *testing.T) {
	svc := NewService(memory.NewStore().Catalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, Currencies, body(t, `{"code":"CLP","name":"Peso chileno","minorUnit":0}`))
	require.NoError(t, err)

	upd, err := svc.Update(ctx, Currencies, "CLP", body(t, `{"symbol":"$"}`))
	require.NoError(t, err)
	assert.Equal(t, "$", upd["symbol"])

	_, err = svc.Update(ctx, Currencies, "CLP", body(t, `{"code":"USD"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(ctx, Currencies, "EUR", body(t, `{"symbol":"€"}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, Currencies, "CLP"))
	assert.ErrorIs(t, svc.Delete(ctx, Currencies, "CLP"), domain.ErrNotFound)
}

func TestCatalog_Names(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, []string{"CompanySettings", "Contracts", "Currencies", "Customers", "Employees", "Payrolls", "Suppliers"}, svc.Names())
	_, ok := svc.Set("Products")
	assert.False(t, ok)
}

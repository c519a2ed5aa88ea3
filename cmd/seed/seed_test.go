package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/jhoicas/pyme-erp/internal/application/usecase"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/jhoicas/pyme-erp/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDecodeReader_Windows1252(t *testing.T) {
	raw := []byte("name,description\nCaf\xe9,A\xf1ejo\n")
	r, err := decodeReader(bytes.NewReader(raw), "windows-1252")
	require.NoError(t, err)

	products, err := parseProducts(r)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Café", products[0].Name)
	assert.Equal(t, "Añejo", products[0].Description)

	_, err = decodeReader(bytes.NewReader(raw), "ebcdic")
	assert.Error(t, err)
}

func TestParseUsers(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)
	csv := "username,password,role,employee_id,is_active\n" +
		"admin," + string(hash) + ",admin,,true\n"

	t.Run("hash bcrypt se guarda tal cual", func(t *testing.T) {
		users, err := parseUsers(strings.NewReader(csv), false)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, string(hash), users[0].PasswordHash)
		assert.Equal(t, "ADMIN", users[0].SystemRole)
		assert.True(t, users[0].IsActive)
		assert.NotEmpty(t, users[0].ID)
	})

	t.Run("texto plano rechazado sin flag", func(t *testing.T) {
		_, err := parseUsers(strings.NewReader("username,password\nana,clave\n"), false)
		assert.ErrorIs(t, err, errPlaintext)
	})

	t.Run("texto plano hasheado con flag", func(t *testing.T) {
		users, err := parseUsers(strings.NewReader("username,password,is_active\nana,clave,false\n"), true)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("clave")))
		assert.Equal(t, "USER", users[0].SystemRole)
		assert.False(t, users[0].IsActive)
	})

	t.Run("columna faltante", func(t *testing.T) {
		_, err := parseUsers(strings.NewReader("username\nana\n"), true)
		assert.Error(t, err)
	})
}

func TestParseProducts_Errores(t *testing.T) {
	_, err := parseProducts(strings.NewReader("name,price\nMesa,abc\n"))
	assert.Error(t, err)

	_, err = parseProducts(strings.NewReader("name,stock\nMesa,x\n"))
	assert.Error(t, err)

	products, err := parseProducts(strings.NewReader("name,price,stock\nMesa,\"12,50\",3\n"))
	require.NoError(t, err)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Equal(t, 3, *products[0].Stock)
}

func TestSeeder_PersisteYOmiteDuplicados(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := &seeder{
		target: &seedTarget{
			users:    store.Users(),
			products: usecase.NewProductUseCase(store),
		},
		allowPlaintext: true,
		log:            logger.Nop(),
	}

	users := "username,password,role\nbodega,clave,WAREHOUSE\n"
	require.NoError(t, s.users(ctx)(strings.NewReader(users)))
	// segunda pasada: el usuario ya existe y se omite
	require.NoError(t, s.users(ctx)(strings.NewReader(users)))

	u, err := store.Users().FindByUsername(ctx, "bodega")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "WAREHOUSE", u.SystemRole)

	products := "name,sku,price,stock\nSilla,SIL-1,40,5\n"
	require.NoError(t, s.products(ctx)(strings.NewReader(products)))
	require.NoError(t, s.products(ctx)(strings.NewReader(products)))

	list, err := usecase.NewProductUseCase(store).List(ctx, query.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Stock)
}

func TestSeeder_SoloValidacion(t *testing.T) {
	s := &seeder{log: logger.Nop()}
	err := s.users(context.Background())(io.Reader(strings.NewReader("username,password\nana,clave\n")))
	assert.ErrorIs(t, err, errPlaintext)
	assert.NoError(t, s.products(context.Background())(strings.NewReader("name\nMesa\n")))
}

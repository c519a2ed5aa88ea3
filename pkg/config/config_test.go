package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.Equal(t, 480, cfg.JWT.Expiration, "el token dura 8 horas por defecto")
	assert.Equal(t, "/login.html", cfg.HTTP.LoginPath)
	assert.Equal(t, DevJWTSecret, cfg.JWT.Secret)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_ProduccionSinSecretFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_StorageDesconocido(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_STORAGE", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss:word", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%3Aword@db:5432/erp?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

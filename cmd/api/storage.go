package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/memory"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/pyme-erp/pkg/config"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// storage repositorios del backend elegido y su liberación.
type storage struct {
	tx      repository.TxRunner
	users   repository.UserRepository
	catalog repository.CatalogRepository
	close   func()
}

// openStorage abre el backend de APP_STORAGE. Ante error no deja conexiones abiertas.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{tx: store, users: store.Users(), catalog: store.Catalog(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migración del esquema: %w", err)
		}
	}
	log.Info().Msg("conexión a PostgreSQL establecida")
	return &storage{
		tx:      postgres.NewTxRunner(pool),
		users:   postgres.NewUserRepository(pool),
		catalog: postgres.NewCatalogRepository(pool),
		close:   pool.Close,
	}, nil
}

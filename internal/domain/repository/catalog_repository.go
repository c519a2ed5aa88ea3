package repository

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// CatalogRepository CRUD genérico sobre un EntitySet. Los valores de Record ya vienen
// convertidos al tipo del campo.
type CatalogRepository interface {
	List(ctx context.Context, set *entity.EntitySet, q query.ListQuery) ([]entity.Record, error)
	Get(ctx context.Context, set *entity.EntitySet, key string) (entity.Record, error)
	Create(ctx context.Context, set *entity.EntitySet, rec entity.Record) error
	Update(ctx context.Context, set *entity.EntitySet, key string, changes entity.Record) (bool, error)
	Delete(ctx context.Context, set *entity.EntitySet, key string) (bool, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo CRUD genérico de EntitySet. Tablas y columnas salen solo de la
// definición del conjunto (lista blanca), nunca del request.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func keyColumn(set *entity.EntitySet) string {
	f, _ := set.Field(set.Key)
	return f.Column
}

func selectSet(set *entity.EntitySet) squirrel.SelectBuilder {
	cols := make([]string, 0, len(set.Fields))
	for _, f := range set.Fields {
		cols = append(cols, fmt.Sprintf(`%s AS "%s"`, f.Column, f.Name))
	}
	return builder().Select(cols...).From(set.Table)
}

func setColumns(set *entity.EntitySet) map[string]string {
	out := make(map[string]string, len(set.Fields))
	for _, f := range set.Fields {
		out[f.Name] = f.Column
	}
	return out
}

// toColumns traduce un Record (nombres públicos) a columnas.
func toColumns(set *entity.EntitySet, rec entity.Record) (map[string]any, error) {
	out := make(map[string]any, len(rec))
	for name, v := range rec {
		f, ok := set.Field(name)
		if !ok {
			return nil, domain.InvalidField(name, "campo desconocido")
		}
		out[f.Column] = v
	}
	return out, nil
}

func (r *CatalogRepo) collect(ctx context.Context, set *entity.EntitySet, sb squirrel.SelectBuilder) ([]entity.Record, error) {
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", set.Table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", set.Table, err)
	}
	out := make([]entity.Record, 0, len(maps))
	for _, m := range maps {
		rec := make(entity.Record, len(m))
		for _, f := range set.Fields {
			v, err := query.Coerce(f.Type, m[f.Name])
			if err != nil {
				return nil, fmt.Errorf("columna %s.%s: %w", set.Table, f.Column, err)
			}
			rec[f.Name] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *CatalogRepo) List(ctx context.Context, set *entity.EntitySet, q query.ListQuery) ([]entity.Record, error) {
	sb, err := applyListQuery(selectSet(set), setColumns(set), q, keyColumn(set))
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, set, sb)
}

func (r *CatalogRepo) Get(ctx context.Context, set *entity.EntitySet, key string) (entity.Record, error) {
	recs, err := r.collect(ctx, set, selectSet(set).Where(squirrel.Eq{keyColumn(set): key}))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func (r *CatalogRepo) Create(ctx context.Context, set *entity.EntitySet, rec entity.Record) error {
	cols, err := toColumns(set, rec)
	if err != nil {
		return err
	}
	sql, args, err := builder().Insert(set.Table).SetMap(cols).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", set.Table, err)
	}
	return nil
}

func (r *CatalogRepo) Update(ctx context.Context, set *entity.EntitySet, key string, changes entity.Record) (bool, error) {
	cols, err := toColumns(set, changes)
	if err != nil {
		return false, err
	}
	delete(cols, keyColumn(set))
	if len(cols) == 0 {
		rec, err := r.Get(ctx, set, key)
		return rec != nil, err
	}
	sql, args, err := builder().Update(set.Table).SetMap(cols).Where(squirrel.Eq{keyColumn(set): key}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", set.Table, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CatalogRepo) Delete(ctx context.Context, set *entity.EntitySet, key string) (bool, error) {
	sql, args, err := builder().Delete(set.Table).Where(squirrel.Eq{keyColumn(set): key}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", set.Table, err)
	}
	return tag.RowsAffected() > 0, nil
}

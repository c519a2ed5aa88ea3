// Package catalog CRUD genérico de los conjuntos maestros (clientes, proveedores,
// empleados, contratos, liquidaciones, empresa y monedas).
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

// Service registro de conjuntos y operaciones sobre ellos.
type Service struct {
	repo repository.CatalogRepository
	sets map[string]*entity.EntitySet
}

// NewService construye el servicio. Sin sets usa DefaultSets.
func NewService(repo repository.CatalogRepository, sets ...*entity.EntitySet) *Service {
	if len(sets) == 0 {
		sets = DefaultSets()
	}
	s := &Service{repo: repo, sets: make(map[string]*entity.EntitySet, len(sets))}
	for _, set := range sets {
		s.sets[set.Name] = set
	}
	return s
}

// Set busca un conjunto por nombre.
func (s *Service) Set(name string) (*entity.EntitySet, bool) {
	set, ok := s.sets[name]
	return set, ok
}

// Names nombres de los conjuntos registrados, ordenados.
func (s *Service) Names() []string {
	out := make([]string, 0, len(s.sets))
	for name := range s.sets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// List lista registros del conjunto.
func (s *Service) List(ctx context.Context, set *entity.EntitySet, q query.ListQuery) ([]entity.Record, error) {
	return s.repo.List(ctx, set, q)
}

// Get obtiene un registro por clave.
func (s *Service) Get(ctx context.Context, set *entity.EntitySet, key string) (entity.Record, error) {
	rec, err := s.repo.Get(ctx, set, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Create valida y persiste un registro. La clave se genera si el conjunto lo indica y no viene.
func (s *Service) Create(ctx context.Context, set *entity.EntitySet, body map[string]any) (entity.Record, error) {
	rec, err := coerceRecord(set, body)
	if err != nil {
		return nil, err
	}
	if key, _ := rec[set.Key].(string); key == "" {
		if !set.GeneratedKey {
			return nil, domain.InvalidField(set.Key, "obligatorio")
		}
		rec[set.Key] = uuid.New().String()
	}
	for _, f := range set.Fields {
		if _, ok := rec[f.Name]; !ok && f.Default != nil {
			rec[f.Name] = f.Default
		}
		if f.Required && isBlank(rec[f.Name]) {
			return nil, domain.InvalidField(f.Name, "obligatorio")
		}
	}
	if set.Derive != nil {
		set.Derive(rec)
	}
	if err := s.repo.Create(ctx, set, rec); err != nil {
		return nil, err
	}
	return s.Get(ctx, set, rec[set.Key].(string))
}

// Update aplica cambios parciales. La clave no se puede modificar.
func (s *Service) Update(ctx context.Context, set *entity.EntitySet, key string, body map[string]any) (entity.Record, error) {
	changes, err := coerceRecord(set, body)
	if err != nil {
		return nil, err
	}
	if k, ok := changes[set.Key]; ok {
		if k != key {
			return nil, domain.InvalidField(set.Key, "no se puede modificar")
		}
		delete(changes, set.Key)
	}
	for _, f := range set.Fields {
		if v, ok := changes[f.Name]; ok && f.Required && isBlank(v) {
			return nil, domain.InvalidField(f.Name, "obligatorio")
		}
	}
	if set.Derive != nil {
		current, err := s.Get(ctx, set, key)
		if err != nil {
			return nil, err
		}
		for k, v := range changes {
			current[k] = v
		}
		set.Derive(current)
		for _, f := range set.Fields {
			if f.Name != set.Key {
				changes[f.Name] = current[f.Name]
			}
		}
	}
	if len(changes) > 0 {
		ok, err := s.repo.Update(ctx, set, key, changes)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
	}
	return s.Get(ctx, set, key)
}

// Delete elimina un registro.
func (s *Service) Delete(ctx context.Context, set *entity.EntitySet, key string) error {
	ok, err := s.repo.Delete(ctx, set, key)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// coerceRecord convierte el body JSON a tipos de campo. Campos desconocidos -> ErrInvalidInput.
func coerceRecord(set *entity.EntitySet, body map[string]any) (entity.Record, error) {
	rec := make(entity.Record, len(body))
	for name, raw := range body {
		f, ok := set.Field(name)
		if !ok {
			return nil, domain.InvalidField(name, fmt.Sprintf("campo desconocido en %s", set.Name))
		}
		v, err := query.Coerce(f.Type, raw)
		if err != nil {
			return nil, domain.InvalidField(name, err.Error())
		}
		rec[name] = v
	}
	return rec, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

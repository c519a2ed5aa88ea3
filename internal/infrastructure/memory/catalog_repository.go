package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

type catalogRepo struct {
	mu   sync.RWMutex
	sets map[string]map[string]entity.Record
	seq  int
}

func copyRecord(rec entity.Record) entity.Record {
	out := make(entity.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// seqKey conserva el orden de inserción para listados sin $orderby.
const seqKey = "\x00seq"

func (r *catalogRepo) List(_ context.Context, set *entity.EntitySet, q query.ListQuery) ([]entity.Record, error) {
	r.mu.RLock()
	rows := make([]entity.Record, 0, len(r.sets[set.Name]))
	for _, rec := range r.sets[set.Name] {
		rows = append(rows, copyRecord(rec))
	}
	r.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i][seqKey].(int) < rows[j][seqKey].(int) })
	out := query.Apply(rows, q, func(rec entity.Record, field string) any { return rec[field] })
	for i, rec := range out {
		out[i] = public(rec)
	}
	return out, nil
}

func (r *catalogRepo) Get(_ context.Context, set *entity.EntitySet, key string) (entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.sets[set.Name][key]
	if !ok {
		return nil, nil
	}
	return public(rec), nil
}

func (r *catalogRepo) Create(_ context.Context, set *entity.EntitySet, rec entity.Record) error {
	key, _ := rec[set.Key].(string)
	if key == "" {
		return domain.InvalidField(set.Key, "obligatorio")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, ok := r.sets[set.Name]
	if !ok {
		rows = map[string]entity.Record{}
		r.sets[set.Name] = rows
	}
	if _, dup := rows[key]; dup {
		return domain.ErrDuplicate
	}
	r.seq++
	stored := copyRecord(rec)
	stored[seqKey] = r.seq
	rows[key] = stored
	return nil
}

func (r *catalogRepo) Update(_ context.Context, set *entity.EntitySet, key string, changes entity.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.sets[set.Name][key]
	if !ok {
		return false, nil
	}
	for k, v := range changes {
		if k == set.Key {
			continue
		}
		rec[k] = v
	}
	return true, nil
}

func (r *catalogRepo) Delete(_ context.Context, set *entity.EntitySet, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[set.Name][key]; !ok {
		return false, nil
	}
	delete(r.sets[set.Name], key)
	return true, nil
}

func public(rec entity.Record) entity.Record {
	out := copyRecord(rec)
	delete(out, seqKey)
	return out
}

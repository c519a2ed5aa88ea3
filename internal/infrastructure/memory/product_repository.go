package memory

import (
	"context"
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

type productRepo struct {
	st *state
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.st.products {
		if p.SKU != "" && other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.st.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Stock = cur.Stock // stock solo cambia vía AdjustStock
	r.st.products[p.ID] = &cp
	return nil
}

func (r *productRepo) List(_ context.Context, q query.ListQuery) ([]*entity.Product, error) {
	all := make([]*entity.Product, 0, len(r.st.products))
	for _, p := range sortedByCreation(r.st.products, func(p *entity.Product) (time.Time, string) { return p.CreatedAt, p.ID }) {
		cp := *p
		all = append(all, &cp)
	}
	return query.Apply(all, q, (*entity.Product).Field), nil
}

func (r *productRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.st.products[id]; !ok {
		return false, nil
	}
	delete(r.st.products, id)
	return true, nil
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	p, ok := r.st.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return p.Stock, domain.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return p.Stock, nil
}

package memory

import (
	"context"
	"time"

	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

type orderRepo struct {
	st   *state
	kind entity.OrderKind
}

func (r *orderRepo) Kind() entity.OrderKind { return r.kind }

func (r *orderRepo) orders() map[string]*entity.Order { return r.st.orders[r.kind] }

func (r *orderRepo) items() map[string]*entity.OrderItem { return r.st.items[r.kind] }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	if _, ok := r.orders()[o.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *o
	cp.Kind = r.kind
	r.orders()[o.ID] = &cp
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders()[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	cur, ok := r.orders()[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *o
	cp.Kind = r.kind
	cp.TotalAmount = cur.TotalAmount
	r.orders()[o.ID] = &cp
	return nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := r.orders()[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *orderRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) (bool, error) {
	o, ok := r.orders()[id]
	if !ok {
		return false, nil
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *orderRepo) List(_ context.Context, q query.ListQuery) ([]*entity.Order, error) {
	all := make([]*entity.Order, 0, len(r.orders()))
	for _, o := range sortedByCreation(r.orders(), func(o *entity.Order) (time.Time, string) { return o.CreatedAt, o.ID }) {
		cp := *o
		all = append(all, &cp)
	}
	return query.Apply(all, q, (*entity.Order).Field), nil
}

func (r *orderRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.orders()[id]; !ok {
		return false, nil
	}
	delete(r.orders(), id)
	for itemID, it := range r.items() {
		if it.OrderID == id {
			delete(r.items(), itemID)
		}
	}
	return true, nil
}

func (r *orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	if _, ok := r.orders()[it.OrderID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.items()[it.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *it
	r.items()[it.ID] = &cp
	return nil
}

func (r *orderRepo) GetItem(_ context.Context, id string) (*entity.OrderItem, error) {
	it, ok := r.items()[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *orderRepo) UpdateItem(_ context.Context, it *entity.OrderItem) error {
	if _, ok := r.items()[it.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *it
	r.items()[it.ID] = &cp
	return nil
}

func (r *orderRepo) DeleteItem(_ context.Context, id string) (bool, error) {
	if _, ok := r.items()[id]; !ok {
		return false, nil
	}
	delete(r.items(), id)
	return true, nil
}

// ListItems todas las líneas del pedido, sin paginar.
func (r *orderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range sortedByCreation(r.items(), func(it *entity.OrderItem) (time.Time, string) { return it.CreatedAt, it.ID }) {
		if it.OrderID == orderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *orderRepo) QueryItems(_ context.Context, q query.ListQuery) ([]*entity.OrderItem, error) {
	all := make([]*entity.OrderItem, 0, len(r.items()))
	for _, it := range sortedByCreation(r.items(), func(it *entity.OrderItem) (time.Time, string) { return it.CreatedAt, it.ID }) {
		cp := *it
		all = append(all, &cp)
	}
	return query.Apply(all, q, (*entity.OrderItem).Field), nil
}

func (r *orderRepo) SumLineTotals(_ context.Context, orderID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range r.items() {
		if it.OrderID == orderID {
			total = total.Add(it.LineTotal)
		}
	}
	return total, nil
}

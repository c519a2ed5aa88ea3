package memory

import (
	"context"

	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

type movementRepo struct {
	st *state
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	r.st.movements = append(r.st.movements, &cp)
	return nil
}

func (r *movementRepo) List(_ context.Context, q query.ListQuery) ([]*entity.StockMovement, error) {
	all := make([]*entity.StockMovement, 0, len(r.st.movements))
	for _, m := range r.st.movements {
		cp := *m
		all = append(all, &cp)
	}
	return query.Apply(all, q, (*entity.StockMovement).Field), nil
}

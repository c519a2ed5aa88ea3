package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var movementColumns = map[string]string{
	"ID":             "id",
	"product_ID":     "product_id",
	"type":           "type",
	"quantity":       "quantity",
	"reference":      "reference",
	"responsible_ID": "responsible_id",
	"createdBy":      "created_by",
	"date":           "date",
}

// StockMovementRepo kardex sobre PostgreSQL. Solo inserción y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, reference, responsible_id, created_by, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Type, m.Quantity, m.Reference, m.ResponsibleID, m.CreatedBy, m.Date)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List consulta el kardex.
func (r *StockMovementRepo) List(ctx context.Context, q query.ListQuery) ([]*entity.StockMovement, error) {
	sb := builder().
		Select("id", "product_id", "type", "quantity", "reference", "responsible_id", "created_by", "date").
		From("stock_movements")
	sb, err := applyListQuery(sb, movementColumns, q, "date", "id")
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.StockMovement
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return list, nil
}

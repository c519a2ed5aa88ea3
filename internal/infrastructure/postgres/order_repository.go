package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderTables tablas y columnas propias de cada tipo de pedido.
type orderTables struct {
	header       string
	items        string
	counterparty string
	responsible  string
	unitPrice    string
	lineTotal    string
}

var tablesByKind = map[entity.OrderKind]orderTables{
	entity.KindSales: {
		header: "sales_orders", items: "sales_order_items",
		counterparty: "customer_id", responsible: "sales_person_id",
		unitPrice: "unit_price", lineTotal: "line_amount",
	},
	entity.KindPurchase: {
		header: "purchase_orders", items: "purchase_order_items",
		counterparty: "supplier_id", responsible: "buyer_id",
		unitPrice: "unit_cost", lineTotal: "line_total",
	},
}

func (t orderTables) headerColumns() map[string]string {
	return map[string]string{
		"ID":              "id",
		"orderNo":         "order_no",
		"counterparty_ID": t.counterparty,
		"responsible_ID":  t.responsible,
		"orderDate":       "order_date",
		"currency_code":   "currency_code",
		"status":          "status",
		"totalAmount":     "total_amount",
		"notes":           "notes",
		"createdAt":       "created_at",
	}
}

func (t orderTables) itemColumns() map[string]string {
	return map[string]string{
		"ID":         "id",
		"order_ID":   "order_id",
		"product_ID": "product_id",
		"quantity":   "quantity",
		"unitPrice":  t.unitPrice,
		"lineTotal":  t.lineTotal,
		"createdAt":  "created_at",
	}
}

func (t orderTables) selectHeader() squirrel.SelectBuilder {
	return builder().Select(
		"id", "order_no",
		t.counterparty+" AS counterparty_id",
		t.responsible+" AS responsible_id",
		"order_date", "currency_code", "status", "total_amount", "notes", "created_at", "updated_at",
	).From(t.header)
}

func (t orderTables) selectItems() squirrel.SelectBuilder {
	return builder().Select(
		"id", "order_id", "product_id", "quantity",
		t.unitPrice+" AS unit_price",
		t.lineTotal+" AS line_total",
		"created_at",
	).From(t.items)
}

// OrderRepo cabeceras y líneas de un tipo de pedido sobre PostgreSQL.
type OrderRepo struct {
	q    Querier
	kind entity.OrderKind
	t    orderTables
}

// NewOrderRepository construye el adaptador para el tipo indicado.
func NewOrderRepository(q Querier, kind entity.OrderKind) *OrderRepo {
	return &OrderRepo{q: q, kind: kind, t: tablesByKind[kind]}
}

// Kind tipo de pedido del repositorio.
func (r *OrderRepo) Kind() entity.OrderKind { return r.kind }

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	sql, args, err := builder().Insert(r.t.header).SetMap(map[string]any{
		"id":             o.ID,
		"order_no":       o.OrderNo,
		r.t.counterparty: o.CounterpartyID,
		r.t.responsible:  o.ResponsibleID,
		"order_date":     o.OrderDate,
		"currency_code":  o.CurrencyCode,
		"status":         o.Status,
		"total_amount":   o.TotalAmount,
		"notes":          o.Notes,
		"created_at":     o.CreatedAt,
		"updated_at":     o.UpdatedAt,
	}).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", r.t.header, err)
	}
	return nil
}

func (r *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Order, error) {
	sb := r.t.selectHeader().Where(squirrel.Eq{"id": id})
	if forUpdate {
		sb = sb.Suffix("FOR UPDATE")
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var o entity.Order
	if err := pgxscan.Get(ctx, r.q, &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.t.header, err)
	}
	o.Kind = r.kind
	return &o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, true)
}

// Update persiste cabecera y estado; total_amount solo lo escribe UpdateTotal.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	sql, args, err := builder().Update(r.t.header).SetMap(map[string]any{
		"order_no":       o.OrderNo,
		r.t.counterparty: o.CounterpartyID,
		r.t.responsible:  o.ResponsibleID,
		"order_date":     o.OrderDate,
		"currency_code":  o.CurrencyCode,
		"status":         o.Status,
		"notes":          o.Notes,
		"updated_at":     o.UpdatedAt,
	}).Where(squirrel.Eq{"id": o.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.t.header, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE `+r.t.header+` SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotal escribe el total; false si el pedido ya no existe.
func (r *OrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE `+r.t.header+` SET total_amount = $2, updated_at = NOW() WHERE id = $1`, id, total)
	if err != nil {
		return false, fmt.Errorf("update total: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) List(ctx context.Context, q query.ListQuery) ([]*entity.Order, error) {
	sb, err := applyListQuery(r.t.selectHeader(), r.t.headerColumns(), q, "created_at", "id")
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Order
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.header, err)
	}
	for _, o := range list {
		o.Kind = r.kind
	}
	return list, nil
}

// Delete elimina la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.t.header+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.t.header, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	sql, args, err := builder().Insert(r.t.items).SetMap(map[string]any{
		"id":          it.ID,
		"order_id":    it.OrderID,
		"product_id":  it.ProductID,
		"quantity":    it.Quantity,
		r.t.unitPrice: it.UnitPrice,
		r.t.lineTotal: it.LineTotal,
		"created_at":  it.CreatedAt,
	}).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", r.t.items, err)
	}
	return nil
}

func (r *OrderRepo) GetItem(ctx context.Context, id string) (*entity.OrderItem, error) {
	sql, args, err := r.t.selectItems().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var it entity.OrderItem
	if err := pgxscan.Get(ctx, r.q, &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.t.items, err)
	}
	return &it, nil
}

func (r *OrderRepo) UpdateItem(ctx context.Context, it *entity.OrderItem) error {
	sql, args, err := builder().Update(r.t.items).SetMap(map[string]any{
		"product_id":  it.ProductID,
		"quantity":    it.Quantity,
		r.t.unitPrice: it.UnitPrice,
		r.t.lineTotal: it.LineTotal,
	}).Where(squirrel.Eq{"id": it.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.t.items, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) DeleteItem(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.t.items+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.t.items, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListItems todas las líneas del pedido, sin LIMIT: el cumplimiento las procesa todas.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	sql, args, err := r.t.selectItems().
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.OrderItem
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.items, err)
	}
	return list, nil
}

func (r *OrderRepo) QueryItems(ctx context.Context, q query.ListQuery) ([]*entity.OrderItem, error) {
	sb, err := applyListQuery(r.t.selectItems(), r.t.itemColumns(), q, "created_at", "id")
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.OrderItem
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.items, err)
	}
	return list, nil
}

// SumLineTotals agregado fresco de las líneas actuales.
func (r *OrderRepo) SumLineTotals(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(`+r.t.lineTotal+`), 0) FROM `+r.t.items+` WHERE order_id = $1`, orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", r.t.items, err)
	}
	return total, nil
}

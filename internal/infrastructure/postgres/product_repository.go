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
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productSelectCols = []string{
	"id", "name", "sku", "description", "price", "currency_code", "is_active", "stock", "created_at", "updated_at",
}

var productColumns = map[string]string{
	"ID":            "id",
	"name":          "name",
	"sku":           "sku",
	"description":   "description",
	"price":         "price",
	"currency_code": "currency_code",
	"isActive":      "is_active",
	"stock":         "stock",
	"createdAt":     "created_at",
	"modifiedAt":    "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, description, price, currency_code, is_active, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.Price,
		product.CurrencyCode, product.IsActive, product.Stock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Product, error) {
	sb := builder().Select(productSelectCols...).From("products").Where(squirrel.Eq{"id": id})
	if forUpdate {
		sb = sb.Suffix("FOR UPDATE")
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, true)
}

// Update actualiza datos del producto. Stock no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, description = $4, price = $5, currency_code = $6,
			is_active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.Price,
		product.CurrencyCode, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos aplicando filtros, orden y paginación.
func (r *ProductRepo) List(ctx context.Context, q query.ListQuery) ([]*entity.Product, error) {
	sb, err := applyListQuery(builder().Select(productSelectCols...).From("products"), productColumns, q, "created_at", "id")
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Product
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustStock aplica delta con actualización condicional: un decremento que dejaría
// stock negativo no afecta filas y se informa como stock insuficiente.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	query := `
		UPDATE products SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`
	var stock int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if isCheckViolation(err) {
		// la transacción queda abortada: no se puede releer el producto
		return 0, domain.ErrInsufficientStock
	}
	if pgxscan.NotFound(err) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return 0, getErr
		}
		if current == nil {
			return 0, domain.ErrNotFound
		}
		return current.Stock, domain.ErrInsufficientStock
	}
	return 0, fmt.Errorf("adjust stock: %w", err)
}

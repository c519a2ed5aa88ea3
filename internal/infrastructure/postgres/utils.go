package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation 23514 (p. ej. stock >= 0).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// applyListQuery traduce filtros, orden y paginación a SQL. columns mapea el nombre
// canónico del campo a la columna; solo esas columnas pueden aparecer en la consulta.
func applyListQuery(sb squirrel.SelectBuilder, columns map[string]string, q query.ListQuery, defaultOrder ...string) (squirrel.SelectBuilder, error) {
	for _, c := range q.Filters {
		col, ok := columns[c.Field]
		if !ok {
			return sb, fmt.Errorf("%w: campo %s no filtrable", domain.ErrInvalidInput, c.Field)
		}
		sb = sb.Where(condition(col, c))
	}
	if len(q.OrderBy) == 0 {
		sb = sb.OrderBy(defaultOrder...)
	}
	for _, s := range q.OrderBy {
		col, ok := columns[s.Field]
		if !ok {
			return sb, fmt.Errorf("%w: campo %s no ordenable", domain.ErrInvalidInput, s.Field)
		}
		if s.Desc {
			sb = sb.OrderBy(col + " DESC")
		} else {
			sb = sb.OrderBy(col + " ASC")
		}
	}
	sb = sb.Limit(uint64(q.Limit()))
	if q.Skip > 0 {
		sb = sb.Offset(uint64(q.Skip))
	}
	return sb, nil
}

// condition genera la cláusula; null y cadena vacía se consideran equivalentes.
func condition(col string, c query.Condition) squirrel.Sqlizer {
	if isNull(c.Value) {
		switch c.Op {
		case query.Eq:
			return squirrel.Or{squirrel.Eq{col: nil}, squirrel.Expr(col + "::text = ''")}
		case query.Ne:
			return squirrel.And{squirrel.NotEq{col: nil}, squirrel.Expr(col + "::text <> ''")}
		}
		return squirrel.Expr("FALSE")
	}
	switch c.Op {
	case query.Ne:
		return squirrel.Or{squirrel.NotEq{col: c.Value}, squirrel.Eq{col: nil}}
	case query.Gt:
		return squirrel.Gt{col: c.Value}
	case query.Ge:
		return squirrel.GtOrEq{col: c.Value}
	case query.Lt:
		return squirrel.Lt{col: c.Value}
	case query.Le:
		return squirrel.LtOrEq{col: c.Value}
	}
	return squirrel.Eq{col: c.Value}
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

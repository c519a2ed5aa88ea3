// Package query modela las opciones de listado ($filter, $orderby, $top, $skip)
// de forma independiente del transporte y del motor de persistencia.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Límites de paginación.
const (
	DefaultTop = 100
	MaxTop     = 1000
)

// FieldType tipo lógico de un campo consultable.
type FieldType int

const (
	String FieldType = iota
	Int
	Decimal
	Bool
	Time
)

// Field describe un campo expuesto. Name es el nombre canónico que entienden los repositorios.
type Field struct {
	Name string
	Type FieldType
}

// Schema mapea el nombre público (JSON) de un campo a su descripción.
type Schema map[string]Field

// Resolve devuelve el campo para un nombre público.
func (s Schema) Resolve(public string) (Field, bool) {
	f, ok := s[public]
	return f, ok
}

// Operator operador de comparación.
type Operator string

const (
	Eq Operator = "eq"
	Ne Operator = "ne"
	Gt Operator = "gt"
	Ge Operator = "ge"
	Lt Operator = "lt"
	Le Operator = "le"
)

// ParseOperator valida el operador.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(strings.ToLower(s)); op {
	case Eq, Ne, Gt, Ge, Lt, Le:
		return op, nil
	}
	return "", fmt.Errorf("operador no soportado: %s", s)
}

// Condition una cláusula de filtro. Value ya viene convertido al tipo del campo (nil = null).
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Sort criterio de orden.
type Sort struct {
	Field string
	Desc  bool
}

// ListQuery opciones de listado.
type ListQuery struct {
	Filters []Condition
	OrderBy []Sort
	Top     int
	Skip    int
}

// Where agrega una condición de igualdad.
func (q ListQuery) Where(field string, value any) ListQuery {
	q.Filters = append(append([]Condition(nil), q.Filters...), Condition{Field: field, Op: Eq, Value: value})
	return q
}

// Limit devuelve Top acotado a [1, MaxTop] con DefaultTop si no se indicó.
func (q ListQuery) Limit() int {
	switch {
	case q.Top <= 0:
		return DefaultTop
	case q.Top > MaxTop:
		return MaxTop
	}
	return q.Top
}

// Matches evalúa la condición sobre un valor.
func (c Condition) Matches(v any) bool {
	if c.Value == nil || v == nil {
		// los strings vacíos se tratan como null
		eq := isNil(c.Value) && isNil(v)
		switch c.Op {
		case Eq:
			return eq
		case Ne:
			return !eq
		}
		return false
	}
	cmp, ok := Compare(v, c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case Eq:
		return cmp == 0
	case Ne:
		return cmp != 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Compare compara dos valores del mismo tipo lógico. ok=false si no son comparables.
func Compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	da, okA := toDecimal(a)
	db, okB := toDecimal(b)
	if !okA || !okB {
		return 0, false
	}
	return da.Cmp(db), true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}

// Apply filtra, ordena y pagina una colección en memoria. field devuelve el valor canónico de un campo.
func Apply[T any](items []T, q ListQuery, field func(T, string) any) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		keep := true
		for _, c := range q.Filters {
			if !c.Matches(field(it, c.Field)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, it)
		}
	}
	if len(q.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, s := range q.OrderBy {
				cmp, ok := Compare(field(out[i], s.Field), field(out[j], s.Field))
				if !ok || cmp == 0 {
					continue
				}
				if s.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}
	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return out[:0]
		}
		out = out[q.Skip:]
	}
	if limit := q.Limit(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

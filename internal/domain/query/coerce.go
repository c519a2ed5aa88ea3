package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de fecha aceptados, del más al menos específico.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// Coerce convierte un valor venido de JSON o de un literal de consulta al tipo lógico
// del campo. nil se conserva como nil.
func Coerce(t FieldType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case String:
		switch x := v.(type) {
		case string:
			return x, nil
		case json.Number:
			return x.String(), nil
		}
	case Int:
		switch x := v.(type) {
		case int:
			return x, nil
		case int32:
			return int(x), nil
		case int64:
			return int(x), nil
		case float64:
			if x == math.Trunc(x) {
				return int(x), nil
			}
		case json.Number:
			if n, err := strconv.Atoi(x.String()); err == nil {
				return n, nil
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				return n, nil
			}
		}
	case Decimal:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case int:
			return decimal.NewFromInt(int64(x)), nil
		case float64:
			return decimal.NewFromFloat(x), nil
		case json.Number:
			if d, err := decimal.NewFromString(x.String()); err == nil {
				return d, nil
			}
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
				return d, nil
			}
		}
	case Bool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return b, nil
			}
		}
	case Time:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, x); err == nil {
					return ts, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("valor %v no es de tipo %s", v, t)
}

func (t FieldType) String() string {
	switch t {
	case String:
		return "texto"
	case Int:
		return "entero"
	case Decimal:
		return "decimal"
	case Bool:
		return "booleano"
	case Time:
		return "fecha"
	}
	return "desconocido"
}

package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type row struct {
	name  string
	stock int
	price decimal.Decimal
	note  string
}

func rowField(r row, f string) any {
	switch f {
	case "name":
		return r.name
	case "stock":
		return r.stock
	case "price":
		return r.price
	case "note":
		return r.note
	}
	return nil
}

func names(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.name)
	}
	return out
}

func TestApply_FiltraOrdenaYPagina(t *testing.T) {
	rows := []row{
		{name: "tornillo", stock: 10, price: decimal.RequireFromString("0.5")},
		{name: "martillo", stock: 2, price: decimal.RequireFromString("12.9"), note: "oferta"},
		{name: "alicate", stock: 0, price: decimal.RequireFromString("8")},
		{name: "llave", stock: 7, price: decimal.RequireFromString("8")},
	}

	q := ListQuery{
		Filters: []Condition{{Field: "stock", Op: Gt, Value: int64(0)}},
		OrderBy: []Sort{{Field: "price", Desc: true}, {Field: "name"}},
	}
	assert.Equal(t, []string{"martillo", "llave", "tornillo"}, names(Apply(rows, q, rowField)))

	q.Skip = 1
	q.Top = 1
	assert.Equal(t, []string{"llave"}, names(Apply(rows, q, rowField)))

	q = ListQuery{Filters: []Condition{{Field: "note", Op: Eq, Value: nil}}, OrderBy: []Sort{{Field: "name"}}}
	assert.Equal(t, []string{"alicate", "llave", "tornillo"}, names(Apply(rows, q, rowField)))
}

func TestCondition_Matches(t *testing.T) {
	cases := []struct {
		name string
		cond Condition
		v    any
		want bool
	}{
		{"eq string", Condition{Op: Eq, Value: "OPEN"}, "OPEN", true},
		{"ne string", Condition{Op: Ne, Value: "OPEN"}, "CONFIRMED", true},
		{"ge decimal vs int", Condition{Op: Ge, Value: decimal.NewFromInt(3)}, 3, true},
		{"lt int", Condition{Op: Lt, Value: int64(3)}, 5, false},
		{"eq bool", Condition{Op: Eq, Value: true}, true, true},
		{"tipos distintos", Condition{Op: Eq, Value: "3"}, 3, false},
		{"ne null", Condition{Op: Ne, Value: nil}, "x", true},
		{"gt time", Condition{Op: Gt, Value: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cond.Matches(tc.v))
		})
	}
}

func TestListQuery_Limit(t *testing.T) {
	assert.Equal(t, DefaultTop, ListQuery{}.Limit())
	assert.Equal(t, MaxTop, ListQuery{Top: 5000}.Limit())
	assert.Equal(t, 10, ListQuery{Top: 10}.Limit())
}

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator("GE")
	assert.NoError(t, err)
	assert.Equal(t, Ge, op)

	_, err = ParseOperator("like")
	assert.Error(t, err)
}

package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
)

// ParseListQuery lee $filter, $orderby, $top y $skip. Los campos se resuelven contra el
// esquema público del recurso y los literales se convierten al tipo del campo.
func ParseListQuery(c *fiber.Ctx, schema query.Schema) (query.ListQuery, error) {
	return parseListQuery(schema, c.Query("$filter"), c.Query("$orderby"), c.Query("$top"), c.Query("$skip"))
}

func parseListQuery(schema query.Schema, filter, orderBy, top, skip string) (query.ListQuery, error) {
	var q query.ListQuery
	var err error
	if q.Filters, err = parseFilter(schema, filter); err != nil {
		return q, err
	}
	if q.OrderBy, err = parseOrderBy(schema, orderBy); err != nil {
		return q, err
	}
	if q.Top, err = parseCount("$top", top); err != nil {
		return q, err
	}
	if q.Skip, err = parseCount("$skip", skip); err != nil {
		return q, err
	}
	return q, nil
}

// parseExpand valida $expand contra las navegaciones permitidas del recurso.
func parseExpand(c *fiber.Ctx, allowed ...string) (map[string]bool, error) {
	raw := strings.TrimSpace(c.Query("$expand"))
	out := map[string]bool{}
	if raw == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		ok := false
		for _, a := range allowed {
			if strings.EqualFold(a, name) {
				out[a] = true
				ok = true
			}
		}
		if !ok {
			return nil, domain.InvalidField("$expand", "navegación desconocida "+name)
		}
	}
	return out, nil
}

func parseCount(option, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.InvalidField(option, "debe ser un entero no negativo")
	}
	return n, nil
}

func parseOrderBy(schema query.Schema, raw string) ([]query.Sort, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []query.Sort
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, domain.InvalidField("$orderby", "expresión inválida "+strings.TrimSpace(part))
		}
		f, ok := schema.Resolve(fields[0])
		if !ok {
			return nil, domain.InvalidField("$orderby", "campo desconocido "+fields[0])
		}
		s := query.Sort{Field: f.Name}
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				s.Desc = true
			default:
				return nil, domain.InvalidField("$orderby", "dirección inválida "+fields[1])
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// literal valor de filtro antes de conocer el tipo del campo.
type literal struct {
	text   string
	quoted bool
}

func (l literal) value() any {
	if l.quoted {
		return l.text
	}
	switch strings.ToLower(l.text) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if _, err := strconv.ParseFloat(l.text, 64); err == nil {
		return json.Number(l.text)
	}
	return l.text
}

// parseFilter admite "campo op valor" unidos por "and".
func parseFilter(schema query.Schema, raw string) ([]query.Condition, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	var out []query.Condition
	for i := 0; i < len(tokens); {
		if len(tokens)-i < 3 {
			return nil, domain.InvalidField("$filter", "expresión incompleta")
		}
		name, opTok, val := tokens[i], tokens[i+1], tokens[i+2]
		if name.quoted || opTok.quoted {
			return nil, domain.InvalidField("$filter", "se esperaba campo y operador")
		}
		f, ok := schema.Resolve(name.text)
		if !ok {
			return nil, domain.InvalidField("$filter", "campo desconocido "+name.text)
		}
		op, err := query.ParseOperator(opTok.text)
		if err != nil {
			return nil, domain.InvalidField("$filter", err.Error())
		}
		v, err := query.Coerce(f.Type, val.value())
		if err != nil {
			return nil, domain.InvalidField("$filter", fmt.Sprintf("valor inválido para %s: %v", name.text, err))
		}
		out = append(out, query.Condition{Field: f.Name, Op: op, Value: v})
		i += 3
		if i < len(tokens) {
			if tokens[i].quoted || !strings.EqualFold(tokens[i].text, "and") {
				return nil, domain.InvalidField("$filter", "solo se admite 'and' entre condiciones")
			}
			i++
			if i == len(tokens) {
				return nil, domain.InvalidField("$filter", "expresión incompleta")
			}
		}
	}
	return out, nil
}

// tokenize separa por espacios respetando cadenas entre comillas simples; dos comillas seguidas escapan una.
func tokenize(raw string) ([]literal, error) {
	var out []literal
	r := []rune(raw)
	for i := 0; i < len(r); {
		switch {
		case r[i] == ' ' || r[i] == '\t':
			i++
		case r[i] == '\'':
			var b strings.Builder
			i++
			closed := false
			for i < len(r) {
				if r[i] == '\'' {
					if i+1 < len(r) && r[i+1] == '\'' {
						b.WriteRune('\'')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteRune(r[i])
				i++
			}
			if !closed {
				return nil, domain.InvalidField("$filter", "cadena sin cerrar")
			}
			out = append(out, literal{text: b.String(), quoted: true})
		case r[i] == '(' || r[i] == ')':
			return nil, domain.InvalidField("$filter", "no se admiten paréntesis")
		default:
			start := i
			for i < len(r) && r[i] != ' ' && r[i] != '\t' && r[i] != '\'' {
				i++
			}
			out = append(out, literal{text: string(r[start:i])})
		}
	}
	return out, nil
}

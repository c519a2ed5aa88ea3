package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// errPlaintext contraseña en claro sin SEED_ALLOW_PLAINTEXT.
var errPlaintext = errors.New("contraseña en texto plano no permitida (SEED_ALLOW_PLAINTEXT=false)")

// decodeReader envuelve r según la codificación del archivo de origen.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", encoding)
}

// table filas de un CSV con cabecera, indexadas por nombre de columna.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("CSV vacío")
	}
	t := &table{cols: make(map[string]int), rows: records[1:]}
	for i, h := range records[0] {
		// BOM de archivos exportados desde Excel
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		t.cols[strings.ToLower(h)] = i
	}
	for _, c := range required {
		if _, ok := t.cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseUsers columnas: username, password, role, employee_id, is_active.
// Un password que ya es hash bcrypt se guarda tal cual; el resto se hashea solo si allowPlaintext.
func parseUsers(r io.Reader, allowPlaintext bool) ([]*entity.User, error) {
	t, err := readTable(r, "username", "password")
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		username := t.get(row, "username")
		if username == "" {
			return nil, fmt.Errorf("línea %d: username vacío", line)
		}
		hash, err := passwordHash(t.get(row, "password"), allowPlaintext)
		if err != nil {
			return nil, fmt.Errorf("línea %d (%s): %w", line, username, err)
		}
		role := strings.ToUpper(t.get(row, "role"))
		if role == "" {
			role = entity.RoleUser
		}
		active := true
		if v := t.get(row, "is_active"); v != "" {
			if active, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("línea %d: is_active inválido %q", line, v)
			}
		}
		users = append(users, &entity.User{
			ID:           uuid.New().String(),
			Username:     username,
			PasswordHash: hash,
			SystemRole:   role,
			IsActive:     active,
			EmployeeID:   t.get(row, "employee_id"),
		})
	}
	return users, nil
}

func passwordHash(password string, allowPlaintext bool) (string, error) {
	if password == "" {
		return "", errors.New("password vacío")
	}
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return password, nil
	}
	if !allowPlaintext {
		return "", errPlaintext
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// parseProducts columnas: name, sku, description, price, currency_code, stock, is_active.
func parseProducts(r io.Reader) ([]dto.CreateProductRequest, error) {
	t, err := readTable(r, "name")
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreateProductRequest, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		in := dto.CreateProductRequest{
			Name:         t.get(row, "name"),
			SKU:          t.get(row, "sku"),
			Description:  t.get(row, "description"),
			CurrencyCode: strings.ToUpper(t.get(row, "currency_code")),
		}
		if v := t.get(row, "price"); v != "" {
			// separador decimal con coma en exportaciones regionales
			price, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
			if err != nil {
				return nil, fmt.Errorf("línea %d: price inválido %q", line, v)
			}
			in.Price = &price
		}
		if v := t.get(row, "stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("línea %d: stock inválido %q", line, v)
			}
			in.Stock = &stock
		}
		if v := t.get(row, "is_active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("línea %d: is_active inválido %q", line, v)
			}
			in.IsActive = &active
		}
		out = append(out, in)
	}
	return out, nil
}

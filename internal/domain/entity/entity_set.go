package entity

import "github.com/jhoicas/pyme-erp/internal/domain/query"

// Record fila genérica de un conjunto de catálogo, indexada por nombre público.
type Record map[string]any

// SetField columna de un EntitySet.
type SetField struct {
	Name     string // nombre público (JSON)
	Column   string
	Type     query.FieldType
	Required bool
	Default  any // valor al crear si no viene
}

// EntitySet describe un conjunto CRUD genérico (Customers, Suppliers, Employees...).
type EntitySet struct {
	Name   string
	Table  string
	Key    string // nombre público de la clave
	Fields []SetField
	// GeneratedKey indica que la clave la asigna el servidor (uuid).
	GeneratedKey bool
	// Derive recalcula campos derivados antes de persistir (opcional).
	Derive func(Record)
}

// Field busca un campo por nombre público.
func (s *EntitySet) Field(name string) (SetField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SetField{}, false
}

// Schema esquema de consulta del conjunto (nombre canónico = público).
func (s *EntitySet) Schema() query.Schema {
	out := make(query.Schema, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = query.Field{Name: f.Name, Type: f.Type}
	}
	return out
}

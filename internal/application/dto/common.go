package dto

// ListResponse envoltorio OData de colecciones: { "value": [...] }.
type ListResponse[T any] struct {
	Value []T `json:"value"`
}

// NewList construye la respuesta; una colección vacía se serializa como [] y no null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Value: items}
}

// ErrorBody detalle de error HTTP.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: { "error": { "code", "message" } }.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

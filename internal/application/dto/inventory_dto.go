package dto

import "time"

// RegisterMovementRequest body para POST /catalog/StockMovements.
type RegisterMovementRequest struct {
	ProductID     string `json:"product_ID" validate:"required"`
	Type          string `json:"type" validate:"required,oneof=IN OUT"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
	Reference     string `json:"reference" validate:"max=255"`
	ResponsibleID string `json:"responsible_ID"`
}

// StockMovementResponse registro del kardex.
type StockMovementResponse struct {
	ID            string    `json:"ID"`
	ProductID     string    `json:"product_ID"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Reference     string    `json:"reference"`
	ResponsibleID string    `json:"responsible_ID"`
	CreatedBy     string    `json:"createdBy"`
	Date          time.Time `json:"date"`
	// Stock resultante del producto; solo en la respuesta de registro.
	Stock *int `json:"stock,omitempty"`
}

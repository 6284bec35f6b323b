package models

import "time"

type Product struct {
	ID                  int       `json:"id"`
	ItemNumber          string    `json:"item_number"`
	Name                string    `json:"name"`
	CategoryID          *int      `json:"category_id,omitempty"`
	CategoryName        string    `json:"category_name,omitempty"` // Denormalized for display
	Quantity            int       `json:"quantity"`                // On-hand stock
	IncomingQuantity    int       `json:"incoming_quantity"`       // In-transit stock
	PurchasePrice       float64   `json:"purchase_price"`
	SalesPrice          float64   `json:"sales_price"`
	PerCaseCost         float64   `json:"per_case_cost"`
	PerUnitShippingCost float64   `json:"per_unit_shipping_cost"`
	IsDeleted           bool      `json:"is_deleted"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	ItemNumber    string  `json:"item_number"`
	Name          string  `json:"name"`
	CategoryID    *int    `json:"category_id,omitempty"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	SalesPrice    float64 `json:"sales_price"`
}

// UpdateProductRequest represents the request body for updating a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty"`
	CategoryID    *int     `json:"category_id,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	SalesPrice    *float64 `json:"sales_price,omitempty"`
}

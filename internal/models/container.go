package models

import "time"

// Container statuses
const (
	ContainerStatusOnTheWay = "onTheWay"
	ContainerStatusArrived  = "arrived"
)

// Container is an inbound shipment used to replenish inventory.
type Container struct {
	ID              int             `json:"id"`
	ContainerNumber string          `json:"container_number"`
	ContainerStatus string          `json:"container_status"`
	ShippingCost    float64         `json:"shipping_cost"`
	Items           []ContainerItem `json:"items,omitempty"`
	IsDeleted       bool            `json:"is_deleted"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ContainerItem struct {
	ID                  int     `json:"id"`
	ContainerID         int     `json:"container_id"`
	ItemNumber          string  `json:"item_number"`
	Quantity            int     `json:"quantity"`
	PurchasePrice       float64 `json:"purchase_price"`
	SalesPrice          float64 `json:"sales_price"`
	PerCaseCost         float64 `json:"per_case_cost"`
	PerUnitShippingCost float64 `json:"per_unit_shipping_cost"`
}

// ContainerItemRequest is one product line of a container intake payload.
type ContainerItemRequest struct {
	ItemNumber    string  `json:"item_number"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	SalesPrice    float64 `json:"sales_price"`
}

// CreateContainerRequest represents the request body for container intake
type CreateContainerRequest struct {
	ContainerStatus string                 `json:"container_status"` // defaults to 'onTheWay'
	ShippingCost    float64                `json:"shipping_cost"`
	Items           []ContainerItemRequest `json:"items"`
}

// UpdateContainerRequest represents the request body for updating a container.
// Transitioning onTheWay -> arrived moves incoming stock on-hand.
type UpdateContainerRequest struct {
	ContainerStatus *string  `json:"container_status,omitempty"`
	ShippingCost    *float64 `json:"shipping_cost,omitempty"`
}

// ContainerIntakeResult reports which lines were applied and which item
// numbers could not be matched to a product.
type ContainerIntakeResult struct {
	Container     *Container `json:"container"`
	FailedEntries []string   `json:"failed_entries,omitempty"`
}

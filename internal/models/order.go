package models

import "time"

// Order statuses
const (
	OrderStatusVerified  = "verified"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusNotPaid       = "notPaid"
	PaymentStatusPartiallyPaid = "partiallyPaid"
	PaymentStatusPaid          = "paid"
	PaymentStatusOverPaid      = "overPaid"
)

type Order struct {
	ID                    int         `json:"id"`
	InvoiceNumber         string      `json:"invoice_number"`
	PONumber              string      `json:"po_number"`
	StoreID               int         `json:"store_id"`
	StoreName             string      `json:"store_name,omitempty"` // Denormalized for display
	OrderDate             time.Time   `json:"order_date"`
	PaymentDueDate        *time.Time  `json:"payment_due_date,omitempty"`
	ShippingDate          *time.Time  `json:"shipping_date,omitempty"`
	Items                 []OrderItem `json:"items,omitempty"`
	OrderAmount           float64     `json:"order_amount"` // Line sales minus discounts, excludes shipping
	ShippingCharge        float64     `json:"shipping_charge"`
	TotalPayable          float64     `json:"total_payable"` // order_amount + shipping_charge
	PaymentAmountReceived float64     `json:"payment_amount_received"`
	DiscountGiven         float64     `json:"discount_given"`
	OpenBalance           float64     `json:"open_balance"` // total_payable - payment_amount_received
	ProfitAmount          float64     `json:"profit_amount"`
	ProfitPercentage      float64     `json:"profit_percentage"`
	OrderStatus           string      `json:"order_status"`
	PaymentStatus         string      `json:"payment_status"`
	CreditAmount          *float64    `json:"credit_amount,omitempty"`
	CreditDate            *time.Time  `json:"credit_date,omitempty"`
	EarlyReminderSent     bool        `json:"early_reminder_sent"`
	ReminderNumber        int         `json:"reminder_number"`
	ReminderPaused        bool        `json:"reminder_paused"`
	DeliveryDoc           string      `json:"delivery_doc,omitempty"`
	IsDeleted             bool        `json:"is_deleted"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID          int     `json:"id"`
	OrderID     int     `json:"order_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"` // Denormalized for display
	ItemNumber  string  `json:"item_number,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
}

// OrderItemRequest is one line of an order payload.
type OrderItemRequest struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

// CreateOrderRequest represents the request body for creating an order.
// Optional fields default to zero values.
type CreateOrderRequest struct {
	StoreID               int                `json:"store_id"`
	OrderDate             string             `json:"order_date"` // YYYY-MM-DD, defaults to today
	PaymentDueDate        string             `json:"payment_due_date,omitempty"`
	ShippingDate          string             `json:"shipping_date,omitempty"`
	Items                 []OrderItemRequest `json:"items"`
	ShippingCharge        float64            `json:"shipping_charge"`
	PaymentAmountReceived float64            `json:"payment_amount_received"`
}

// UpdateOrderRequest represents the request body for updating an order.
// Nil fields are left unchanged. Supplying Items triggers a re-price: all
// financials are recomputed from current product prices.
type UpdateOrderRequest struct {
	PaymentDueDate        *string             `json:"payment_due_date,omitempty"`
	ShippingDate          *string             `json:"shipping_date,omitempty"`
	Items                 *[]OrderItemRequest `json:"items,omitempty"`
	ShippingCharge        *float64            `json:"shipping_charge,omitempty"`
	PaymentAmountReceived *float64            `json:"payment_amount_received,omitempty"`
	OrderStatus           *string             `json:"order_status,omitempty"`
	CreditAmount          *float64            `json:"credit_amount,omitempty"`
	CreditDate            *string             `json:"credit_date,omitempty"`
	ReminderPaused        *bool               `json:"reminder_paused,omitempty"`
	DeliveryDoc           *string             `json:"delivery_doc,omitempty"`
}

// OrderFilter narrows List queries.
type OrderFilter struct {
	StoreID       int
	OrderStatus   string
	PaymentStatus string
	FromDate      *time.Time
	ToDate        *time.Time
}

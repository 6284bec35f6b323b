package models

import "time"

// Payment methods
const (
	PaymentMethodCheck    = "check"
	PaymentMethodCash     = "cash"
	PaymentMethodCC       = "cc"
	PaymentMethodDonation = "donation"
)

type Payment struct {
	ID            int       `json:"id"`
	StoreID       int       `json:"store_id"`
	StoreName     string    `json:"store_name,omitempty"` // Denormalized for display
	OrderIDs      []int     `json:"order_ids"`
	Method        string    `json:"method"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	CheckNumber   string    `json:"check_number,omitempty"`
	CheckImageURL string    `json:"check_image_url,omitempty"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreatePaymentRequest represents the request body for recording a payment
// against one or more orders.
type CreatePaymentRequest struct {
	StoreID       int     `json:"store_id"`
	OrderIDs      []int   `json:"order_ids"`
	Method        string  `json:"method"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"payment_date,omitempty"` // YYYY-MM-DD, defaults to today
	CheckNumber   string  `json:"check_number,omitempty"`
	CheckImageURL string  `json:"check_image_url,omitempty"`
}

package models

import "time"

// ReminderOrder is one open order as seen by the reminder batch job.
type ReminderOrder struct {
	OrderID           int       `json:"order_id"`
	InvoiceNumber     string    `json:"invoice_number"`
	PONumber          string    `json:"po_number"`
	StoreID           int       `json:"store_id"`
	StoreName         string    `json:"store_name"`
	StoreEmail        string    `json:"store_email"`
	PaymentDueDate    time.Time `json:"payment_due_date"`
	OpenBalance       float64   `json:"open_balance"`
	EarlyReminderSent bool      `json:"early_reminder_sent"`
	ReminderNumber    int       `json:"reminder_number"`
}

package models

// ProductSalesStat aggregates sales performance for one product across all
// non-deleted orders.
type ProductSalesStat struct {
	ProductID         int     `json:"product_id"`
	ProductName       string  `json:"product_name"`
	ItemNumber        string  `json:"item_number"`
	TotalQuantity     int     `json:"total_quantity"`
	NumberOfOrders    int     `json:"number_of_orders"`
	Revenue           float64 `json:"revenue"`
	OrderScore        int     `json:"order_score"` // total_quantity * number_of_orders
	RevenuePercentage float64 `json:"revenue_percentage"`
}

// ProductSegment is one product combination and how often it was ordered
// together.
type ProductSegment struct {
	ProductIDs   []int    `json:"product_ids"`
	ProductNames []string `json:"product_names"`
	Frequency    int      `json:"frequency"`
}

// ChartPoint is one year-month bucket of order and new-customer counts.
type ChartPoint struct {
	YearMonth string `json:"year_month"` // YYYY-MM
	Orders    int    `json:"orders"`
	NewStores int    `json:"new_stores"`
}

// ReminderSummary reports one reminder batch run.
type ReminderSummary struct {
	Customers int `json:"customers"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

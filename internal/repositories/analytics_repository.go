package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

// AnalyticsRepository aggregates order data for dashboard queries.
type AnalyticsRepository struct {
	DB *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// ProductSalesStats returns raw per-product totals across non-deleted
// orders. Score and revenue share are derived in the service.
func (r *AnalyticsRepository) ProductSalesStats(ctx context.Context) ([]*models.ProductSalesStat, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT p.id, p.name, p.item_number,
                COALESCE(SUM(oi.quantity), 0) as total_quantity,
                COUNT(DISTINCT oi.order_id) as number_of_orders,
                COALESCE(SUM(oi.price * oi.quantity - oi.discount), 0) as revenue
         FROM order_items oi
         JOIN orders o ON oi.order_id = o.id AND o.is_deleted = FALSE
         JOIN products p ON oi.product_id = p.id
         GROUP BY p.id, p.name, p.item_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.ProductSalesStat
	for rows.Next() {
		var s models.ProductSalesStat
		err := rows.Scan(&s.ProductID, &s.ProductName, &s.ItemNumber,
			&s.TotalQuantity, &s.NumberOfOrders, &s.Revenue)
		if err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, nil
}

// OrderProductSets returns, per non-deleted order, the sorted distinct
// product ids it contains. Used for co-occurrence segmentation.
func (r *AnalyticsRepository) OrderProductSets(ctx context.Context) ([][]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ARRAY_AGG(DISTINCT oi.product_id ORDER BY oi.product_id)
         FROM order_items oi
         JOIN orders o ON oi.order_id = o.id AND o.is_deleted = FALSE
         GROUP BY oi.order_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets [][]int
	for rows.Next() {
		var ids []int
		if err := rows.Scan(&ids); err != nil {
			return nil, err
		}
		sets = append(sets, ids)
	}
	return sets, nil
}

// ProductNames maps product ids to display names.
func (r *AnalyticsRepository) ProductNames(ctx context.Context) (map[int]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, nil
}

// OrderCountsByMonth buckets non-deleted orders by year-month.
func (r *AnalyticsRepository) OrderCountsByMonth(ctx context.Context) (map[string]int, error) {
	return r.countsByMonth(ctx,
		`SELECT to_char(order_date, 'YYYY-MM') as ym, COUNT(*)
         FROM orders WHERE is_deleted = FALSE
         GROUP BY ym ORDER BY ym`)
}

// StoreCountsByMonth buckets new stores by year-month of creation.
func (r *AnalyticsRepository) StoreCountsByMonth(ctx context.Context) (map[string]int, error) {
	return r.countsByMonth(ctx,
		`SELECT to_char(created_at, 'YYYY-MM') as ym, COUNT(*)
         FROM stores WHERE is_deleted = FALSE
         GROUP BY ym ORDER BY ym`)
}

func (r *AnalyticsRepository) countsByMonth(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var ym string
		var n int
		if err := rows.Scan(&ym, &n); err != nil {
			return nil, err
		}
		counts[ym] = n
	}
	return counts, nil
}

package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/metrics"
)

// lowStockThreshold flags products the office should reorder.
const lowStockThreshold = 10

// MetricsCollector refreshes the business gauges exposed on /metrics.
type MetricsCollector struct {
	db              *pgxpool.Pool
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewMetricsCollector(db *pgxpool.Pool) *MetricsCollector {
	return &MetricsCollector{
		db:              db,
		collectInterval: 60 * time.Second,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the collection loop
func (c *MetricsCollector) Start() {
	log.Println("[MetricsCollector] Starting metrics collector...")

	// Collect immediately on start
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping metrics collector...")
				return
			}
		}
	}()
}

// Stop stops the collection loop
func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var openOrders int
	var receivables float64
	err := c.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(open_balance), 0)
         FROM orders
         WHERE is_deleted = FALSE
           AND order_status <> 'cancelled'
           AND payment_status NOT IN ('paid', 'overPaid')`).Scan(&openOrders, &receivables)
	if err != nil {
		log.Printf("[MetricsCollector] Error collecting open orders: %v", err)
	} else {
		metrics.OpenOrders.Set(float64(openOrders))
		metrics.OpenReceivables.Set(receivables)
	}

	var overdue int
	err = c.db.QueryRow(ctx,
		`SELECT COUNT(*)
         FROM orders
         WHERE is_deleted = FALSE
           AND order_status <> 'cancelled'
           AND payment_status NOT IN ('paid', 'overPaid')
           AND payment_due_date IS NOT NULL
           AND payment_due_date < NOW()`).Scan(&overdue)
	if err != nil {
		log.Printf("[MetricsCollector] Error collecting overdue orders: %v", err)
	} else {
		metrics.OverdueOrders.Set(float64(overdue))
	}

	var lowStock int
	err = c.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products
         WHERE is_deleted = FALSE AND quantity <= $1`, lowStockThreshold).Scan(&lowStock)
	if err != nil {
		log.Printf("[MetricsCollector] Error collecting low stock count: %v", err)
	} else {
		metrics.LowStockProducts.Set(float64(lowStock))
	}
}

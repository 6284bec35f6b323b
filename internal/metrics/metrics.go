package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Business gauges refreshed by the collector loop
	OpenOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_open_total",
		Help: "Orders with an outstanding balance",
	})

	OpenReceivables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_open_receivables_dollars",
		Help: "Sum of open balances across unpaid orders",
	})

	OverdueOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_overdue_total",
		Help: "Unpaid orders past their payment due date",
	})

	LowStockProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "products_low_stock_total",
		Help: "Products at or below the low stock threshold",
	})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Payment reminder emails sent",
	})
)

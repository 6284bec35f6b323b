package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/models"
)

func TestFillMonths(t *testing.T) {
	orders := map[string]int{
		"2025-11": 4,
		"2026-02": 7,
	}
	stores := map[string]int{
		"2025-12": 2,
	}

	points := fillMonths(orders, stores)
	require.Len(t, points, 4)

	assert.Equal(t, "2025-11", points[0].YearMonth)
	assert.Equal(t, 4, points[0].Orders)
	assert.Equal(t, 0, points[0].NewStores)

	assert.Equal(t, "2025-12", points[1].YearMonth)
	assert.Equal(t, 0, points[1].Orders)
	assert.Equal(t, 2, points[1].NewStores)

	// January has no data but is still present
	assert.Equal(t, "2026-01", points[2].YearMonth)
	assert.Equal(t, 0, points[2].Orders)

	assert.Equal(t, "2026-02", points[3].YearMonth)
	assert.Equal(t, 7, points[3].Orders)
}

func TestFillMonthsEmpty(t *testing.T) {
	points := fillMonths(map[string]int{}, map[string]int{})
	assert.Empty(t, points)
}

func TestCapStats(t *testing.T) {
	stats := []*models.ProductSalesStat{
		{ProductName: "a"}, {ProductName: "b"}, {ProductName: "c"},
	}

	assert.Len(t, capStats(stats, 2), 2)
	assert.Len(t, capStats(stats, 5), 3)
	assert.Len(t, capStats(stats, 0), 3)
}

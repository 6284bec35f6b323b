package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/models"
)

func newOrderFixture() (*OrderService, *fakeInventory, *fakeOrders) {
	inv := &fakeInventory{products: map[int]*models.Product{
		1: {ID: 1, Name: "Dish Soap", Quantity: 10, PurchasePrice: 12, SalesPrice: 25},
	}}
	orders := newFakeOrders()
	stores := &fakeStores{stores: map[int]*models.Store{7: {ID: 7, Name: "Corner Market"}}}
	svc := &OrderService{DB: fakeDB{}, Orders: orders, Products: inv, Stores: stores}
	return svc, inv, orders
}

func TestComputeFinancials(t *testing.T) {
	tests := []struct {
		name           string
		items          []models.OrderItem
		purchasePrices map[int]float64
		want           orderFinancials
	}{
		{
			name: "single line with discount",
			items: []models.OrderItem{
				{ProductID: 1, Quantity: 2, Price: 25, Discount: 10},
			},
			purchasePrices: map[int]float64{1: 12},
			want: orderFinancials{
				OrderAmount:      40,
				DiscountGiven:    10,
				TotalPurchase:    24,
				ProfitAmount:     16,
				ProfitPercentage: 66.67,
			},
		},
		{
			name: "multiple lines",
			items: []models.OrderItem{
				{ProductID: 1, Quantity: 3, Price: 10},
				{ProductID: 2, Quantity: 1, Price: 50, Discount: 5},
			},
			purchasePrices: map[int]float64{1: 6, 2: 30},
			want: orderFinancials{
				OrderAmount:      75,
				DiscountGiven:    5,
				TotalPurchase:    48,
				ProfitAmount:     27,
				ProfitPercentage: 56.25,
			},
		},
		{
			name: "zero purchase cost leaves percentage at zero",
			items: []models.OrderItem{
				{ProductID: 1, Quantity: 1, Price: 20},
			},
			purchasePrices: map[int]float64{1: 0},
			want: orderFinancials{
				OrderAmount:  20,
				ProfitAmount: 20,
			},
		},
		{
			name:           "no items",
			items:          nil,
			purchasePrices: nil,
			want:           orderFinancials{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeFinancials(tt.items, tt.purchasePrices)
			assert.InDelta(t, tt.want.OrderAmount, got.OrderAmount, 0.001)
			assert.InDelta(t, tt.want.DiscountGiven, got.DiscountGiven, 0.001)
			assert.InDelta(t, tt.want.TotalPurchase, got.TotalPurchase, 0.001)
			assert.InDelta(t, tt.want.ProfitAmount, got.ProfitAmount, 0.001)
			assert.InDelta(t, tt.want.ProfitPercentage, got.ProfitPercentage, 0.001)
		})
	}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		name        string
		openBalance float64
		received    float64
		want        string
	}{
		{"nothing received", 100, 0, models.PaymentStatusNotPaid},
		{"negative received", 100, -5, models.PaymentStatusNotPaid},
		{"partial payment", 60, 40, models.PaymentStatusPartiallyPaid},
		{"exactly paid", 0, 100, models.PaymentStatusPaid},
		{"paid within tolerance", 0.005, 99.995, models.PaymentStatusPaid},
		{"short by a cent boundary", 0.01, 99.99, models.PaymentStatusPaid},
		{"overpaid", -10, 110, models.PaymentStatusOverPaid},
		{"overpaid within tolerance", -0.01, 100.01, models.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paymentStatusFor(tt.openBalance, tt.received))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, round2(66.666666))
	assert.Equal(t, 66.66, round2(66.664))
	assert.Equal(t, -2.5, round2(-2.499999999))
	assert.Equal(t, 0.0, round2(0))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 3, int(d.Month()))
	assert.Equal(t, 15, d.Day())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("15/03/2026")
	assert.Error(t, err)
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -3} {
		svc, inv, _ := newOrderFixture()

		_, err := svc.Create(context.Background(), &models.CreateOrderRequest{
			StoreID: 7,
			Items:   []models.OrderItemRequest{{ProductID: 1, Quantity: qty}},
		})

		appErr, ok := apperror.As(err)
		require.True(t, ok, "quantity %d", qty)
		assert.Equal(t, apperror.CodeInvalidOrder, appErr.Code)
		assert.Equal(t, 10, inv.products[1].Quantity, "stock must be untouched for quantity %d", qty)
	}
}

func TestUpdateOrderRejectsNonPositiveQuantity(t *testing.T) {
	svc, inv, _ := newOrderFixture()
	ctx := context.Background()

	order, err := svc.Create(ctx, &models.CreateOrderRequest{
		StoreID: 7,
		Items:   []models.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	items := []models.OrderItemRequest{{ProductID: 1, Quantity: -1}}
	_, err = svc.Update(ctx, order.ID, &models.UpdateOrderRequest{Items: &items})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidOrder, appErr.Code)
	assert.Equal(t, 8, inv.products[1].Quantity)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, inv, _ := newOrderFixture()

	_, err := svc.Create(context.Background(), &models.CreateOrderRequest{
		StoreID: 7,
		Items:   []models.OrderItemRequest{{ProductID: 1, Quantity: 11}},
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 10, inv.products[1].Quantity)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, inv, _ := newOrderFixture()
	ctx := context.Background()

	order, err := svc.Create(ctx, &models.CreateOrderRequest{
		StoreID: 7,
		Items:   []models.OrderItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, inv.products[1].Quantity)

	cancelled := models.OrderStatusCancelled
	updated, err := svc.Update(ctx, order.ID, &models.UpdateOrderRequest{OrderStatus: &cancelled})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, updated.OrderStatus)
	assert.Equal(t, 10, inv.products[1].Quantity)
}

func TestDeleteVerifiedOrderRestoresStock(t *testing.T) {
	svc, inv, _ := newOrderFixture()
	ctx := context.Background()

	order, err := svc.Create(ctx, &models.CreateOrderRequest{
		StoreID: 7,
		Items:   []models.OrderItemRequest{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, inv.products[1].Quantity)

	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.Equal(t, 10, inv.products[1].Quantity)

	_, err = svc.Get(ctx, order.ID)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderNotFound, appErr.Code)
}

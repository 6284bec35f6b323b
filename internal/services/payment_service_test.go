package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/models"
)

func newPaymentFixture(orders ...*models.Order) (*PaymentService, *fakeOrders, *fakePayments) {
	fo := newFakeOrders()
	for _, o := range orders {
		fo.orders[o.ID] = o
	}
	fp := newFakePayments()
	svc := &PaymentService{DB: fakeDB{}, Payments: fp, Orders: fo}
	return svc, fo, fp
}

func openOrder(id, storeID int, total, received float64) *models.Order {
	return &models.Order{
		ID:                    id,
		StoreID:               storeID,
		TotalPayable:          total,
		PaymentAmountReceived: received,
		OpenBalance:           total - received,
		PaymentStatus:         paymentStatusFor(total-received, received),
		OrderStatus:           models.OrderStatusVerified,
	}
}

func TestCreatePaymentSettlesSingleOrder(t *testing.T) {
	svc, fo, _ := newPaymentFixture(openOrder(1, 7, 100, 60))

	p, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1},
		Method:   models.PaymentMethodCash,
		Amount:   40,
	})
	require.NoError(t, err)
	assert.InDelta(t, 40, p.Amount, 0.001)

	o := fo.orders[1]
	assert.InDelta(t, 100, o.PaymentAmountReceived, 0.001)
	assert.InDelta(t, 0, o.OpenBalance, 0.001)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
}

func TestCreatePaymentPartialSingleOrder(t *testing.T) {
	svc, fo, _ := newPaymentFixture(openOrder(1, 7, 100, 60))

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1},
		Method:   models.PaymentMethodCash,
		Amount:   10,
	})
	require.NoError(t, err)

	o := fo.orders[1]
	assert.InDelta(t, 70, o.PaymentAmountReceived, 0.001)
	assert.InDelta(t, 30, o.OpenBalance, 0.001)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, o.PaymentStatus)
}

func TestCreatePaymentExceedsBalanceLeavesOrderUntouched(t *testing.T) {
	svc, fo, fp := newPaymentFixture(openOrder(1, 7, 100, 60))

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1},
		Method:   models.PaymentMethodCash,
		Amount:   50,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAmountExceedsBalance, appErr.Code)

	o := fo.orders[1]
	assert.InDelta(t, 60, o.PaymentAmountReceived, 0.001)
	assert.InDelta(t, 40, o.OpenBalance, 0.001)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, o.PaymentStatus)
	assert.Empty(t, fp.payments)
}

func TestCreatePaymentMultiOrderExactSettlesAll(t *testing.T) {
	svc, fo, _ := newPaymentFixture(
		openOrder(1, 7, 100, 60),
		openOrder(2, 7, 80, 20),
	)

	p, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1, 2},
		Method:   models.PaymentMethodCash,
		Amount:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p.OrderIDs)

	for _, id := range []int{1, 2} {
		o := fo.orders[id]
		assert.InDelta(t, o.TotalPayable, o.PaymentAmountReceived, 0.001, "order %d", id)
		assert.InDelta(t, 0, o.OpenBalance, 0.001, "order %d", id)
		assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus, "order %d", id)
	}
}

func TestCreatePaymentMultiOrderMismatch(t *testing.T) {
	svc, fo, fp := newPaymentFixture(
		openOrder(1, 7, 100, 60),
		openOrder(2, 7, 80, 20),
	)

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1, 2},
		Method:   models.PaymentMethodCash,
		Amount:   90,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAmountMismatch, appErr.Code)

	assert.InDelta(t, 40, fo.orders[1].OpenBalance, 0.001)
	assert.InDelta(t, 60, fo.orders[2].OpenBalance, 0.001)
	assert.Empty(t, fp.payments)
}

func TestCreatePaymentMultiOrderWithinTolerance(t *testing.T) {
	svc, fo, _ := newPaymentFixture(
		openOrder(1, 7, 100, 60),
		openOrder(2, 7, 80, 20),
	)

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1, 2},
		Method:   models.PaymentMethodCash,
		Amount:   99.995,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, fo.orders[1].PaymentStatus)
	assert.Equal(t, models.PaymentStatusPaid, fo.orders[2].PaymentStatus)
}

func TestCreatePaymentDuplicateOrderIDs(t *testing.T) {
	svc, fo, _ := newPaymentFixture(openOrder(3, 7, 100, 60))

	p, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{3, 3},
		Method:   models.PaymentMethodCash,
		Amount:   40,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, p.OrderIDs)

	o := fo.orders[3]
	assert.InDelta(t, 0, o.OpenBalance, 0.001)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
}

func TestCreatePaymentRejectsWrongStore(t *testing.T) {
	svc, _, fp := newPaymentFixture(openOrder(1, 8, 100, 60))

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1},
		Method:   models.PaymentMethodCash,
		Amount:   40,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderNotFound, appErr.Code)
	assert.Empty(t, fp.payments)
}

func TestCreatePaymentCheckRequiresDetails(t *testing.T) {
	svc, _, _ := newPaymentFixture(openOrder(1, 7, 100, 60))

	_, err := svc.Create(context.Background(), &models.CreatePaymentRequest{
		StoreID:  7,
		OrderIDs: []int{1},
		Method:   models.PaymentMethodCheck,
		Amount:   40,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMissingCheckDetails, appErr.Code)
}

func TestMissingOrderIDs(t *testing.T) {
	found := []*models.Order{{ID: 1}, {ID: 3}}

	assert.Equal(t, []int{2, 4}, missingOrderIDs([]int{1, 2, 3, 4}, found))
	assert.Nil(t, missingOrderIDs([]int{1, 3}, found))
	assert.Equal(t, []int{9}, missingOrderIDs([]int{9}, nil))
}

func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, dedupeIDs([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []int{5}, dedupeIDs([]int{5}))
	assert.Empty(t, dedupeIDs(nil))
}
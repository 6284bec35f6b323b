package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantCode   string
		wantStatus int
	}{
		{"invalid store", InvalidStore(3), CodeInvalidStore, http.StatusBadRequest},
		{"product not found", ProductNotFound(9), CodeProductNotFound, http.StatusNotFound},
		{"insufficient stock", InsufficientStock("Dish Soap", 2, 5), CodeInsufficientStock, http.StatusBadRequest},
		{"order not found", OrderNotFound(1), CodeOrderNotFound, http.StatusNotFound},
		{"immutable order", ImmutableOrder(1), CodeImmutableOrder, http.StatusBadRequest},
		{"inventory restore failed", InventoryRestoreFailed(4), CodeInventoryRestoreFailed, http.StatusConflict},
		{"invalid amount", InvalidAmount(), CodeInvalidAmount, http.StatusBadRequest},
		{"missing check details", MissingCheckDetails(), CodeMissingCheckDetails, http.StatusBadRequest},
		{"amount exceeds balance", AmountExceedsBalance(50, 40), CodeAmountExceedsBalance, http.StatusBadRequest},
		{"amount mismatch", AmountMismatch(50, 60), CodeAmountMismatch, http.StatusBadRequest},
		{"duplicate invoice", DuplicateInvoice("INV-1"), CodeDuplicateInvoice, http.StatusConflict},
		{"payment not found", PaymentNotFound(2), CodePaymentNotFound, http.StatusNotFound},
		{"container not found", ContainerNotFound(2), CodeContainerNotFound, http.StatusNotFound},
		{"store not found", StoreNotFound(2), CodeStoreNotFound, http.StatusNotFound},
		{"invalid payment method", InvalidPaymentMethod("iou"), CodeInvalidPaymentMethod, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestOrderNotFoundMessages(t *testing.T) {
	assert.Equal(t, "order not found", OrderNotFound().Message)
	assert.Equal(t, "order 5 not found", OrderNotFound(5).Message)
	assert.Contains(t, OrderNotFound(5, 6).Message, "[5 6]")
}

func TestAs(t *testing.T) {
	appErr, ok := As(InvalidAmount())
	require.True(t, ok)
	assert.Equal(t, CodeInvalidAmount, appErr.Code)

	wrapped := fmt.Errorf("create payment: %w", MissingCheckDetails())
	appErr, ok = As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeMissingCheckDetails, appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed application error carrying a stable machine code and the
// HTTP status the transport layer should answer with.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Codes used across the order, payment, container and reminder services.
const (
	CodeInvalidStore           = "INVALID_STORE"
	CodeProductNotFound        = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeOrderNotFound          = "ORDER_NOT_FOUND"
	CodeImmutableOrder         = "IMMUTABLE_ORDER"
	CodeInventoryRestoreFailed = "INVENTORY_RESTORE_FAILED"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeMissingCheckDetails    = "MISSING_CHECK_DETAILS"
	CodeAmountExceedsBalance   = "AMOUNT_EXCEEDS_BALANCE"
	CodeAmountMismatch         = "AMOUNT_MISMATCH"
	CodeDuplicateInvoice       = "DUPLICATE_INVOICE"
	CodeInvalidOrder           = "INVALID_ORDER"
	CodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	CodeContainerNotFound      = "CONTAINER_NOT_FOUND"
	CodeStoreNotFound          = "STORE_NOT_FOUND"
	CodeInvalidPaymentMethod   = "INVALID_PAYMENT_METHOD"
)

func InvalidStore(storeID int) *Error {
	return &Error{
		Code:    CodeInvalidStore,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("store %d does not exist or is deleted", storeID),
	}
}

func ProductNotFound(productID int) *Error {
	return &Error{
		Code:    CodeProductNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("product %d not found", productID),
	}
}

func InsufficientStock(name string, available, requested int) *Error {
	return &Error{
		Code:   CodeInsufficientStock,
		Status: http.StatusBadRequest,
		Message: fmt.Sprintf("insufficient stock for product %s. Available: %d, Requested: %d",
			name, available, requested),
	}
}

func OrderNotFound(orderIDs ...int) *Error {
	msg := "order not found"
	if len(orderIDs) == 1 {
		msg = fmt.Sprintf("order %d not found", orderIDs[0])
	} else if len(orderIDs) > 1 {
		msg = fmt.Sprintf("orders %v not found", orderIDs)
	}
	return &Error{Code: CodeOrderNotFound, Status: http.StatusNotFound, Message: msg}
}

func ImmutableOrder(orderID int) *Error {
	return &Error{
		Code:    CodeImmutableOrder,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("order %d is cancelled and can no longer be modified", orderID),
	}
}

func InventoryRestoreFailed(productID int) *Error {
	return &Error{
		Code:    CodeInventoryRestoreFailed,
		Status:  http.StatusConflict,
		Message: fmt.Sprintf("failed to restore quantity for product %d", productID),
	}
}

func InvalidAmount() *Error {
	return &Error{
		Code:    CodeInvalidAmount,
		Status:  http.StatusBadRequest,
		Message: "payment amount must be greater than zero",
	}
}

func MissingCheckDetails() *Error {
	return &Error{
		Code:    CodeMissingCheckDetails,
		Status:  http.StatusBadRequest,
		Message: "check payments require both check number and check image",
	}
}

func AmountExceedsBalance(amount, balance float64) *Error {
	return &Error{
		Code:   CodeAmountExceedsBalance,
		Status: http.StatusBadRequest,
		Message: fmt.Sprintf("payment amount %.2f exceeds remaining balance %.2f",
			amount, balance),
	}
}

func AmountMismatch(amount, expected float64) *Error {
	return &Error{
		Code:   CodeAmountMismatch,
		Status: http.StatusBadRequest,
		Message: fmt.Sprintf("payment amount %.2f does not match combined balance %.2f",
			amount, expected),
	}
}

func DuplicateInvoice(invoiceNumber string) *Error {
	return &Error{
		Code:    CodeDuplicateInvoice,
		Status:  http.StatusConflict,
		Message: fmt.Sprintf("invoice number %s already exists", invoiceNumber),
	}
}

func InvalidOrder(message string) *Error {
	return &Error{Code: CodeInvalidOrder, Status: http.StatusBadRequest, Message: message}
}

func PaymentNotFound(paymentID int) *Error {
	return &Error{
		Code:    CodePaymentNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("payment %d not found", paymentID),
	}
}

func ContainerNotFound(containerID int) *Error {
	return &Error{
		Code:    CodeContainerNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("container %d not found", containerID),
	}
}

func InvalidPaymentMethod(method string) *Error {
	return &Error{
		Code:    CodeInvalidPaymentMethod,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("unknown payment method %q", method),
	}
}

func StoreNotFound(storeID int) *Error {
	return &Error{
		Code:    CodeStoreNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("store %d not found", storeID),
	}
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

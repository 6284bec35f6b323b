package services

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/timeutil"
)

func sampleOrder() *models.Order {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, timeutil.Eastern)
	return &models.Order{
		ID:             1,
		InvoiceNumber:  "INV-000042",
		PONumber:       "ORD-000042",
		StoreID:        7,
		OrderDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, timeutil.Eastern),
		PaymentDueDate: &due,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Paper Towels 12pk", ItemNumber: "PT-12", Quantity: 10, Price: 14.99, Discount: 5},
			{ProductID: 2, ProductName: "Dish Soap 24oz", ItemNumber: "DS-24", Quantity: 24, Price: 2.49},
		},
		OrderAmount:           204.66,
		ShippingCharge:        20,
		TotalPayable:          224.66,
		PaymentAmountReceived: 100,
		OpenBalance:           124.66,
		OrderStatus:           models.OrderStatusVerified,
		PaymentStatus:         models.PaymentStatusPartiallyPaid,
	}
}

func sampleStore() *models.Store {
	return &models.Store{
		ID:      7,
		Name:    "Corner Market",
		Email:   "owner@cornermarket.example",
		Address: "12 Main St",
		City:    "Albany",
		State:   "NY",
		Zip:     "12207",
	}
}

func TestRenderInvoice(t *testing.T) {
	svc := &DocumentService{CompanyName: "Orderflow Distribution", CompanyAddress: "New York, NY"}

	pdf, err := svc.renderInvoice(sampleOrder(), sampleStore())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestCreateBulkPDFZip(t *testing.T) {
	svc := &DocumentService{CompanyName: "Orderflow Distribution", CompanyAddress: "New York, NY"}

	pdf, err := svc.renderInvoice(sampleOrder(), sampleStore())
	require.NoError(t, err)

	archive, err := svc.CreateBulkPDFZip(map[string][]byte{"INV-000042": pdf})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "invoice_INV-000042.pdf", zr.File[0].Name)
}

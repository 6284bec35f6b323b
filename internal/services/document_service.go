package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf/v2"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/timeutil"
)

// DocumentService renders order paperwork: invoices, ship-to labels and
// delivery sheets.
type DocumentService struct {
	Orders *repositories.OrderRepository
	Stores *repositories.StoreRepository

	CompanyName    string
	CompanyAddress string
}

func NewDocumentService(orders *repositories.OrderRepository, stores *repositories.StoreRepository, companyName, companyAddress string) *DocumentService {
	return &DocumentService{
		Orders:         orders,
		Stores:         stores,
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
	}
}

// GenerateInvoicePDF renders the invoice for one order.
func (s *DocumentService) GenerateInvoicePDF(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	store, err := s.Stores.Get(ctx, order.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return s.renderInvoice(order, store)
}

func (s *DocumentService) renderInvoice(order *models.Order, store *models.Store) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, s.CompanyAddress, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 8, fmt.Sprintf("INVOICE %s", order.InvoiceNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("PO %s  |  Order date: %s", order.PONumber,
		timeutil.FormatEastern(order.OrderDate, "02-Jan-2006")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Bill-to box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Bill To", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, store.Name, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, store.Phone, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, store.Address, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("%s, %s %s", store.City, store.State, store.Zip), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(30, 7, "Item #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Disc", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		name := item.ProductName
		if len(name) > 34 {
			name = name[:31] + "..."
		}
		lineTotal := item.Price*float64(item.Quantity) - item.Discount
		pdf.CellFormat(30, 6, item.ItemNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("$%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("$%.2f", item.Discount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("$%.2f", lineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Totals", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Order Amount: $%.2f", order.OrderAmount), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Shipping: $%.2f", order.ShippingCharge), "1", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Total Payable: $%.2f", order.TotalPayable), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Received: $%.2f", order.PaymentAmountReceived), "1", 1, "L", false, 0, "")

	if order.OpenBalance > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Balance Due: $%.2f", order.OpenBalance)
	if order.OpenBalance <= 0 {
		balanceText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	if order.PaymentDueDate != nil {
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(190, 6, fmt.Sprintf("Payment due by %s",
			timeutil.FormatEastern(*order.PaymentDueDate, "02-Jan-2006")), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateShipToPDF renders a shipping label sheet for one order.
func (s *DocumentService) GenerateShipToPDF(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	store, err := s.Stores.Get(ctx, order.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("From: %s, %s", s.CompanyName, s.CompanyAddress), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(190, 12, "SHIP TO:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, store.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(190, 8, store.Address, "", 1, "L", false, 0, "")
	pdf.CellFormat(190, 8, fmt.Sprintf("%s, %s %s", store.City, store.State, store.Zip), "", 1, "L", false, 0, "")
	pdf.CellFormat(190, 8, store.Phone, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("PO %s  |  Invoice %s", order.PONumber, order.InvoiceNumber), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDeliverySheetPDF renders a packing list for the driver: items and
// quantities without pricing.
func (s *DocumentService) GenerateDeliverySheetPDF(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	store, err := s.Stores.Get(ctx, order.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Delivery Sheet", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("PO %s  |  Generated: %s", order.PONumber,
		timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Deliver To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, store.Name, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, store.Phone, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("%s, %s, %s %s", store.Address, store.City, store.State, store.Zip), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(40, 7, "Item #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Qty", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var totalQty int
	for _, item := range order.Items {
		totalQty += item.Quantity
		pdf.CellFormat(40, 6, item.ItemNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 6, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", item.Quantity), "1", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%d", totalQty), "1", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, "Received by: ____________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, "Date: ____________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBulkInvoicePDFs renders invoices for every order matching the
// filter, in parallel.
func (s *DocumentService) GenerateBulkInvoicePDFs(ctx context.Context, filter models.OrderFilter) (map[string][]byte, error) {
	orders, err := s.Orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	type pdfResult struct {
		invoice string
		data    []byte
		err     error
	}

	results := make(chan pdfResult, len(orders))
	jobs := make(chan *models.Order, len(orders))

	// Start 5 workers for PDF generation
	var wg sync.WaitGroup
	numWorkers := 5
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for o := range jobs {
				data, err := s.GenerateInvoicePDF(ctx, o.ID)
				results <- pdfResult{invoice: o.InvoiceNumber, data: data, err: err}
			}
		}()
	}

	for _, o := range orders {
		jobs <- o
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pdfs := make(map[string][]byte)
	for r := range results {
		if r.err == nil && r.data != nil {
			pdfs[r.invoice] = r.data
		}
	}
	return pdfs, nil
}

// CreateBulkPDFZip packs rendered invoices into a single ZIP download.
func (s *DocumentService) CreateBulkPDFZip(pdfs map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for invoice, pdfData := range pdfs {
		cleanName := fmt.Sprintf("invoice_%s.pdf", strings.ReplaceAll(invoice, "/", "_"))
		fw, err := zw.Create(cleanName)
		if err != nil {
			continue
		}
		fw.Write(pdfData)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

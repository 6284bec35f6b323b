package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/timeutil"
)

// ExportService writes orders and inventory to spreadsheets for the office.
type ExportService struct {
	Orders   *repositories.OrderRepository
	Products *repositories.ProductRepository
}

func NewExportService(orders *repositories.OrderRepository, products *repositories.ProductRepository) *ExportService {
	return &ExportService{Orders: orders, Products: products}
}

// ExportOrders writes orders matching the filter to an xlsx workbook.
func (s *ExportService) ExportOrders(ctx context.Context, filter models.OrderFilter) ([]byte, error) {
	orders, err := s.Orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice", "PO", "Store", "Order Date", "Due Date",
		"Order Amount", "Shipping", "Total Payable", "Received", "Open Balance",
		"Order Status", "Payment Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, o := range orders {
		dueDate := ""
		if o.PaymentDueDate != nil {
			dueDate = timeutil.FormatEastern(*o.PaymentDueDate, timeutil.DateLayout)
		}
		values := []interface{}{
			o.InvoiceNumber, o.PONumber, o.StoreName,
			timeutil.FormatEastern(o.OrderDate, timeutil.DateLayout), dueDate,
			o.OrderAmount, o.ShippingCharge, o.TotalPayable,
			o.PaymentAmountReceived, o.OpenBalance,
			o.OrderStatus, o.PaymentStatus,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportProducts writes the product catalog with stock levels to an xlsx
// workbook.
func (s *ExportService) ExportProducts(ctx context.Context) ([]byte, error) {
	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Item #", "Name", "Category", "On Hand", "Incoming",
		"Purchase Price", "Sales Price", "Per Case Cost", "Per Unit Shipping"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		values := []interface{}{
			p.ItemNumber, p.Name, p.CategoryName, p.Quantity, p.IncomingQuantity,
			p.PurchasePrice, p.SalesPrice, p.PerCaseCost, p.PerUnitShippingCost,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/timeutil"
)

// balanceTolerance absorbs float drift when comparing money amounts.
const balanceTolerance = 0.01

// txBeginner starts transactions. Satisfied by *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// orderStore is the slice of OrderRepository the order service depends on.
type orderStore interface {
	NextPONumber(ctx context.Context, tx pgx.Tx) (string, error)
	NextInvoiceNumber(ctx context.Context, tx pgx.Tx) (string, error)
	CreateTx(ctx context.Context, tx pgx.Tx, o *models.Order) error
	Get(ctx context.Context, id int) (*models.Order, error)
	GetByPONumber(ctx context.Context, poNumber string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Order, error)
	GetItemsTx(ctx context.Context, tx pgx.Tx, orderID int) ([]models.OrderItem, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, o *models.Order) error
	ReplaceItemsTx(ctx context.Context, tx pgx.Tx, orderID int, items []models.OrderItem) error
	SoftDeleteTx(ctx context.Context, tx pgx.Tx, id int) error
}

// inventoryStore covers the stock movements orders perform.
type inventoryStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Product, error)
	Reserve(ctx context.Context, tx pgx.Tx, productID, qty int) (bool, error)
	Release(ctx context.Context, tx pgx.Tx, productID, qty int) (bool, error)
}

type storeGetter interface {
	Get(ctx context.Context, id int) (*models.Store, error)
}

type OrderService struct {
	DB       txBeginner
	Orders   orderStore
	Products inventoryStore
	Stores   storeGetter
}

func NewOrderService(orders *repositories.OrderRepository, products *repositories.ProductRepository, stores *repositories.StoreRepository) *OrderService {
	return &OrderService{DB: orders.DB, Orders: orders, Products: products, Stores: stores}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orderFinancials holds the derived money fields of an order.
type orderFinancials struct {
	OrderAmount      float64
	DiscountGiven    float64
	TotalPurchase    float64
	ProfitAmount     float64
	ProfitPercentage float64
}

// computeFinancials derives order money fields from line items.
// purchasePrices maps product id to the unit purchase cost in effect.
func computeFinancials(items []models.OrderItem, purchasePrices map[int]float64) orderFinancials {
	var f orderFinancials
	var totalSales float64
	for _, item := range items {
		totalSales += item.Price * float64(item.Quantity)
		f.TotalPurchase += purchasePrices[item.ProductID] * float64(item.Quantity)
		f.DiscountGiven += item.Discount
	}
	f.OrderAmount = totalSales - f.DiscountGiven
	f.ProfitAmount = f.OrderAmount - f.TotalPurchase
	if f.TotalPurchase > 0 {
		f.ProfitPercentage = round2(f.ProfitAmount / f.TotalPurchase * 100)
	}
	return f
}

// paymentStatusFor derives payment status from balance and amount received.
func paymentStatusFor(openBalance, received float64) string {
	switch {
	case received <= 0:
		return models.PaymentStatusNotPaid
	case openBalance > balanceTolerance:
		return models.PaymentStatusPartiallyPaid
	case openBalance < -balanceTolerance:
		return models.PaymentStatusOverPaid
	default:
		return models.PaymentStatusPaid
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := timeutil.ParseInEastern(timeutil.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &t, nil
}

// Create validates the store and every line item, reserves stock, computes
// financials and persists the order. The whole sequence is one transaction:
// any failure leaves inventory untouched and no order behind.
func (s *OrderService) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperror.InvalidOrder("order must contain at least one line item")
	}

	store, err := s.Stores.Get(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.InvalidStore(req.StoreID)
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	if store.IsDeleted {
		return nil, apperror.InvalidStore(req.StoreID)
	}

	orderDate := timeutil.StartOfDay(timeutil.Now())
	if req.OrderDate != "" {
		d, err := parseDate(req.OrderDate)
		if err != nil {
			return nil, apperror.InvalidOrder(err.Error())
		}
		orderDate = *d
	}
	dueDate, err := parseDate(req.PaymentDueDate)
	if err != nil {
		return nil, apperror.InvalidOrder(err.Error())
	}
	shippingDate, err := parseDate(req.ShippingDate)
	if err != nil {
		return nil, apperror.InvalidOrder(err.Error())
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	items := make([]models.OrderItem, 0, len(req.Items))
	purchasePrices := make(map[int]float64)

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperror.InvalidOrder(fmt.Sprintf("quantity must be positive for product %d", line.ProductID))
		}
		product, err := s.Products.GetForUpdate(ctx, tx, line.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperror.ProductNotFound(line.ProductID)
			}
			return nil, fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
		}
		if product.IsDeleted {
			return nil, apperror.ProductNotFound(line.ProductID)
		}
		if product.Quantity < line.Quantity {
			return nil, apperror.InsufficientStock(product.Name, product.Quantity, line.Quantity)
		}

		ok, err := s.Products.Reserve(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve stock for product %d: %w", line.ProductID, err)
		}
		if !ok {
			return nil, apperror.InsufficientStock(product.Name, product.Quantity, line.Quantity)
		}

		price := line.Price
		if price == 0 {
			price = product.SalesPrice
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
			Discount:  line.Discount,
		})
		purchasePrices[line.ProductID] = product.PurchasePrice
	}

	fin := computeFinancials(items, purchasePrices)
	totalPayable := fin.OrderAmount + req.ShippingCharge
	openBalance := totalPayable - req.PaymentAmountReceived

	poNumber, err := s.Orders.NextPONumber(ctx, tx)
	if err != nil {
		return nil, err
	}
	invoiceNumber, err := s.Orders.NextInvoiceNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		InvoiceNumber:         invoiceNumber,
		PONumber:              poNumber,
		StoreID:               req.StoreID,
		OrderDate:             orderDate,
		PaymentDueDate:        dueDate,
		ShippingDate:          shippingDate,
		Items:                 items,
		OrderAmount:           fin.OrderAmount,
		ShippingCharge:        req.ShippingCharge,
		TotalPayable:          totalPayable,
		PaymentAmountReceived: req.PaymentAmountReceived,
		DiscountGiven:         fin.DiscountGiven,
		OpenBalance:           openBalance,
		ProfitAmount:          fin.ProfitAmount,
		ProfitPercentage:      fin.ProfitPercentage,
		OrderStatus:           models.OrderStatusVerified,
		PaymentStatus:         paymentStatusFor(openBalance, req.PaymentAmountReceived),
	}

	if err := s.Orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateOrderCaches(ctx)
	return s.Orders.Get(ctx, order.ID)
}

// Update edits an order. Cancelled orders are immutable. Supplying Items
// triggers a re-price: financials are recomputed from current product
// prices, not the prices recorded at order time. A transition from
// verified or completed to cancelled restores every reserved quantity,
// atomically with the status change.
func (s *OrderService) Update(ctx context.Context, id int, req *models.UpdateOrderRequest) (*models.Order, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.Orders.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.OrderNotFound(id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.IsDeleted {
		return nil, apperror.OrderNotFound(id)
	}
	if order.OrderStatus == models.OrderStatusCancelled {
		return nil, apperror.ImmutableOrder(id)
	}

	newStatus := order.OrderStatus
	if req.OrderStatus != nil {
		switch *req.OrderStatus {
		case models.OrderStatusVerified, models.OrderStatusCompleted, models.OrderStatusCancelled:
			newStatus = *req.OrderStatus
		default:
			return nil, apperror.InvalidOrder(fmt.Sprintf("unknown order status %q", *req.OrderStatus))
		}
	}

	// Restore inventory before the cancel lands; both ride the same
	// transaction so a restore failure aborts the status change too.
	if newStatus == models.OrderStatusCancelled {
		items, err := s.Orders.GetItemsTx(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load order items: %w", err)
		}
		for _, item := range items {
			ok, err := s.Products.Release(ctx, tx, item.ProductID, item.Quantity)
			if err != nil || !ok {
				return nil, apperror.InventoryRestoreFailed(item.ProductID)
			}
		}
	}

	if req.Items != nil {
		// Re-price: take current product prices, not the order's snapshot.
		items := make([]models.OrderItem, 0, len(*req.Items))
		purchasePrices := make(map[int]float64)
		for _, line := range *req.Items {
			if line.Quantity <= 0 {
				return nil, apperror.InvalidOrder(fmt.Sprintf("quantity must be positive for product %d", line.ProductID))
			}
			product, err := s.Products.GetForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, apperror.ProductNotFound(line.ProductID)
				}
				return nil, fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
			}
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     product.SalesPrice,
				Discount:  line.Discount,
			})
			purchasePrices[line.ProductID] = product.PurchasePrice
		}

		fin := computeFinancials(items, purchasePrices)
		order.OrderAmount = fin.OrderAmount
		order.DiscountGiven = fin.DiscountGiven
		order.ProfitAmount = fin.ProfitAmount
		order.ProfitPercentage = fin.ProfitPercentage

		if err := s.Orders.ReplaceItemsTx(ctx, tx, id, items); err != nil {
			return nil, err
		}
		order.Items = items
	}

	if req.PaymentDueDate != nil {
		d, err := parseDate(*req.PaymentDueDate)
		if err != nil {
			return nil, apperror.InvalidOrder(err.Error())
		}
		order.PaymentDueDate = d
	}
	if req.ShippingDate != nil {
		d, err := parseDate(*req.ShippingDate)
		if err != nil {
			return nil, apperror.InvalidOrder(err.Error())
		}
		order.ShippingDate = d
	}
	if req.ShippingCharge != nil {
		order.ShippingCharge = *req.ShippingCharge
	}
	if req.CreditAmount != nil {
		order.CreditAmount = req.CreditAmount
	}
	if req.CreditDate != nil {
		d, err := parseDate(*req.CreditDate)
		if err != nil {
			return nil, apperror.InvalidOrder(err.Error())
		}
		order.CreditDate = d
	}
	if req.ReminderPaused != nil {
		order.ReminderPaused = *req.ReminderPaused
	}
	if req.DeliveryDoc != nil {
		order.DeliveryDoc = *req.DeliveryDoc
	}

	if req.PaymentAmountReceived != nil {
		order.PaymentAmountReceived += *req.PaymentAmountReceived
	}
	order.TotalPayable = order.OrderAmount + order.ShippingCharge
	order.OpenBalance = order.TotalPayable - order.PaymentAmountReceived
	order.PaymentStatus = paymentStatusFor(order.OpenBalance, order.PaymentAmountReceived)
	order.OrderStatus = newStatus

	if err := s.Orders.UpdateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateOrderCaches(ctx)
	return s.Orders.Get(ctx, id)
}

// Delete soft-deletes an order. Verified orders still hold reserved stock,
// so their quantities go back to the products first; completed and
// cancelled orders are flagged without inventory changes.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	order, err := s.Orders.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.OrderNotFound(id)
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order.IsDeleted {
		return apperror.OrderNotFound(id)
	}

	if order.OrderStatus == models.OrderStatusVerified {
		items, err := s.Orders.GetItemsTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		for _, item := range items {
			ok, err := s.Products.Release(ctx, tx, item.ProductID, item.Quantity)
			if err != nil || !ok {
				return apperror.InventoryRestoreFailed(item.ProductID)
			}
		}
	}

	if err := s.Orders.SoftDeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	cache.InvalidateOrderCaches(ctx)
	return nil
}

func (s *OrderService) Get(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.Orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.OrderNotFound(id)
		}
		return nil, err
	}
	if order.IsDeleted {
		return nil, apperror.OrderNotFound(id)
	}
	return order, nil
}

func (s *OrderService) GetByPONumber(ctx context.Context, poNumber string) (*models.Order, error) {
	order, err := s.Orders.GetByPONumber(ctx, poNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.OrderNotFound()
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	return s.Orders.List(ctx, filter)
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/models"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// NextPONumber draws the next purchase-order number from a database
// sequence so concurrent creates cannot collide.
func (r *OrderRepository) NextPONumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var nextNum int
	err := tx.QueryRow(ctx, "SELECT nextval('po_number_seq')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next PO number: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", nextNum), nil
}

// NextInvoiceNumber draws the next invoice number from a database sequence.
func (r *OrderRepository) NextInvoiceNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var nextNum int
	err := tx.QueryRow(ctx, "SELECT nextval('invoice_number_seq')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", nextNum), nil
}

// CreateTx inserts the order and its line items inside the caller's
// transaction.
func (r *OrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, o *models.Order) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO orders(invoice_number, po_number, store_id, order_date, payment_due_date,
                shipping_date, order_amount, shipping_charge, total_payable, payment_amount_received,
                discount_given, open_balance, profit_amount, profit_percentage, order_status, payment_status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
         RETURNING id, created_at, updated_at`,
		o.InvoiceNumber, o.PONumber, o.StoreID, o.OrderDate, o.PaymentDueDate,
		o.ShippingDate, o.OrderAmount, o.ShippingCharge, o.TotalPayable, o.PaymentAmountReceived,
		o.DiscountGiven, o.OpenBalance, o.ProfitAmount, o.ProfitPercentage, o.OrderStatus, o.PaymentStatus,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.DuplicateInvoice(o.InvoiceNumber)
		}
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, product_id, quantity, price, discount)
             VALUES($1, $2, $3, $4, $5)
             RETURNING id`,
			o.ID, item.ProductID, item.Quantity, item.Price, item.Discount,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
		item.OrderID = o.ID
	}

	return nil
}

const orderColumns = `o.id, o.invoice_number, o.po_number, o.store_id, o.order_date,
        o.payment_due_date, o.shipping_date, o.order_amount, o.shipping_charge, o.total_payable,
        o.payment_amount_received, o.discount_given, o.open_balance, o.profit_amount,
        o.profit_percentage, o.order_status, o.payment_status, o.credit_amount, o.credit_date,
        o.early_reminder_sent, o.reminder_number, o.reminder_paused, COALESCE(o.delivery_doc, '') as delivery_doc,
        o.is_deleted, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(&o.ID, &o.InvoiceNumber, &o.PONumber, &o.StoreID, &o.OrderDate,
		&o.PaymentDueDate, &o.ShippingDate, &o.OrderAmount, &o.ShippingCharge, &o.TotalPayable,
		&o.PaymentAmountReceived, &o.DiscountGiven, &o.OpenBalance, &o.ProfitAmount,
		&o.ProfitPercentage, &o.OrderStatus, &o.PaymentStatus, &o.CreditAmount, &o.CreditDate,
		&o.EarlyReminderSent, &o.ReminderNumber, &o.ReminderPaused, &o.DeliveryDoc,
		&o.IsDeleted, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+`, COALESCE(s.name, '') as store_name
         FROM orders o
         LEFT JOIN stores s ON o.store_id = s.id
         WHERE o.id=$1`, id)

	var o models.Order
	err := row.Scan(&o.ID, &o.InvoiceNumber, &o.PONumber, &o.StoreID, &o.OrderDate,
		&o.PaymentDueDate, &o.ShippingDate, &o.OrderAmount, &o.ShippingCharge, &o.TotalPayable,
		&o.PaymentAmountReceived, &o.DiscountGiven, &o.OpenBalance, &o.ProfitAmount,
		&o.ProfitPercentage, &o.OrderStatus, &o.PaymentStatus, &o.CreditAmount, &o.CreditDate,
		&o.EarlyReminderSent, &o.ReminderNumber, &o.ReminderPaused, &o.DeliveryDoc,
		&o.IsDeleted, &o.CreatedAt, &o.UpdatedAt, &o.StoreName)
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepository) GetByPONumber(ctx context.Context, poNumber string) (*models.Order, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`SELECT id FROM orders WHERE po_number=$1 AND is_deleted=FALSE`, poNumber).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *OrderRepository) getItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, '') as product_name,
                COALESCE(p.item_number, '') as item_number, oi.quantity, oi.price, oi.discount
         FROM order_items oi
         LEFT JOIN products p ON oi.product_id = p.id
         WHERE oi.order_id=$1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ItemNumber, &item.Quantity, &item.Price, &item.Discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `, COALESCE(s.name, '') as store_name
         FROM orders o
         LEFT JOIN stores s ON o.store_id = s.id
         WHERE o.is_deleted = FALSE`
	args := []interface{}{}

	if filter.StoreID > 0 {
		args = append(args, filter.StoreID)
		query += fmt.Sprintf(" AND o.store_id=$%d", len(args))
	}
	if filter.OrderStatus != "" {
		args = append(args, filter.OrderStatus)
		query += fmt.Sprintf(" AND o.order_status=$%d", len(args))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		query += fmt.Sprintf(" AND o.payment_status=$%d", len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += fmt.Sprintf(" AND o.order_date >= $%d", len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += fmt.Sprintf(" AND o.order_date <= $%d", len(args))
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.InvoiceNumber, &o.PONumber, &o.StoreID, &o.OrderDate,
			&o.PaymentDueDate, &o.ShippingDate, &o.OrderAmount, &o.ShippingCharge, &o.TotalPayable,
			&o.PaymentAmountReceived, &o.DiscountGiven, &o.OpenBalance, &o.ProfitAmount,
			&o.ProfitPercentage, &o.OrderStatus, &o.PaymentStatus, &o.CreditAmount, &o.CreditDate,
			&o.EarlyReminderSent, &o.ReminderNumber, &o.ReminderPaused, &o.DeliveryDoc,
			&o.IsDeleted, &o.CreatedAt, &o.UpdatedAt, &o.StoreName)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, nil
}

// GetForUpdate row-locks an order inside the caller's transaction.
func (r *OrderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Order, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id=$1 FOR UPDATE`, id)
	var o models.Order
	if err := scanOrder(row, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetManyForUpdate row-locks several orders at once. Orders are returned in
// id order; missing or deleted ids are simply absent from the result.
func (r *OrderRepository) GetManyForUpdate(ctx context.Context, tx pgx.Tx, ids []int) ([]*models.Order, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+orderColumns+` FROM orders o
         WHERE o.id = ANY($1) AND o.is_deleted = FALSE
         ORDER BY o.id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, nil
}

// GetItemsTx reads line items inside the caller's transaction.
func (r *OrderRepository) GetItemsTx(ctx context.Context, tx pgx.Tx, orderID int) ([]models.OrderItem, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price, discount
         FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.Price, &item.Discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateTx writes every mutable order field inside the caller's transaction.
func (r *OrderRepository) UpdateTx(ctx context.Context, tx pgx.Tx, o *models.Order) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET payment_due_date=$1, shipping_date=$2, order_amount=$3,
                shipping_charge=$4, total_payable=$5, payment_amount_received=$6, discount_given=$7,
                open_balance=$8, profit_amount=$9, profit_percentage=$10, order_status=$11,
                payment_status=$12, credit_amount=$13, credit_date=$14, reminder_paused=$15,
                delivery_doc=$16, updated_at=CURRENT_TIMESTAMP
         WHERE id=$17`,
		o.PaymentDueDate, o.ShippingDate, o.OrderAmount,
		o.ShippingCharge, o.TotalPayable, o.PaymentAmountReceived, o.DiscountGiven,
		o.OpenBalance, o.ProfitAmount, o.ProfitPercentage, o.OrderStatus,
		o.PaymentStatus, o.CreditAmount, o.CreditDate, o.ReminderPaused,
		o.DeliveryDoc, o.ID)
	return err
}

// ReplaceItemsTx swaps an order's line items during a re-price update.
func (r *OrderRepository) ReplaceItemsTx(ctx context.Context, tx pgx.Tx, orderID int, items []models.OrderItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, product_id, quantity, price, discount)
             VALUES($1, $2, $3, $4, $5)
             RETURNING id`,
			orderID, item.ProductID, item.Quantity, item.Price, item.Discount,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
		item.OrderID = orderID
	}
	return nil
}

// ApplyPaymentTx updates the payment-derived fields of one order.
func (r *OrderRepository) ApplyPaymentTx(ctx context.Context, tx pgx.Tx, orderID int, received, openBalance float64, paymentStatus string) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET payment_amount_received=$1, open_balance=$2, payment_status=$3,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$4`,
		received, openBalance, paymentStatus, orderID)
	return err
}

// SoftDeleteTx flags an order deleted inside the caller's transaction.
func (r *OrderRepository) SoftDeleteTx(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET is_deleted=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

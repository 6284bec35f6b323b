package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

// ReminderRepository reads and advances per-order reminder state for the
// payment-due batch job.
type ReminderRepository struct {
	DB *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{DB: db}
}

// ListCandidates returns every order the batch job may need to notice:
// not deleted, not cancelled, not fully paid, carrying an open balance and a
// due date, and not paused by an operator. Classification by due-date window
// happens in the service.
func (r *ReminderRepository) ListCandidates(ctx context.Context) ([]*models.ReminderOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT o.id, o.invoice_number, o.po_number, o.store_id,
                COALESCE(s.name, '') as store_name, COALESCE(s.email, '') as store_email,
                o.payment_due_date, o.open_balance, o.early_reminder_sent, o.reminder_number
         FROM orders o
         JOIN stores s ON o.store_id = s.id
         WHERE o.is_deleted = FALSE
           AND s.is_deleted = FALSE
           AND o.order_status <> 'cancelled'
           AND o.payment_status NOT IN ('paid', 'overPaid')
           AND o.open_balance > 0
           AND o.reminder_paused = FALSE
           AND o.payment_due_date IS NOT NULL
         ORDER BY o.store_id, o.payment_due_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ReminderOrder
	for rows.Next() {
		var o models.ReminderOrder
		err := rows.Scan(&o.OrderID, &o.InvoiceNumber, &o.PONumber, &o.StoreID,
			&o.StoreName, &o.StoreEmail, &o.PaymentDueDate, &o.OpenBalance,
			&o.EarlyReminderSent, &o.ReminderNumber)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, nil
}

// MarkEarlyReminderSent flips the once-only early-reminder flag.
func (r *ReminderRepository) MarkEarlyReminderSent(ctx context.Context, orderIDs []int) error {
	if len(orderIDs) == 0 {
		return nil
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET early_reminder_sent=TRUE, updated_at=CURRENT_TIMESTAMP
         WHERE id = ANY($1)`, orderIDs)
	return err
}

// IncrementReminderNumber advances the overdue escalation counter.
func (r *ReminderRepository) IncrementReminderNumber(ctx context.Context, orderIDs []int) error {
	if len(orderIDs) == 0 {
		return nil
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET reminder_number = reminder_number + 1, updated_at=CURRENT_TIMESTAMP
         WHERE id = ANY($1)`, orderIDs)
	return err
}

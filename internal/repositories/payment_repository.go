package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// CreateTx inserts the payment row and its order links inside the caller's
// transaction, alongside the order balance updates.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx pgx.Tx, p *models.Payment) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO payments(store_id, method, amount, payment_date, check_number, check_image_url)
         VALUES($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
         RETURNING id, created_at`,
		p.StoreID, p.Method, p.Amount, p.PaymentDate, p.CheckNumber, p.CheckImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	for _, orderID := range p.OrderIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO payment_orders(payment_id, order_id) VALUES($1, $2)`,
			p.ID, orderID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT p.id, p.store_id, COALESCE(s.name, '') as store_name, p.method, p.amount,
                p.payment_date, COALESCE(p.check_number, '') as check_number,
                COALESCE(p.check_image_url, '') as check_image_url, p.is_deleted, p.created_at
         FROM payments p
         LEFT JOIN stores s ON p.store_id = s.id
         WHERE p.id=$1`, id)

	var p models.Payment
	err := row.Scan(&p.ID, &p.StoreID, &p.StoreName, &p.Method, &p.Amount,
		&p.PaymentDate, &p.CheckNumber, &p.CheckImageURL, &p.IsDeleted, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	orderIDs, err := r.getOrderIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.OrderIDs = orderIDs
	return &p, nil
}

func (r *PaymentRepository) getOrderIDs(ctx context.Context, paymentID int) ([]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT order_id FROM payment_orders WHERE payment_id=$1 ORDER BY order_id`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns non-deleted payments, optionally filtered by store.
func (r *PaymentRepository) List(ctx context.Context, storeID int) ([]*models.Payment, error) {
	query := `SELECT p.id, p.store_id, COALESCE(s.name, '') as store_name, p.method, p.amount,
                p.payment_date, COALESCE(p.check_number, '') as check_number,
                COALESCE(p.check_image_url, '') as check_image_url, p.is_deleted, p.created_at
         FROM payments p
         LEFT JOIN stores s ON p.store_id = s.id
         WHERE p.is_deleted = FALSE`
	args := []interface{}{}
	if storeID > 0 {
		args = append(args, storeID)
		query += " AND p.store_id=$1"
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.StoreID, &p.StoreName, &p.Method, &p.Amount,
			&p.PaymentDate, &p.CheckNumber, &p.CheckImageURL, &p.IsDeleted, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}

	for _, p := range payments {
		orderIDs, err := r.getOrderIDs(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.OrderIDs = orderIDs
	}
	return payments, nil
}

func (r *PaymentRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE payments SET is_deleted=TRUE WHERE id=$1`, id)
	return err
}

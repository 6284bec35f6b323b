package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/timeutil"
)

// paymentStore is the slice of PaymentRepository the payment service uses.
type paymentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, p *models.Payment) error
	Get(ctx context.Context, id int) (*models.Payment, error)
	List(ctx context.Context, storeID int) ([]*models.Payment, error)
	SoftDelete(ctx context.Context, id int) error
}

// payableOrders covers the order-side operations of recording a payment.
type payableOrders interface {
	GetManyForUpdate(ctx context.Context, tx pgx.Tx, ids []int) ([]*models.Order, error)
	ApplyPaymentTx(ctx context.Context, tx pgx.Tx, orderID int, received, openBalance float64, paymentStatus string) error
}

type PaymentService struct {
	DB       txBeginner
	Payments paymentStore
	Orders   payableOrders
}

func NewPaymentService(payments *repositories.PaymentRepository, orders *repositories.OrderRepository) *PaymentService {
	return &PaymentService{DB: payments.DB, Payments: payments, Orders: orders}
}

// Create records a payment against one or more orders. A single-order
// payment may be partial but can never exceed the order's open balance. A
// multi-order payment must equal the combined open balance exactly and
// settles every order in full. Balance updates and the payment record land
// in one transaction.
func (s *PaymentService) Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, apperror.InvalidAmount()
	}
	switch req.Method {
	case models.PaymentMethodCheck:
		if req.CheckNumber == "" || req.CheckImageURL == "" {
			return nil, apperror.MissingCheckDetails()
		}
	case models.PaymentMethodCash, models.PaymentMethodCC, models.PaymentMethodDonation:
	default:
		return nil, apperror.InvalidPaymentMethod(req.Method)
	}
	orderIDs := dedupeIDs(req.OrderIDs)
	if len(orderIDs) == 0 {
		return nil, apperror.OrderNotFound()
	}

	paymentDate := timeutil.StartOfDay(timeutil.Now())
	if req.PaymentDate != "" {
		d, err := timeutil.ParseInEastern(timeutil.DateLayout, req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid payment date %q: %w", req.PaymentDate, err)
		}
		paymentDate = d
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	orders, err := s.Orders.GetManyForUpdate(ctx, tx, orderIDs)
	if err != nil {
		return nil, err
	}
	if len(orders) != len(orderIDs) {
		missing := missingOrderIDs(orderIDs, orders)
		return nil, apperror.OrderNotFound(missing...)
	}
	for _, o := range orders {
		if o.StoreID != req.StoreID {
			return nil, apperror.OrderNotFound(o.ID)
		}
	}

	if len(orders) == 1 {
		order := orders[0]
		if req.Amount > order.OpenBalance+balanceTolerance {
			return nil, apperror.AmountExceedsBalance(req.Amount, order.OpenBalance)
		}
		received := order.PaymentAmountReceived + req.Amount
		openBalance := order.TotalPayable - received
		status := paymentStatusFor(openBalance, received)
		if err := s.Orders.ApplyPaymentTx(ctx, tx, order.ID, received, openBalance, status); err != nil {
			return nil, err
		}
	} else {
		var total float64
		for _, o := range orders {
			total += o.OpenBalance
		}
		if math.Abs(req.Amount-total) > balanceTolerance {
			return nil, apperror.AmountMismatch(req.Amount, total)
		}
		for _, o := range orders {
			received := o.PaymentAmountReceived + o.OpenBalance
			if err := s.Orders.ApplyPaymentTx(ctx, tx, o.ID, received, 0, models.PaymentStatusPaid); err != nil {
				return nil, err
			}
		}
	}

	payment := &models.Payment{
		StoreID:       req.StoreID,
		OrderIDs:      orderIDs,
		Method:        req.Method,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		CheckNumber:   req.CheckNumber,
		CheckImageURL: req.CheckImageURL,
	}
	if err := s.Payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateOrderCaches(ctx)
	return s.Payments.Get(ctx, payment.ID)
}

// dedupeIDs drops repeated ids, keeping first-seen order.
func dedupeIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingOrderIDs(requested []int, found []*models.Order) []int {
	seen := make(map[int]bool, len(found))
	for _, o := range found {
		seen[o.ID] = true
	}
	var missing []int
	for _, id := range requested {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func (s *PaymentService) Get(ctx context.Context, id int) (*models.Payment, error) {
	p, err := s.Payments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.PaymentNotFound(id)
		}
		return nil, err
	}
	if p.IsDeleted {
		return nil, apperror.PaymentNotFound(id)
	}
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, storeID int) ([]*models.Payment, error) {
	return s.Payments.List(ctx, storeID)
}

// Delete soft-deletes the payment record. Order balances are left as they
// are; a wrong payment is corrected by editing the order.
func (s *PaymentService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Payments.SoftDelete(ctx, id)
}

package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"orderflow-backend/internal/models"
)

// In-memory fakes backing the service tests. fakeTx satisfies pgx.Tx via
// the embedded interface; only Commit and Rollback are ever reached.

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type fakeInventory struct {
	products map[int]*models.Product
}

func (f *fakeInventory) GetForUpdate(_ context.Context, _ pgx.Tx, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInventory) Reserve(_ context.Context, _ pgx.Tx, productID, qty int) (bool, error) {
	p, ok := f.products[productID]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (f *fakeInventory) Release(_ context.Context, _ pgx.Tx, productID, qty int) (bool, error) {
	p, ok := f.products[productID]
	if !ok {
		return false, nil
	}
	p.Quantity += qty
	return true, nil
}

type fakeStores struct {
	stores map[int]*models.Store
}

func (f *fakeStores) Get(_ context.Context, id int) (*models.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

type fakeOrders struct {
	orders map[int]*models.Order
	items  map[int][]models.OrderItem
	nextID int
	seq    int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders: make(map[int]*models.Order),
		items:  make(map[int][]models.OrderItem),
	}
}

func (f *fakeOrders) NextPONumber(_ context.Context, _ pgx.Tx) (string, error) {
	f.seq++
	return fmt.Sprintf("ORD-%06d", f.seq), nil
}

func (f *fakeOrders) NextInvoiceNumber(_ context.Context, _ pgx.Tx) (string, error) {
	return fmt.Sprintf("INV-%06d", f.seq), nil
}

func (f *fakeOrders) CreateTx(_ context.Context, _ pgx.Tx, o *models.Order) error {
	f.nextID++
	o.ID = f.nextID
	cp := *o
	f.orders[o.ID] = &cp
	f.items[o.ID] = append([]models.OrderItem(nil), o.Items...)
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), f.items[id]...)
	return &cp, nil
}

func (f *fakeOrders) GetByPONumber(_ context.Context, poNumber string) (*models.Order, error) {
	for id, o := range f.orders {
		if o.PONumber == poNumber && !o.IsDeleted {
			return f.Get(context.Background(), id)
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrders) List(_ context.Context, _ models.OrderFilter) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if !o.IsDeleted {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetForUpdate(_ context.Context, _ pgx.Tx, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	cp.Items = nil
	return &cp, nil
}

func (f *fakeOrders) GetItemsTx(_ context.Context, _ pgx.Tx, orderID int) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrders) UpdateTx(_ context.Context, _ pgx.Tx, o *models.Order) error {
	cp := *o
	cp.Items = nil
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) ReplaceItemsTx(_ context.Context, _ pgx.Tx, orderID int, items []models.OrderItem) error {
	f.items[orderID] = append([]models.OrderItem(nil), items...)
	return nil
}

func (f *fakeOrders) SoftDeleteTx(_ context.Context, _ pgx.Tx, id int) error {
	f.orders[id].IsDeleted = true
	return nil
}

func (f *fakeOrders) GetManyForUpdate(_ context.Context, _ pgx.Tx, ids []int) ([]*models.Order, error) {
	var out []*models.Order
	for _, id := range ids {
		o, ok := f.orders[id]
		if !ok || o.IsDeleted {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeOrders) ApplyPaymentTx(_ context.Context, _ pgx.Tx, orderID int, received, openBalance float64, paymentStatus string) error {
	o := f.orders[orderID]
	o.PaymentAmountReceived = received
	o.OpenBalance = openBalance
	o.PaymentStatus = paymentStatus
	return nil
}

type fakePayments struct {
	payments map[int]*models.Payment
	nextID   int
}

func newFakePayments() *fakePayments {
	return &fakePayments{payments: make(map[int]*models.Payment)}
}

func (f *fakePayments) CreateTx(_ context.Context, _ pgx.Tx, p *models.Payment) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	cp.OrderIDs = append([]int(nil), p.OrderIDs...)
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePayments) Get(_ context.Context, id int) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) List(_ context.Context, storeID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.IsDeleted {
			continue
		}
		if storeID > 0 && p.StoreID != storeID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePayments) SoftDelete(_ context.Context, id int) error {
	f.payments[id].IsDeleted = true
	return nil
}

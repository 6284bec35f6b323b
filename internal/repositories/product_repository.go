package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(item_number, name, category_id, quantity, purchase_price, sales_price)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		p.ItemNumber, p.Name, p.CategoryID, p.Quantity, p.PurchasePrice, p.SalesPrice,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT p.id, p.item_number, p.name, p.category_id, COALESCE(c.name, '') as category_name,
                p.quantity, p.incoming_quantity, p.purchase_price, p.sales_price,
                p.per_case_cost, p.per_unit_shipping_cost, p.is_deleted, p.created_at, p.updated_at
         FROM products p
         LEFT JOIN categories c ON p.category_id = c.id
         WHERE p.id=$1`, id)

	var p models.Product
	err := row.Scan(&p.ID, &p.ItemNumber, &p.Name, &p.CategoryID, &p.CategoryName,
		&p.Quantity, &p.IncomingQuantity, &p.PurchasePrice, &p.SalesPrice,
		&p.PerCaseCost, &p.PerUnitShippingCost, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProductRepository) GetByItemNumber(ctx context.Context, itemNumber string) (*models.Product, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, item_number, name, category_id, quantity, incoming_quantity,
                purchase_price, sales_price, per_case_cost, per_unit_shipping_cost,
                is_deleted, created_at, updated_at
         FROM products WHERE item_number=$1`, itemNumber)

	var p models.Product
	err := row.Scan(&p.ID, &p.ItemNumber, &p.Name, &p.CategoryID, &p.Quantity,
		&p.IncomingQuantity, &p.PurchasePrice, &p.SalesPrice, &p.PerCaseCost,
		&p.PerUnitShippingCost, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT p.id, p.item_number, p.name, p.category_id, COALESCE(c.name, '') as category_name,
                p.quantity, p.incoming_quantity, p.purchase_price, p.sales_price,
                p.per_case_cost, p.per_unit_shipping_cost, p.is_deleted, p.created_at, p.updated_at
         FROM products p
         LEFT JOIN categories c ON p.category_id = c.id
         WHERE p.is_deleted = FALSE
         ORDER BY p.item_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.ItemNumber, &p.Name, &p.CategoryID, &p.CategoryName,
			&p.Quantity, &p.IncomingQuantity, &p.PurchasePrice, &p.SalesPrice,
			&p.PerCaseCost, &p.PerUnitShippingCost, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET name=$1, category_id=$2, purchase_price=$3, sales_price=$4,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$5`,
		p.Name, p.CategoryID, p.PurchasePrice, p.SalesPrice, p.ID)
	return err
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET is_deleted=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

// Ledger operations. Every method below takes the caller's transaction and
// never commits on its own; stock changes ride the enclosing order, payment
// or container transaction.

// GetForUpdate row-locks a product so concurrent stock checks serialize.
func (r *ProductRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Product, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, item_number, name, quantity, incoming_quantity, purchase_price, sales_price, is_deleted
         FROM products WHERE id=$1 FOR UPDATE`, id)

	var p models.Product
	err := row.Scan(&p.ID, &p.ItemNumber, &p.Name, &p.Quantity, &p.IncomingQuantity,
		&p.PurchasePrice, &p.SalesPrice, &p.IsDeleted)
	return &p, err
}

// Reserve decrements on-hand stock. Returns false when the product does not
// have qty units available; the guarded UPDATE means two concurrent orders
// cannot both take the last unit.
func (r *ProductRepository) Reserve(ctx context.Context, tx pgx.Tx, productID, qty int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity - $1, updated_at=CURRENT_TIMESTAMP
         WHERE id=$2 AND quantity >= $1`, qty, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Release puts reserved stock back on-hand (order cancellation or deletion).
func (r *ProductRepository) Release(ctx context.Context, tx pgx.Tx, productID, qty int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity + $1, updated_at=CURRENT_TIMESTAMP
         WHERE id=$2`, qty, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReceiveOnHand applies an arrived container line: stock and pricing both
// come from the shipment.
func (r *ProductRepository) ReceiveOnHand(ctx context.Context, tx pgx.Tx, item models.ContainerItem) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity + $1, purchase_price=$2, sales_price=$3,
                per_case_cost=$4, per_unit_shipping_cost=$5, updated_at=CURRENT_TIMESTAMP
         WHERE item_number=$6`,
		item.Quantity, item.PurchasePrice, item.SalesPrice,
		item.PerCaseCost, item.PerUnitShippingCost, item.ItemNumber)
	return err
}

// ReceiveIncoming applies an on-the-way container line to in-transit stock.
func (r *ProductRepository) ReceiveIncoming(ctx context.Context, tx pgx.Tx, item models.ContainerItem) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET incoming_quantity = incoming_quantity + $1, purchase_price=$2,
                sales_price=$3, per_case_cost=$4, per_unit_shipping_cost=$5,
                updated_at=CURRENT_TIMESTAMP
         WHERE item_number=$6`,
		item.Quantity, item.PurchasePrice, item.SalesPrice,
		item.PerCaseCost, item.PerUnitShippingCost, item.ItemNumber)
	return err
}

// MoveIncomingToOnHand reconciles stock when a container arrives.
func (r *ProductRepository) MoveIncomingToOnHand(ctx context.Context, tx pgx.Tx, itemNumber string, qty int) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity + $1,
                incoming_quantity = GREATEST(incoming_quantity - $1, 0),
                updated_at=CURRENT_TIMESTAMP
         WHERE item_number=$2`, qty, itemNumber)
	return err
}

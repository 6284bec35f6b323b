package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

type ContainerRepository struct {
	DB *pgxpool.Pool
}

func NewContainerRepository(db *pgxpool.Pool) *ContainerRepository {
	return &ContainerRepository{DB: db}
}

// NextContainerNumber draws the next container number from a database
// sequence.
func (r *ContainerRepository) NextContainerNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var nextNum int
	err := tx.QueryRow(ctx, "SELECT nextval('container_number_seq')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next container number: %w", err)
	}
	return fmt.Sprintf("CON-%06d", nextNum), nil
}

// CreateTx inserts the container and its lines inside the caller's
// transaction, alongside the inventory increments.
func (r *ContainerRepository) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Container) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO containers(container_number, container_status, shipping_cost)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		c.ContainerNumber, c.ContainerStatus, c.ShippingCost,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range c.Items {
		item := &c.Items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO container_items(container_id, item_number, quantity, purchase_price,
                    sales_price, per_case_cost, per_unit_shipping_cost)
             VALUES($1, $2, $3, $4, $5, $6, $7)
             RETURNING id`,
			c.ID, item.ItemNumber, item.Quantity, item.PurchasePrice,
			item.SalesPrice, item.PerCaseCost, item.PerUnitShippingCost,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
		item.ContainerID = c.ID
	}

	return nil
}

func (r *ContainerRepository) Get(ctx context.Context, id int) (*models.Container, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, container_number, container_status, shipping_cost, is_deleted, created_at, updated_at
         FROM containers WHERE id=$1`, id)

	var c models.Container
	err := row.Scan(&c.ID, &c.ContainerNumber, &c.ContainerStatus, &c.ShippingCost,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *ContainerRepository) getItems(ctx context.Context, containerID int) ([]models.ContainerItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, container_id, item_number, quantity, purchase_price, sales_price,
                per_case_cost, per_unit_shipping_cost
         FROM container_items WHERE container_id=$1 ORDER BY id`, containerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ContainerItem
	for rows.Next() {
		var item models.ContainerItem
		err := rows.Scan(&item.ID, &item.ContainerID, &item.ItemNumber, &item.Quantity,
			&item.PurchasePrice, &item.SalesPrice, &item.PerCaseCost, &item.PerUnitShippingCost)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *ContainerRepository) List(ctx context.Context) ([]*models.Container, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, container_number, container_status, shipping_cost, is_deleted, created_at, updated_at
         FROM containers WHERE is_deleted = FALSE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []*models.Container
	for rows.Next() {
		var c models.Container
		err := rows.Scan(&c.ID, &c.ContainerNumber, &c.ContainerStatus, &c.ShippingCost,
			&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		containers = append(containers, &c)
	}

	for _, c := range containers {
		items, err := r.getItems(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Items = items
	}
	return containers, nil
}

// GetForUpdate row-locks a container inside the caller's transaction.
func (r *ContainerRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Container, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, container_number, container_status, shipping_cost, is_deleted, created_at, updated_at
         FROM containers WHERE id=$1 FOR UPDATE`, id)

	var c models.Container
	err := row.Scan(&c.ID, &c.ContainerNumber, &c.ContainerStatus, &c.ShippingCost,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, container_id, item_number, quantity, purchase_price, sales_price,
                per_case_cost, per_unit_shipping_cost
         FROM container_items WHERE container_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ContainerItem
		err := rows.Scan(&item.ID, &item.ContainerID, &item.ItemNumber, &item.Quantity,
			&item.PurchasePrice, &item.SalesPrice, &item.PerCaseCost, &item.PerUnitShippingCost)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	return &c, nil
}

// UpdateTx writes container status and shipping cost inside the caller's
// transaction.
func (r *ContainerRepository) UpdateTx(ctx context.Context, tx pgx.Tx, c *models.Container) error {
	_, err := tx.Exec(ctx,
		`UPDATE containers SET container_status=$1, shipping_cost=$2, updated_at=CURRENT_TIMESTAMP
         WHERE id=$3`,
		c.ContainerStatus, c.ShippingCost, c.ID)
	return err
}

func (r *ContainerRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE containers SET is_deleted=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

type StoreRepository struct {
	DB *pgxpool.Pool
}

func NewStoreRepository(db *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{DB: db}
}

func (r *StoreRepository) Create(ctx context.Context, s *models.Store) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO stores(name, email, phone, address, city, state, zip)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.Phone, s.Address, s.City, s.State, s.Zip,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// CreateTx inserts a store inside the caller's transaction. Used by
// prospect conversion so the store and the status flip land together.
func (r *StoreRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *models.Store) error {
	return tx.QueryRow(ctx,
		`INSERT INTO stores(name, email, phone, address, city, state, zip)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.Phone, s.Address, s.City, s.State, s.Zip,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *StoreRepository) Get(ctx context.Context, id int) (*models.Store, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, COALESCE(city, '') as city,
                COALESCE(state, '') as state, COALESCE(zip, '') as zip,
                is_deleted, created_at, updated_at
         FROM stores WHERE id=$1`, id)

	var s models.Store
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.City,
		&s.State, &s.Zip, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *StoreRepository) List(ctx context.Context) ([]*models.Store, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, COALESCE(city, '') as city,
                COALESCE(state, '') as state, COALESCE(zip, '') as zip,
                is_deleted, created_at, updated_at
         FROM stores WHERE is_deleted = FALSE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		var s models.Store
		err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.City,
			&s.State, &s.Zip, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		stores = append(stores, &s)
	}
	return stores, nil
}

func (r *StoreRepository) Update(ctx context.Context, s *models.Store) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE stores SET name=$1, email=$2, phone=$3, address=$4, city=$5, state=$6, zip=$7,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$8`,
		s.Name, s.Email, s.Phone, s.Address, s.City, s.State, s.Zip, s.ID)
	return err
}

func (r *StoreRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE stores SET is_deleted=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"orderflow-backend/internal/models"
)

type ProspectRepository struct {
	DB *pgxpool.Pool
}

func NewProspectRepository(db *pgxpool.Pool) *ProspectRepository {
	return &ProspectRepository{DB: db}
}

func (r *ProspectRepository) Create(ctx context.Context, p *models.Prospect) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO prospects(name, email, phone, address, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, status, created_at, updated_at`,
		p.Name, p.Email, p.Phone, p.Address, p.Notes,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProspectRepository) Get(ctx context.Context, id int) (*models.Prospect, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, COALESCE(notes, '') as notes,
                status, is_deleted, created_at, updated_at
         FROM prospects WHERE id=$1`, id)

	var p models.Prospect
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.Notes,
		&p.Status, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProspectRepository) List(ctx context.Context) ([]*models.Prospect, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, COALESCE(notes, '') as notes,
                status, is_deleted, created_at, updated_at
         FROM prospects WHERE is_deleted = FALSE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prospects []*models.Prospect
	for rows.Next() {
		var p models.Prospect
		err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.Notes,
			&p.Status, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, &p)
	}
	return prospects, nil
}

func (r *ProspectRepository) Update(ctx context.Context, p *models.Prospect) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE prospects SET name=$1, email=$2, phone=$3, address=$4, notes=$5, status=$6,
                updated_at=CURRENT_TIMESTAMP
         WHERE id=$7`,
		p.Name, p.Email, p.Phone, p.Address, p.Notes, p.Status, p.ID)
	return err
}

// MarkConvertedTx flags a prospect converted inside the transaction that
// creates its store record.
func (r *ProspectRepository) MarkConvertedTx(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx,
		`UPDATE prospects SET status='converted', updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

func (r *ProspectRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE prospects SET is_deleted=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

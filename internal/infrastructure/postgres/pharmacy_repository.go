package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.PharmacyRepository = (*PharmacyRepo)(nil)

// PharmacyRepo implementación del puerto PharmacyRepository sobre PostgreSQL.
type PharmacyRepo struct {
	q Querier
}

// NewPharmacyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPharmacyRepository(q Querier) *PharmacyRepo {
	return &PharmacyRepo{q: q}
}

const pharmacyColumns = `id, name, cnpj, address, phone, email, technical_responsible, crf, created_at, updated_at`

// Create persiste una farmacia.
func (r *PharmacyRepo) Create(ctx context.Context, p *entity.Pharmacy) error {
	query := `INSERT INTO pharmacies (` + pharmacyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CNPJ, p.Address, p.Phone, p.Email, p.TechnicalResponsible, p.CRF, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pharmacy: %w", err)
	}
	return nil
}

// GetByID obtiene una farmacia por ID.
func (r *PharmacyRepo) GetByID(ctx context.Context, id string) (*entity.Pharmacy, error) {
	return r.getOne(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE id = $1`, id)
}

// GetByCNPJ obtiene una farmacia por CNPJ.
func (r *PharmacyRepo) GetByCNPJ(ctx context.Context, cnpj string) (*entity.Pharmacy, error) {
	return r.getOne(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE cnpj = $1`, cnpj)
}

// List lista farmacias con paginación.
func (r *PharmacyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pharmacies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pharmacy
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pharmacy: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PharmacyRepo) getOne(ctx context.Context, query string, arg any) (*entity.Pharmacy, error) {
	p, err := scanPharmacy(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pharmacy: %w", err)
	}
	return p, nil
}

func scanPharmacy(row pgx.Row) (*entity.Pharmacy, error) {
	var p entity.Pharmacy
	err := row.Scan(&p.ID, &p.Name, &p.CNPJ, &p.Address, &p.Phone, &p.Email,
		&p.TechnicalResponsible, &p.CRF, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

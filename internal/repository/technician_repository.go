package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propos/maintenance-engine/internal/domain"
)

// TechnicianRepository is the workload index: technician lookups plus live
// aggregates over their currently active tickets. Workload is always computed
// at query time, never cached, so each assignment decision sees fresh counts.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Technician, error)
	ActiveWorkload(ctx context.Context, technicianID string) (int, error)
	Candidates(ctx context.Context, orgID string, specialty *domain.Category) ([]domain.TechnicianWorkload, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (organization_id, user_id, name, specialty)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		technician.OrganizationID,
		technician.UserID,
		technician.Name,
		technician.Specialty,
	).Scan(&technician.ID, &technician.CreatedAt, &technician.UpdatedAt)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	const query = `
        SELECT id, organization_id, user_id, name, specialty, created_at, updated_at
        FROM technicians WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	const query = `
        SELECT id, organization_id, user_id, name, specialty, created_at, updated_at
        FROM technicians WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var technician domain.Technician
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&technician.ID,
		&technician.OrganizationID,
		&technician.UserID,
		&technician.Name,
		&technician.Specialty,
		&technician.CreatedAt,
		&technician.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &technician, nil
}

// ActiveWorkload counts the technician's tickets in OPEN or IN_PROGRESS state.
func (r *technicianRepository) ActiveWorkload(ctx context.Context, technicianID string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE assigned_to=$1 AND status IN ('OPEN','IN_PROGRESS')`
	var count int
	if err := r.pool.QueryRow(ctx, query, technicianID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Candidates returns the organization's technicians, optionally restricted to
// a specialty, ordered least-busy first with technician id as the stable
// secondary key.
func (r *technicianRepository) Candidates(ctx context.Context, orgID string, specialty *domain.Category) ([]domain.TechnicianWorkload, error) {
	query := `
        SELECT t.id, t.organization_id, t.user_id, t.name, t.specialty, t.created_at, t.updated_at,
               COUNT(mt.id) AS active
        FROM technicians t
        LEFT JOIN tickets mt ON mt.assigned_to = t.id AND mt.status IN ('OPEN','IN_PROGRESS')
        WHERE t.organization_id=$1`
	args := []any{orgID}
	if specialty != nil {
		args = append(args, *specialty)
		query += ` AND t.specialty=$2`
	}
	query += `
        GROUP BY t.id
        ORDER BY active ASC, t.id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TechnicianWorkload
	for rows.Next() {
		var tw domain.TechnicianWorkload
		if err := rows.Scan(
			&tw.Technician.ID,
			&tw.Technician.OrganizationID,
			&tw.Technician.UserID,
			&tw.Technician.Name,
			&tw.Technician.Specialty,
			&tw.Technician.CreatedAt,
			&tw.Technician.UpdatedAt,
			&tw.Active,
		); err != nil {
			return nil, err
		}
		result = append(result, tw)
	}
	return result, rows.Err()
}

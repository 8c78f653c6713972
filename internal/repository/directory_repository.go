package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propos/maintenance-engine/internal/domain"
)

// DirectoryRepository provides the read-only organization/unit/tenant lookups
// the lifecycle controller needs to resolve a ticket's owning organization.
type DirectoryRepository interface {
	UnitContext(ctx context.Context, unitID string) (*domain.UnitContext, error)
	TenantByUserID(ctx context.Context, userID string) (*domain.Tenant, error)
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository instantiates the repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

// UnitContext resolves a unit together with its property name and owning
// organization in a single query.
func (r *directoryRepository) UnitContext(ctx context.Context, unitID string) (*domain.UnitContext, error) {
	const query = `
        SELECT u.id, u.property_id, u.unit_number, p.name, p.organization_id
        FROM units u
        JOIN properties p ON p.id = u.property_id
        WHERE u.id=$1`
	var uc domain.UnitContext
	if err := r.pool.QueryRow(ctx, query, unitID).Scan(
		&uc.Unit.ID,
		&uc.Unit.PropertyID,
		&uc.Unit.UnitNumber,
		&uc.PropertyName,
		&uc.Organization,
	); err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *directoryRepository) TenantByUserID(ctx context.Context, userID string) (*domain.Tenant, error) {
	const query = `
        SELECT id, user_id, name, email, unit_id
        FROM tenants WHERE user_id=$1`
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&tenant.ID,
		&tenant.UserID,
		&tenant.Name,
		&tenant.Email,
		&tenant.UnitID,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

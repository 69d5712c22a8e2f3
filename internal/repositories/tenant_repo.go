package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings models.TenantSettings) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	settings, err := json.Marshal(tenant.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	query := `
		INSERT INTO tenants (id, name, subdomain, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, tenant.ID, tenant.Name, tenant.Subdomain, tenant.Status, settings)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT id, name, subdomain, status, settings, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	return r.scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `
		SELECT id, name, subdomain, status, settings, created_at, updated_at
		FROM tenants
		WHERE subdomain = $1 AND status = 'active'
	`
	return r.scanTenant(r.db.QueryRow(ctx, query, subdomain))
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, tenant.Name, tenant.Status, tenant.ID)
	return err
}

func (r *tenantRepo) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.TenantSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = r.db.Exec(ctx, `UPDATE tenants SET settings = $1, updated_at = NOW() WHERE id = $2`, raw, id)
	return err
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `
		SELECT id, name, subdomain, status, settings, created_at, updated_at
		FROM tenants
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := r.scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *tenantRepo) scanTenant(row rowScanner) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var rawSettings []byte
	if err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &rawSettings, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
		return nil, err
	}
	if len(rawSettings) > 0 {
		if err := json.Unmarshal(rawSettings, &tenant.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}
	return tenant, nil
}

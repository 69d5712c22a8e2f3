package services

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/caching"
	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const settingsCacheTTL = 10 * time.Minute

// TenantService owns tenant records and the typed settings blob.
type TenantService interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	UpdateSettings(ctx context.Context, tenantID uuid.UUID, settings models.TenantSettings, actorID uuid.UUID) (*models.TenantSettings, error)
	ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
	auditSvc   AuditService
	logger     zerolog.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, auditSvc AuditService, logger zerolog.Logger) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
		auditSvc:   auditSvc,
		logger:     logger,
	}
}

func (s *tenantService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

// GetTenantBySubdomain resolves public-site requests. The subdomain to
// tenant id mapping is cached; the full row read stays on the database.
func (s *tenantService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if cached, err := s.cacheSvc.GetTenantIDBySubdomain(ctx, subdomain); err == nil && cached != "" {
		if id, err := uuid.Parse(cached); err == nil {
			return s.tenantRepo.GetByID(ctx, id)
		}
	}

	tenant, err := s.tenantRepo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}

	if err := s.cacheSvc.SetTenantIDBySubdomain(ctx, subdomain, tenant.ID.String(), time.Hour); err != nil {
		s.logger.Warn().Err(err).Str("subdomain", subdomain).Msg("failed to cache subdomain lookup")
	}
	return tenant, nil
}

func (s *tenantService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	if cached, err := s.cacheSvc.GetTenantSettings(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	settings := tenant.Settings
	if err := s.cacheSvc.SetTenantSettings(ctx, tenantID, &settings, settingsCacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache tenant settings")
	}
	return &settings, nil
}

// UpdateSettings validates the blob, persists it and invalidates the cache.
func (s *tenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, settings models.TenantSettings, actorID uuid.UUID) (*models.TenantSettings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.UpdateSettings(ctx, tenantID, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	if err := s.cacheSvc.DeleteTenantSettings(ctx, tenantID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate settings cache")
	}

	s.auditSvc.Record(ctx, nil, tenantID, "tenants", tenantID.String(), models.AuditUpdate,
		models.JSONB{"settings": current},
		models.JSONB{"settings": settings},
		&actorID)

	return &settings, nil
}

func (s *tenantService) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	return s.tenantRepo.List(ctx, limit, offset)
}

package services

import (
	"context"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditService writes audit rows for mutations and status transitions.
// Failures are logged, never propagated: an audit write must not fail the
// mutation it records.
type AuditService interface {
	Record(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, action string, oldValues, newValues models.JSONB, actorID *uuid.UUID)
	RecordTransition(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, fromStatus, toStatus string, actorID *uuid.UUID)
	List(ctx context.Context, tenantID uuid.UUID, filters models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditService struct {
	auditRepo repositories.AuditLogRepository
	logger    zerolog.Logger
}

func NewAuditService(auditRepo repositories.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, action string, oldValues, newValues models.JSONB, actorID *uuid.UUID) {
	entry := &models.AuditLog{
		ID:        uuid.New(),
		TenantID:  tenantID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		ChangedBy: actorID,
	}
	if err := s.auditRepo.Create(ctx, exec, entry); err != nil {
		s.logger.Error().Err(err).
			Str("table", tableName).
			Str("record_id", recordID).
			Str("action", action).
			Msg("failed to write audit log")
	}
}

func (s *auditService) RecordTransition(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, fromStatus, toStatus string, actorID *uuid.UUID) {
	s.Record(ctx, exec, tenantID, tableName, recordID, models.AuditTransition,
		models.JSONB{"status": fromStatus},
		models.JSONB{"status": toStatus},
		actorID)
}

func (s *auditService) List(ctx context.Context, tenantID uuid.UUID, filters models.AuditLogFilters) ([]*models.AuditLog, error) {
	return s.auditRepo.List(ctx, tenantID, filters)
}

package services

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrAlreadyResolved = fmt.Errorf("discipline record is already resolved")

type DisciplineService interface {
	CreateRecord(ctx context.Context, req *CreateDisciplineRequest) (*models.DisciplineRecord, error)
	GetRecord(ctx context.Context, tenantID, id uuid.UUID) (*models.DisciplineRecord, error)
	ResolveRecord(ctx context.Context, tenantID, id, actorID uuid.UUID, resolution string) (*models.DisciplineRecord, error)
	ListRecords(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.DisciplineRecord, error)
}

type CreateDisciplineRequest struct {
	TenantID    uuid.UUID `json:"-"`
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	ReportedBy  uuid.UUID `json:"-"`
	Category    string    `json:"category" validate:"required"`
	Description string    `json:"description" validate:"required"`
	OccurredAt  time.Time `json:"occurred_at" validate:"required"`
}

type disciplineService struct {
	disciplineRepo repositories.DisciplineRepository
	auditSvc       AuditService
	logger         zerolog.Logger
}

func NewDisciplineService(disciplineRepo repositories.DisciplineRepository, auditSvc AuditService, logger zerolog.Logger) DisciplineService {
	return &disciplineService{
		disciplineRepo: disciplineRepo,
		auditSvc:       auditSvc,
		logger:         logger,
	}
}

func (s *disciplineService) CreateRecord(ctx context.Context, req *CreateDisciplineRequest) (*models.DisciplineRecord, error) {
	record := &models.DisciplineRecord{
		ID:          uuid.New(),
		TenantID:    req.TenantID,
		StudentID:   req.StudentID,
		ReportedBy:  req.ReportedBy,
		Category:    req.Category,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
		Status:      models.DisciplineOpen,
	}
	if err := s.disciplineRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create discipline record: %w", err)
	}
	return record, nil
}

func (s *disciplineService) GetRecord(ctx context.Context, tenantID, id uuid.UUID) (*models.DisciplineRecord, error) {
	return s.disciplineRepo.GetByID(ctx, tenantID, id)
}

// ResolveRecord is one-way. The repository guards on status = OPEN, so a
// concurrent double-resolve loses the race instead of overwriting.
func (s *disciplineService) ResolveRecord(ctx context.Context, tenantID, id, actorID uuid.UUID, resolution string) (*models.DisciplineRecord, error) {
	record, err := s.disciplineRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load discipline record: %w", err)
	}
	if record.Status == models.DisciplineResolved {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	record.Status = models.DisciplineResolved
	record.Resolution = &resolution
	record.ResolvedBy = &actorID
	record.ResolvedAt = &now
	if err := s.disciplineRepo.Resolve(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to resolve discipline record: %w", err)
	}

	s.auditSvc.RecordTransition(ctx, nil, tenantID, "discipline_records", id.String(), models.DisciplineOpen, models.DisciplineResolved, &actorID)
	return record, nil
}

func (s *disciplineService) ListRecords(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.DisciplineRecord, error) {
	return s.disciplineRepo.List(ctx, tenantID, studentID, status, limit, offset)
}

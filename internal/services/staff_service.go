package services

import (
	"context"
	"fmt"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StaffService covers teacher records, contracts and alumni directory
// management.
type StaffService interface {
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	GetTeacher(ctx context.Context, tenantID, id uuid.UUID) (*models.Teacher, error)
	GetTeacherByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *models.Teacher) error
	DeactivateTeacher(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	ListTeachers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Teacher, error)

	CreateContract(ctx context.Context, contract *models.Contract) error
	GetContract(ctx context.Context, tenantID, id uuid.UUID) (*models.Contract, error)
	UpdateContract(ctx context.Context, contract *models.Contract, actorID uuid.UUID) error
	TerminateContract(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	ListContracts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Contract, error)

	RegisterAlumni(ctx context.Context, alumni *models.Alumni) error
	GetAlumni(ctx context.Context, tenantID, id uuid.UUID) (*models.Alumni, error)
	UpdateAlumni(ctx context.Context, alumni *models.Alumni) error
	ListAlumni(ctx context.Context, tenantID uuid.UUID, graduationYear, limit, offset int) ([]*models.Alumni, error)
}

type staffService struct {
	teacherRepo  repositories.TeacherRepository
	contractRepo repositories.ContractRepository
	alumniRepo   repositories.AlumniRepository
	auditSvc     AuditService
	logger       zerolog.Logger
}

func NewStaffService(teacherRepo repositories.TeacherRepository, contractRepo repositories.ContractRepository, alumniRepo repositories.AlumniRepository, auditSvc AuditService, logger zerolog.Logger) StaffService {
	return &staffService{
		teacherRepo:  teacherRepo,
		contractRepo: contractRepo,
		alumniRepo:   alumniRepo,
		auditSvc:     auditSvc,
		logger:       logger,
	}
}

func (s *staffService) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}
	if teacher.Status == "" {
		teacher.Status = models.TeacherStatusActive
	}
	return s.teacherRepo.Create(ctx, teacher)
}

func (s *staffService) GetTeacher(ctx context.Context, tenantID, id uuid.UUID) (*models.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, tenantID, id)
}

func (s *staffService) GetTeacherByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.Teacher, error) {
	return s.teacherRepo.GetByUserID(ctx, tenantID, userID)
}

func (s *staffService) UpdateTeacher(ctx context.Context, teacher *models.Teacher) error {
	return s.teacherRepo.Update(ctx, teacher)
}

func (s *staffService) DeactivateTeacher(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if err := s.teacherRepo.Deactivate(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to deactivate teacher: %w", err)
	}
	s.auditSvc.Record(ctx, nil, tenantID, "teachers", id.String(), models.AuditSoftDelete, nil, nil, &actorID)
	return nil
}

func (s *staffService) ListTeachers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Teacher, error) {
	return s.teacherRepo.List(ctx, tenantID, limit, offset)
}

func (s *staffService) CreateContract(ctx context.Context, contract *models.Contract) error {
	if contract.SalaryCents <= 0 {
		return fmt.Errorf("salary_cents must be positive")
	}
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	if contract.Status == "" {
		contract.Status = models.ContractStatusActive
	}
	return s.contractRepo.Create(ctx, contract)
}

func (s *staffService) GetContract(ctx context.Context, tenantID, id uuid.UUID) (*models.Contract, error) {
	return s.contractRepo.GetByID(ctx, tenantID, id)
}

func (s *staffService) UpdateContract(ctx context.Context, contract *models.Contract, actorID uuid.UUID) error {
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	s.auditSvc.Record(ctx, nil, contract.TenantID, "contracts", contract.ID.String(), models.AuditUpdate, nil, models.JSONB{"contract": contract}, &actorID)
	return nil
}

func (s *staffService) TerminateContract(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	contract, err := s.contractRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}
	if contract.Status != models.ContractStatusActive {
		return fmt.Errorf("only active contracts can be terminated")
	}

	contract.Status = models.ContractStatusTerminated
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return fmt.Errorf("failed to terminate contract: %w", err)
	}
	s.auditSvc.RecordTransition(ctx, nil, tenantID, "contracts", id.String(), models.ContractStatusActive, models.ContractStatusTerminated, &actorID)
	return nil
}

func (s *staffService) ListContracts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Contract, error) {
	return s.contractRepo.List(ctx, tenantID, limit, offset)
}

func (s *staffService) RegisterAlumni(ctx context.Context, alumni *models.Alumni) error {
	if alumni.ID == uuid.Nil {
		alumni.ID = uuid.New()
	}
	return s.alumniRepo.Create(ctx, alumni)
}

func (s *staffService) GetAlumni(ctx context.Context, tenantID, id uuid.UUID) (*models.Alumni, error) {
	return s.alumniRepo.GetByID(ctx, tenantID, id)
}

func (s *staffService) UpdateAlumni(ctx context.Context, alumni *models.Alumni) error {
	return s.alumniRepo.Update(ctx, alumni)
}

func (s *staffService) ListAlumni(ctx context.Context, tenantID uuid.UUID, graduationYear, limit, offset int) ([]*models.Alumni, error) {
	return s.alumniRepo.List(ctx, tenantID, graduationYear, limit, offset)
}

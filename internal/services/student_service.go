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

var ErrAdmissionNumberTaken = fmt.Errorf("admission number already in use")

// StudentService owns student records and their guardian links.
type StudentService interface {
	CreateStudent(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student, actorID uuid.UUID) error
	DeactivateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	GraduateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID, graduationYear int) error
	ListStudents(ctx context.Context, tenantID uuid.UUID, filter repositories.StudentSearchFilter) ([]*models.Student, error)
	ListStudentsByGuardianUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Student, error)

	CreateGuardian(ctx context.Context, guardian *models.Guardian) error
	LinkGuardian(ctx context.Context, link *models.StudentGuardian) error
	UnlinkGuardian(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error
	ListGuardians(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Guardian, error)

	// GuardianOwnsStudent backs the guardian-scoped read checks.
	GuardianOwnsStudent(ctx context.Context, tenantID, guardianUserID, studentID uuid.UUID) (bool, error)
}

type CreateStudentRequest struct {
	TenantID        uuid.UUID  `json:"-"`
	AdmissionNumber string     `json:"admission_number" validate:"required"`
	FirstName       string     `json:"first_name" validate:"required"`
	LastName        string     `json:"last_name" validate:"required"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	ClassID         *uuid.UUID `json:"class_id,omitempty"`
}

type studentService struct {
	studentRepo  repositories.StudentRepository
	guardianRepo repositories.GuardianRepository
	alumniRepo   repositories.AlumniRepository
	auditSvc     AuditService
	logger       zerolog.Logger
}

func NewStudentService(studentRepo repositories.StudentRepository, guardianRepo repositories.GuardianRepository, alumniRepo repositories.AlumniRepository, auditSvc AuditService, logger zerolog.Logger) StudentService {
	return &studentService{
		studentRepo:  studentRepo,
		guardianRepo: guardianRepo,
		alumniRepo:   alumniRepo,
		auditSvc:     auditSvc,
		logger:       logger,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	existing, err := s.studentRepo.GetByAdmissionNumber(ctx, req.TenantID, req.AdmissionNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check admission number: %w", err)
	}
	if existing != nil {
		return nil, ErrAdmissionNumberTaken
	}

	student := &models.Student{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		AdmissionNumber: req.AdmissionNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		ClassID:         req.ClassID,
		Status:          models.StudentStatusActive,
		EnrolledAt:      time.Now(),
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", req.TenantID.String()).
		Str("admission_number", req.AdmissionNumber).
		Msg("student enrolled")

	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, tenantID, id)
}

func (s *studentService) UpdateStudent(ctx context.Context, student *models.Student, actorID uuid.UUID) error {
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	s.auditSvc.Record(ctx, nil, student.TenantID, "students", student.ID.String(), models.AuditUpdate, nil, models.JSONB{"student": student}, &actorID)
	return nil
}

func (s *studentService) DeactivateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if err := s.studentRepo.Deactivate(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to deactivate student: %w", err)
	}
	s.auditSvc.Record(ctx, nil, tenantID, "students", id.String(), models.AuditSoftDelete, nil, nil, &actorID)
	return nil
}

// GraduateStudent flips the student to graduated and seeds an alumni record.
func (s *studentService) GraduateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID, graduationYear int) error {
	student, err := s.studentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to load student: %w", err)
	}
	if student.Status != models.StudentStatusActive {
		return fmt.Errorf("only active students can graduate")
	}

	oldStatus := student.Status
	student.Status = models.StudentStatusGraduated
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("failed to graduate student: %w", err)
	}

	alumni := &models.Alumni{
		ID:             uuid.New(),
		TenantID:       tenantID,
		StudentID:      &student.ID,
		FullName:       student.FirstName + " " + student.LastName,
		GraduationYear: graduationYear,
	}
	if err := s.alumniRepo.Create(ctx, alumni); err != nil {
		s.logger.Error().Err(err).Str("student_id", id.String()).Msg("failed to create alumni record")
	}

	s.auditSvc.RecordTransition(ctx, nil, tenantID, "students", id.String(), oldStatus, models.StudentStatusGraduated, &actorID)
	return nil
}

func (s *studentService) ListStudents(ctx context.Context, tenantID uuid.UUID, filter repositories.StudentSearchFilter) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, tenantID, filter)
}

func (s *studentService) ListStudentsByGuardianUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Student, error) {
	guardian, err := s.guardianRepo.GetByUserID(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guardian: %w", err)
	}
	if guardian == nil {
		return nil, nil
	}
	return s.studentRepo.ListByGuardian(ctx, tenantID, guardian.ID)
}

func (s *studentService) CreateGuardian(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == uuid.Nil {
		guardian.ID = uuid.New()
	}
	return s.guardianRepo.Create(ctx, guardian)
}

func (s *studentService) LinkGuardian(ctx context.Context, link *models.StudentGuardian) error {
	return s.guardianRepo.Link(ctx, link)
}

func (s *studentService) UnlinkGuardian(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	return s.guardianRepo.Unlink(ctx, tenantID, studentID, guardianID)
}

func (s *studentService) ListGuardians(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Guardian, error) {
	return s.guardianRepo.ListByStudent(ctx, tenantID, studentID)
}

func (s *studentService) GuardianOwnsStudent(ctx context.Context, tenantID, guardianUserID, studentID uuid.UUID) (bool, error) {
	students, err := s.ListStudentsByGuardianUser(ctx, tenantID, guardianUserID)
	if err != nil {
		return false, err
	}
	for _, student := range students {
		if student.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

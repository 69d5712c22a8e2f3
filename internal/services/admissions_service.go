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

// AdmissionsService owns the application pipeline. Transitions are one-way;
// accepting an application enrolls the applicant as a student.
type AdmissionsService interface {
	SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*models.Application, error)
	GetApplication(ctx context.Context, tenantID, id uuid.UUID) (*models.Application, error)
	ListApplications(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Application, error)
	TransitionApplication(ctx context.Context, req *TransitionApplicationRequest) (*models.Application, error)
}

type SubmitApplicationRequest struct {
	TenantID       uuid.UUID  `json:"-"`
	ApplicantFirst string     `json:"applicant_first_name" validate:"required"`
	ApplicantLast  string     `json:"applicant_last_name" validate:"required"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	GuardianName   string     `json:"guardian_name" validate:"required"`
	GuardianEmail  *string    `json:"guardian_email,omitempty"`
	GuardianPhone  *string    `json:"guardian_phone,omitempty"`
	GradeApplied   string     `json:"grade_applied" validate:"required"`
	DocumentKey    *string    `json:"document_key,omitempty"`
}

type TransitionApplicationRequest struct {
	TenantID      uuid.UUID
	ApplicationID uuid.UUID
	NextStatus    string
	ReviewNote    *string
	ActorID       uuid.UUID
}

type admissionsService struct {
	applicationRepo repositories.ApplicationRepository
	studentSvc      StudentService
	auditSvc        AuditService
	sms             SMSService
	logger          zerolog.Logger
}

func NewAdmissionsService(applicationRepo repositories.ApplicationRepository, studentSvc StudentService, auditSvc AuditService, sms SMSService, logger zerolog.Logger) AdmissionsService {
	return &admissionsService{
		applicationRepo: applicationRepo,
		studentSvc:      studentSvc,
		auditSvc:        auditSvc,
		sms:             sms,
		logger:          logger,
	}
}

func (s *admissionsService) SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*models.Application, error) {
	application := &models.Application{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		ApplicantFirst: req.ApplicantFirst,
		ApplicantLast:  req.ApplicantLast,
		DateOfBirth:    req.DateOfBirth,
		GuardianName:   req.GuardianName,
		GuardianEmail:  req.GuardianEmail,
		GuardianPhone:  req.GuardianPhone,
		GradeApplied:   req.GradeApplied,
		DocumentKey:    req.DocumentKey,
		Status:         models.ApplicationSubmitted,
		SubmittedAt:    time.Now(),
	}
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", req.TenantID.String()).
		Str("application_id", application.ID.String()).
		Str("grade", req.GradeApplied).
		Msg("application submitted")

	return application, nil
}

func (s *admissionsService) GetApplication(ctx context.Context, tenantID, id uuid.UUID) (*models.Application, error) {
	return s.applicationRepo.GetByID(ctx, tenantID, id)
}

func (s *admissionsService) ListApplications(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Application, error) {
	return s.applicationRepo.List(ctx, tenantID, status, limit, offset)
}

// TransitionApplication moves the application forward, writes the audit row
// and, on ACCEPTED, enrolls the applicant with a generated admission number.
func (s *admissionsService) TransitionApplication(ctx context.Context, req *TransitionApplicationRequest) (*models.Application, error) {
	application, err := s.applicationRepo.GetByID(ctx, req.TenantID, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if err := models.CanTransitionApplication(application.Status, req.NextStatus); err != nil {
		return nil, err
	}

	oldStatus := application.Status
	now := time.Now()
	application.Status = req.NextStatus
	application.ReviewNote = req.ReviewNote
	application.ReviewedBy = &req.ActorID
	application.ReviewedAt = &now
	if err := s.applicationRepo.UpdateStatus(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.auditSvc.RecordTransition(ctx, nil, req.TenantID, "applications", application.ID.String(), oldStatus, req.NextStatus, &req.ActorID)

	if req.NextStatus == models.ApplicationAccepted {
		if err := s.enrollApplicant(ctx, application); err != nil {
			// The transition stands; enrollment can be retried manually.
			s.logger.Error().Err(err).Str("application_id", application.ID.String()).Msg("failed to enroll accepted applicant")
		}
		s.notifyGuardian(ctx, application)
	}

	return application, nil
}

// notifyGuardian texts the guardian about the acceptance when a phone number
// was left on the application. Failures are logged, never surfaced.
func (s *admissionsService) notifyGuardian(ctx context.Context, application *models.Application) {
	if application.GuardianPhone == nil || !s.sms.Configured() {
		return
	}
	msg := fmt.Sprintf("Good news! The application for %s %s has been accepted. The school will contact you with enrollment details.",
		application.ApplicantFirst, application.ApplicantLast)
	if err := s.sms.Send(ctx, *application.GuardianPhone, msg); err != nil {
		s.logger.Warn().Err(err).Str("application_id", application.ID.String()).Msg("failed to send acceptance sms")
	}
}

func (s *admissionsService) enrollApplicant(ctx context.Context, application *models.Application) error {
	_, err := s.studentSvc.CreateStudent(ctx, &CreateStudentRequest{
		TenantID:        application.TenantID,
		AdmissionNumber: admissionNumberFor(application),
		FirstName:       application.ApplicantFirst,
		LastName:        application.ApplicantLast,
		DateOfBirth:     application.DateOfBirth,
	})
	return err
}

// admissionNumberFor derives a stable admission number from the year and
// the application id, so retrying enrollment cannot mint a second number.
func admissionNumberFor(application *models.Application) string {
	short := application.ID.String()[:8]
	return fmt.Sprintf("ADM-%d-%s", application.SubmittedAt.Year(), short)
}

package repositories

import (
	"context"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Application, error)
	UpdateStatus(ctx context.Context, application *models.Application) error
	List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Application, error)
}

type applicationRepo struct {
	db DB
}

func NewApplicationRepo(db DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, tenant_id, applicant_first_name, applicant_last_name, date_of_birth, guardian_name, guardian_email, guardian_phone, grade_applied, document_key, status, review_note, reviewed_by, reviewed_at, submitted_at, created_at, updated_at`

func (r *applicationRepo) Create(ctx context.Context, application *models.Application) error {
	query := `
		INSERT INTO applications (id, tenant_id, applicant_first_name, applicant_last_name, date_of_birth, guardian_name, guardian_email, guardian_phone, grade_applied, document_key, status, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, application.ID, application.TenantID, application.ApplicantFirst, application.ApplicantLast, application.DateOfBirth, application.GuardianName, application.GuardianEmail, application.GuardianPhone, application.GradeApplied, application.DocumentKey, application.Status, application.SubmittedAt)
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE tenant_id = $1 AND id = $2`
	return scanApplication(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, application *models.Application) error {
	query := `
		UPDATE applications
		SET status = $1, review_note = $2, reviewed_by = $3, reviewed_at = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, application.Status, application.ReviewNote, application.ReviewedBy, application.ReviewedAt, application.TenantID, application.ID)
	return err
}

func (r *applicationRepo) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = $2 ORDER BY submitted_at DESC LIMIT $3 OFFSET $4`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []*models.Application
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}
	return applications, rows.Err()
}

func scanApplication(row rowScanner) (*models.Application, error) {
	application := &models.Application{}
	err := row.Scan(&application.ID, &application.TenantID, &application.ApplicantFirst, &application.ApplicantLast, &application.DateOfBirth, &application.GuardianName, &application.GuardianEmail, &application.GuardianPhone, &application.GradeApplied, &application.DocumentKey, &application.Status, &application.ReviewNote, &application.ReviewedBy, &application.ReviewedAt, &application.SubmittedAt, &application.CreatedAt, &application.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return application, nil
}

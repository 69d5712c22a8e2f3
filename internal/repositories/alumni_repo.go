package repositories

import (
	"context"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type AlumniRepository interface {
	Create(ctx context.Context, alumni *models.Alumni) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Alumni, error)
	Update(ctx context.Context, alumni *models.Alumni) error
	List(ctx context.Context, tenantID uuid.UUID, graduationYear int, limit, offset int) ([]*models.Alumni, error)
}

type alumniRepo struct {
	db DB
}

func NewAlumniRepo(db DB) AlumniRepository {
	return &alumniRepo{db: db}
}

func (r *alumniRepo) Create(ctx context.Context, alumni *models.Alumni) error {
	query := `
		INSERT INTO alumni (id, tenant_id, student_id, full_name, graduation_year, email, occupation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, alumni.ID, alumni.TenantID, alumni.StudentID, alumni.FullName, alumni.GraduationYear, alumni.Email, alumni.Occupation)
	return err
}

func (r *alumniRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Alumni, error) {
	query := `
		SELECT id, tenant_id, student_id, full_name, graduation_year, email, occupation, created_at, updated_at
		FROM alumni
		WHERE tenant_id = $1 AND id = $2
	`
	alumni := &models.Alumni{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&alumni.ID, &alumni.TenantID, &alumni.StudentID, &alumni.FullName, &alumni.GraduationYear, &alumni.Email, &alumni.Occupation, &alumni.CreatedAt, &alumni.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return alumni, nil
}

func (r *alumniRepo) Update(ctx context.Context, alumni *models.Alumni) error {
	query := `
		UPDATE alumni
		SET full_name = $1, graduation_year = $2, email = $3, occupation = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, alumni.FullName, alumni.GraduationYear, alumni.Email, alumni.Occupation, alumni.TenantID, alumni.ID)
	return err
}

func (r *alumniRepo) List(ctx context.Context, tenantID uuid.UUID, graduationYear int, limit, offset int) ([]*models.Alumni, error) {
	query := `
		SELECT id, tenant_id, student_id, full_name, graduation_year, email, occupation, created_at, updated_at
		FROM alumni
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if graduationYear > 0 {
		query += ` AND graduation_year = $2 ORDER BY full_name LIMIT $3 OFFSET $4`
		args = append(args, graduationYear, limit, offset)
	} else {
		query += ` ORDER BY graduation_year DESC, full_name LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Alumni
	for rows.Next() {
		alumni := &models.Alumni{}
		if err := rows.Scan(&alumni.ID, &alumni.TenantID, &alumni.StudentID, &alumni.FullName, &alumni.GraduationYear, &alumni.Email, &alumni.Occupation, &alumni.CreatedAt, &alumni.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, alumni)
	}
	return records, rows.Err()
}

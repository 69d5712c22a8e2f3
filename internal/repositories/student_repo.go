package repositories

import (
	"context"
	"errors"
	"fmt"

	"scholaris/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StudentSearchFilter narrows student listings.
type StudentSearchFilter struct {
	Query   string
	ClassID *uuid.UUID
	Status  string
	Limit   int
	Offset  int
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error)
	GetByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter StudentSearchFilter) ([]*models.Student, error)
	ListByGuardian(ctx context.Context, tenantID, guardianID uuid.UUID) ([]*models.Student, error)
}

type studentRepo struct {
	db DB
}

func NewStudentRepo(db DB) StudentRepository {
	return &studentRepo{db: db}
}

const studentColumns = `id, tenant_id, admission_number, first_name, last_name, date_of_birth, gender, class_id, user_id, status, enrolled_at, created_at, updated_at`

func (r *studentRepo) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, tenant_id, admission_number, first_name, last_name, date_of_birth, gender, class_id, user_id, status, enrolled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, student.ID, student.TenantID, student.AdmissionNumber, student.FirstName, student.LastName, student.DateOfBirth, student.Gender, student.ClassID, student.UserID, student.Status, student.EnrolledAt)
	return err
}

func (r *studentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE tenant_id = $1 AND id = $2`
	return r.scanStudent(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *studentRepo) GetByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE tenant_id = $1 AND admission_number = $2`
	student, err := r.scanStudent(r.db.QueryRow(ctx, query, tenantID, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return student, err
}

func (r *studentRepo) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4, class_id = $5, status = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, student.FirstName, student.LastName, student.DateOfBirth, student.Gender, student.ClassID, student.Status, student.TenantID, student.ID)
	return err
}

func (r *studentRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE students SET status = 'deactivated', updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

// List builds the filtered query with squirrel; the tenant predicate always
// comes first.
func (r *studentRepo) List(ctx context.Context, tenantID uuid.UUID, filter StudentSearchFilter) ([]*models.Student, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	builder := sq.Select(studentColumns).
		From("students").
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"first_name": like},
			sq.ILike{"last_name": like},
			sq.ILike{"admission_number": like},
		})
	}
	if filter.ClassID != nil {
		builder = builder.Where(sq.Eq{"class_id": *filter.ClassID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.
		OrderBy("last_name, first_name").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (r *studentRepo) ListByGuardian(ctx context.Context, tenantID, guardianID uuid.UUID) ([]*models.Student, error) {
	query := `
		SELECT s.id, s.tenant_id, s.admission_number, s.first_name, s.last_name, s.date_of_birth, s.gender, s.class_id, s.user_id, s.status, s.enrolled_at, s.created_at, s.updated_at
		FROM students s
		JOIN student_guardians sg ON sg.student_id = s.id AND sg.tenant_id = s.tenant_id
		WHERE s.tenant_id = $1 AND sg.guardian_id = $2
		ORDER BY s.last_name, s.first_name
	`
	rows, err := r.db.Query(ctx, query, tenantID, guardianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (r *studentRepo) scanStudent(row rowScanner) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.TenantID, &student.AdmissionNumber, &student.FirstName, &student.LastName, &student.DateOfBirth, &student.Gender, &student.ClassID, &student.UserID, &student.Status, &student.EnrolledAt, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return student, nil
}

type GuardianRepository interface {
	Create(ctx context.Context, guardian *models.Guardian) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Guardian, error)
	GetByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.Guardian, error)
	Update(ctx context.Context, guardian *models.Guardian) error
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Guardian, error)
	Link(ctx context.Context, link *models.StudentGuardian) error
	Unlink(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error
}

type guardianRepo struct {
	db DB
}

func NewGuardianRepo(db DB) GuardianRepository {
	return &guardianRepo{db: db}
}

func (r *guardianRepo) Create(ctx context.Context, guardian *models.Guardian) error {
	query := `
		INSERT INTO guardians (id, tenant_id, user_id, first_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, guardian.ID, guardian.TenantID, guardian.UserID, guardian.FirstName, guardian.LastName, guardian.Email, guardian.Phone)
	return err
}

func (r *guardianRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Guardian, error) {
	query := `
		SELECT id, tenant_id, user_id, first_name, last_name, email, phone, created_at, updated_at
		FROM guardians
		WHERE tenant_id = $1 AND id = $2
	`
	return r.scanGuardian(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *guardianRepo) GetByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.Guardian, error) {
	query := `
		SELECT id, tenant_id, user_id, first_name, last_name, email, phone, created_at, updated_at
		FROM guardians
		WHERE tenant_id = $1 AND user_id = $2
	`
	guardian, err := r.scanGuardian(r.db.QueryRow(ctx, query, tenantID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return guardian, err
}

func (r *guardianRepo) Update(ctx context.Context, guardian *models.Guardian) error {
	query := `
		UPDATE guardians
		SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, guardian.FirstName, guardian.LastName, guardian.Email, guardian.Phone, guardian.TenantID, guardian.ID)
	return err
}

func (r *guardianRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Guardian, error) {
	query := `
		SELECT g.id, g.tenant_id, g.user_id, g.first_name, g.last_name, g.email, g.phone, g.created_at, g.updated_at
		FROM guardians g
		JOIN student_guardians sg ON sg.guardian_id = g.id AND sg.tenant_id = g.tenant_id
		WHERE g.tenant_id = $1 AND sg.student_id = $2
		ORDER BY sg.is_primary DESC, g.last_name
	`
	rows, err := r.db.Query(ctx, query, tenantID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guardians []*models.Guardian
	for rows.Next() {
		guardian, err := r.scanGuardian(rows)
		if err != nil {
			return nil, err
		}
		guardians = append(guardians, guardian)
	}
	return guardians, rows.Err()
}

func (r *guardianRepo) Link(ctx context.Context, link *models.StudentGuardian) error {
	query := `
		INSERT INTO student_guardians (student_id, guardian_id, tenant_id, relationship, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, guardian_id) DO UPDATE SET relationship = $4, is_primary = $5
	`
	_, err := r.db.Exec(ctx, query, link.StudentID, link.GuardianID, link.TenantID, link.Relationship, link.IsPrimary)
	return err
}

func (r *guardianRepo) Unlink(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	query := `DELETE FROM student_guardians WHERE tenant_id = $1 AND student_id = $2 AND guardian_id = $3`
	_, err := r.db.Exec(ctx, query, tenantID, studentID, guardianID)
	return err
}

func (r *guardianRepo) scanGuardian(row rowScanner) (*models.Guardian, error) {
	guardian := &models.Guardian{}
	err := row.Scan(&guardian.ID, &guardian.TenantID, &guardian.UserID, &guardian.FirstName, &guardian.LastName, &guardian.Email, &guardian.Phone, &guardian.CreatedAt, &guardian.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return guardian, nil
}

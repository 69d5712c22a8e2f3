package repositories

import (
	"context"
	"time"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Teacher, error)
}

type teacherRepo struct {
	db DB
}

func NewTeacherRepo(db DB) TeacherRepository {
	return &teacherRepo{db: db}
}

const teacherColumns = `id, tenant_id, user_id, staff_number, department, subjects, hired_at, status, created_at, updated_at`

func (r *teacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (id, tenant_id, user_id, staff_number, department, subjects, hired_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, teacher.ID, teacher.TenantID, teacher.UserID, teacher.StaffNumber, teacher.Department, teacher.Subjects, teacher.HiredAt, teacher.Status)
	return err
}

func (r *teacherRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE tenant_id = $1 AND id = $2`
	return r.scanTeacher(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *teacherRepo) GetByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE tenant_id = $1 AND user_id = $2`
	return r.scanTeacher(r.db.QueryRow(ctx, query, tenantID, userID))
}

func (r *teacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	query := `
		UPDATE teachers
		SET department = $1, subjects = $2, hired_at = $3, status = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, teacher.Department, teacher.Subjects, teacher.HiredAt, teacher.Status, teacher.TenantID, teacher.ID)
	return err
}

func (r *teacherRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE teachers SET status = 'deactivated', updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *teacherRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		teacher, err := r.scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

func (r *teacherRepo) scanTeacher(row rowScanner) (*models.Teacher, error) {
	teacher := &models.Teacher{}
	err := row.Scan(&teacher.ID, &teacher.TenantID, &teacher.UserID, &teacher.StaffNumber, &teacher.Department, &teacher.Subjects, &teacher.HiredAt, &teacher.Status, &teacher.CreatedAt, &teacher.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

type StaffAttendanceRepository interface {
	Upsert(ctx context.Context, record *models.StaffAttendance) error
	List(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit, offset int) ([]*models.StaffAttendance, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*models.StaffAttendance, error)
}

type staffAttendanceRepo struct {
	db DB
}

func NewStaffAttendanceRepo(db DB) StaffAttendanceRepository {
	return &staffAttendanceRepo{db: db}
}

// Upsert keys on (tenant, user, date) so re-marking a day overwrites.
func (r *staffAttendanceRepo) Upsert(ctx context.Context, record *models.StaffAttendance) error {
	query := `
		INSERT INTO staff_attendance (id, tenant_id, user_id, date, status, check_in, check_out, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (tenant_id, user_id, date)
		DO UPDATE SET status = $5, check_in = $6, check_out = $7, notes = $8
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.TenantID, record.UserID, record.Date, record.Status, record.CheckIn, record.CheckOut, record.Notes)
	return err
}

func (r *staffAttendanceRepo) List(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit, offset int) ([]*models.StaffAttendance, error) {
	query := `
		SELECT id, tenant_id, user_id, date, status, check_in, check_out, notes, created_at
		FROM staff_attendance
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffAttendance(rows)
}

func (r *staffAttendanceRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*models.StaffAttendance, error) {
	query := `
		SELECT id, tenant_id, user_id, date, status, check_in, check_out, notes, created_at
		FROM staff_attendance
		WHERE tenant_id = $1 AND user_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffAttendance(rows)
}

func scanStaffAttendance(rows pgx.Rows) ([]*models.StaffAttendance, error) {
	var records []*models.StaffAttendance
	for rows.Next() {
		record := &models.StaffAttendance{}
		if err := rows.Scan(&record.ID, &record.TenantID, &record.UserID, &record.Date, &record.Status, &record.CheckIn, &record.CheckOut, &record.Notes, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Contract, error)
}

type contractRepo struct {
	db DB
}

func NewContractRepo(db DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (id, tenant_id, user_id, title, salary_cents, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, contract.ID, contract.TenantID, contract.UserID, contract.Title, contract.SalaryCents, contract.StartDate, contract.EndDate, contract.Status)
	return err
}

func (r *contractRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Contract, error) {
	query := `
		SELECT id, tenant_id, user_id, title, salary_cents, start_date, end_date, status, created_at, updated_at
		FROM contracts
		WHERE tenant_id = $1 AND id = $2
	`
	contract := &models.Contract{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&contract.ID, &contract.TenantID, &contract.UserID, &contract.Title, &contract.SalaryCents, &contract.StartDate, &contract.EndDate, &contract.Status, &contract.CreatedAt, &contract.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *contractRepo) Update(ctx context.Context, contract *models.Contract) error {
	query := `
		UPDATE contracts
		SET title = $1, salary_cents = $2, start_date = $3, end_date = $4, status = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, contract.Title, contract.SalaryCents, contract.StartDate, contract.EndDate, contract.Status, contract.TenantID, contract.ID)
	return err
}

func (r *contractRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM contracts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *contractRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Contract, error) {
	query := `
		SELECT id, tenant_id, user_id, title, salary_cents, start_date, end_date, status, created_at, updated_at
		FROM contracts
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		contract := &models.Contract{}
		if err := rows.Scan(&contract.ID, &contract.TenantID, &contract.UserID, &contract.Title, &contract.SalaryCents, &contract.StartDate, &contract.EndDate, &contract.Status, &contract.CreatedAt, &contract.UpdatedAt); err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

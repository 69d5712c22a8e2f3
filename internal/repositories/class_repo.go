package repositories

import (
	"context"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Class, error)
}

type classRepo struct {
	db DB
}

func NewClassRepo(db DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (id, tenant_id, name, grade_level, teacher_id, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, class.ID, class.TenantID, class.Name, class.GradeLevel, class.TeacherID, class.Capacity, class.Status)
	return err
}

func (r *classRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Class, error) {
	query := `
		SELECT id, tenant_id, name, grade_level, teacher_id, capacity, status, created_at, updated_at
		FROM classes
		WHERE tenant_id = $1 AND id = $2
	`
	class := &models.Class{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&class.ID, &class.TenantID, &class.Name, &class.GradeLevel, &class.TeacherID, &class.Capacity, &class.Status, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return class, nil
}

func (r *classRepo) Update(ctx context.Context, class *models.Class) error {
	query := `
		UPDATE classes
		SET name = $1, grade_level = $2, teacher_id = $3, capacity = $4, status = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, class.Name, class.GradeLevel, class.TeacherID, class.Capacity, class.Status, class.TenantID, class.ID)
	return err
}

func (r *classRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE classes SET status = 'deactivated', updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *classRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Class, error) {
	query := `
		SELECT id, tenant_id, name, grade_level, teacher_id, capacity, status, created_at, updated_at
		FROM classes
		WHERE tenant_id = $1
		ORDER BY grade_level, name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		class := &models.Class{}
		if err := rows.Scan(&class.ID, &class.TenantID, &class.Name, &class.GradeLevel, &class.TeacherID, &class.Capacity, &class.Status, &class.CreatedAt, &class.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByClass(ctx context.Context, tenantID, classID uuid.UUID) ([]*models.Schedule, error)
	ListByTeacher(ctx context.Context, tenantID, teacherID uuid.UUID) ([]*models.Schedule, error)
}

type scheduleRepo struct {
	db DB
}

func NewScheduleRepo(db DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

const scheduleColumns = `id, tenant_id, class_id, teacher_id, subject, day_of_week, start_time, end_time, room_id, created_at, updated_at`

func (r *scheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (id, tenant_id, class_id, teacher_id, subject, day_of_week, start_time, end_time, room_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, schedule.ID, schedule.TenantID, schedule.ClassID, schedule.TeacherID, schedule.Subject, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime, schedule.RoomID)
	return err
}

func (r *scheduleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE tenant_id = $1 AND id = $2`
	schedule := &models.Schedule{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&schedule.ID, &schedule.TenantID, &schedule.ClassID, &schedule.TeacherID, &schedule.Subject, &schedule.DayOfWeek, &schedule.StartTime, &schedule.EndTime, &schedule.RoomID, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	query := `
		UPDATE schedules
		SET teacher_id = $1, subject = $2, day_of_week = $3, start_time = $4, end_time = $5, room_id = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, schedule.TeacherID, schedule.Subject, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime, schedule.RoomID, schedule.TenantID, schedule.ID)
	return err
}

func (r *scheduleRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *scheduleRepo) ListByClass(ctx context.Context, tenantID, classID uuid.UUID) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE tenant_id = $1 AND class_id = $2 ORDER BY day_of_week, start_time`
	return r.list(ctx, query, tenantID, classID)
}

func (r *scheduleRepo) ListByTeacher(ctx context.Context, tenantID, teacherID uuid.UUID) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE tenant_id = $1 AND teacher_id = $2 ORDER BY day_of_week, start_time`
	return r.list(ctx, query, tenantID, teacherID)
}

func (r *scheduleRepo) list(ctx context.Context, query string, args ...any) ([]*models.Schedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule := &models.Schedule{}
		if err := rows.Scan(&schedule.ID, &schedule.TenantID, &schedule.ClassID, &schedule.TeacherID, &schedule.Subject, &schedule.DayOfWeek, &schedule.StartTime, &schedule.EndTime, &schedule.RoomID, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// AttendanceFilter narrows attendance listings; zero values are ignored.
type AttendanceFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type AttendanceRepository interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AttendanceRecord, error)
	List(ctx context.Context, tenantID uuid.UUID, filter AttendanceFilter) ([]*models.AttendanceRecord, error)
}

type attendanceRepo struct {
	db DB
}

func NewAttendanceRepo(db DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// Upsert keys on (tenant, student, date) so re-marking a day overwrites the
// earlier status instead of creating a duplicate.
func (r *attendanceRepo) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, tenant_id, student_id, class_id, date, status, notes, marked_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (tenant_id, student_id, date)
		DO UPDATE SET status = $6, notes = $7, marked_by = $8, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.TenantID, record.StudentID, record.ClassID, record.Date, record.Status, record.Notes, record.MarkedBy)
	return err
}

func (r *attendanceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AttendanceRecord, error) {
	query := `
		SELECT id, tenant_id, student_id, class_id, date, status, notes, marked_by, created_at, updated_at
		FROM attendance_records
		WHERE tenant_id = $1 AND id = $2
	`
	record := &models.AttendanceRecord{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&record.ID, &record.TenantID, &record.StudentID, &record.ClassID, &record.Date, &record.Status, &record.Notes, &record.MarkedBy, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *attendanceRepo) List(ctx context.Context, tenantID uuid.UUID, filter AttendanceFilter) ([]*models.AttendanceRecord, error) {
	if filter.Limit == 0 {
		filter.Limit = 100
	}

	builder := sq.Select("id, tenant_id, student_id, class_id, date, status, notes, marked_by, created_at, updated_at").
		From("attendance_records").
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.StudentID != nil {
		builder = builder.Where(sq.Eq{"student_id": *filter.StudentID})
	}
	if filter.ClassID != nil {
		builder = builder.Where(sq.Eq{"class_id": *filter.ClassID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"date": *filter.To})
	}

	query, args, err := builder.
		OrderBy("date DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		record := &models.AttendanceRecord{}
		if err := rows.Scan(&record.ID, &record.TenantID, &record.StudentID, &record.ClassID, &record.Date, &record.Status, &record.Notes, &record.MarkedBy, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

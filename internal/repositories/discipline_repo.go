package repositories

import (
	"context"
	"strconv"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type DisciplineRepository interface {
	Create(ctx context.Context, record *models.DisciplineRecord) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.DisciplineRecord, error)
	Resolve(ctx context.Context, record *models.DisciplineRecord) error
	List(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.DisciplineRecord, error)
}

type disciplineRepo struct {
	db DB
}

func NewDisciplineRepo(db DB) DisciplineRepository {
	return &disciplineRepo{db: db}
}

const disciplineColumns = `id, tenant_id, student_id, reported_by, category, description, occurred_at, status, resolution, resolved_by, resolved_at, created_at, updated_at`

func (r *disciplineRepo) Create(ctx context.Context, record *models.DisciplineRecord) error {
	query := `
		INSERT INTO discipline_records (id, tenant_id, student_id, reported_by, category, description, occurred_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.TenantID, record.StudentID, record.ReportedBy, record.Category, record.Description, record.OccurredAt, record.Status)
	return err
}

func (r *disciplineRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.DisciplineRecord, error) {
	query := `SELECT ` + disciplineColumns + ` FROM discipline_records WHERE tenant_id = $1 AND id = $2`
	return scanDiscipline(r.db.QueryRow(ctx, query, tenantID, id))
}

// Resolve only applies to OPEN records; resolution is one-way.
func (r *disciplineRepo) Resolve(ctx context.Context, record *models.DisciplineRecord) error {
	query := `
		UPDATE discipline_records
		SET status = 'RESOLVED', resolution = $1, resolved_by = $2, resolved_at = NOW(), updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4 AND status = 'OPEN'
	`
	_, err := r.db.Exec(ctx, query, record.Resolution, record.ResolvedBy, record.TenantID, record.ID)
	return err
}

func (r *disciplineRepo) List(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.DisciplineRecord, error) {
	query := `SELECT ` + disciplineColumns + ` FROM discipline_records WHERE tenant_id = $1`
	args := []any{tenantID}
	n := 1
	if studentID != nil {
		n++
		query += ` AND student_id = $2`
		args = append(args, *studentID)
	}
	if status != "" {
		n++
		query += ` AND status = $` + strconv.Itoa(n)
		args = append(args, status)
	}
	query += ` ORDER BY occurred_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.DisciplineRecord
	for rows.Next() {
		record, err := scanDiscipline(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanDiscipline(row rowScanner) (*models.DisciplineRecord, error) {
	record := &models.DisciplineRecord{}
	err := row.Scan(&record.ID, &record.TenantID, &record.StudentID, &record.ReportedBy, &record.Category, &record.Description, &record.OccurredAt, &record.Status, &record.Resolution, &record.ResolvedBy, &record.ResolvedAt, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"scholaris/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AuditLogRepository interface {
	Create(ctx context.Context, exec Executor, log *models.AuditLog) error
	List(ctx context.Context, tenantID uuid.UUID, filters models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogRepo struct {
	db DB
}

func NewAuditLogRepo(db DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

// Create accepts an Executor so the audit row can join the transaction of
// the mutation it records.
func (r *auditLogRepo) Create(ctx context.Context, exec Executor, log *models.AuditLog) error {
	if exec == nil {
		exec = r.db
	}
	oldValues, err := json.Marshal(log.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old values: %w", err)
	}
	newValues, err := json.Marshal(log.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new values: %w", err)
	}
	query := `
		INSERT INTO audit_logs (id, tenant_id, table_name, record_id, action, old_values, new_values, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err = exec.Exec(ctx, query, log.ID, log.TenantID, log.TableName, log.RecordID, log.Action, oldValues, newValues, log.ChangedBy)
	return err
}

func (r *auditLogRepo) List(ctx context.Context, tenantID uuid.UUID, filters models.AuditLogFilters) ([]*models.AuditLog, error) {
	builder := sq.Select("id", "tenant_id", "table_name", "record_id", "action", "old_values", "new_values", "changed_by", "created_at").
		From("audit_logs").
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filters.TableName != nil {
		builder = builder.Where(sq.Eq{"table_name": *filters.TableName})
	}
	if filters.RecordID != nil {
		builder = builder.Where(sq.Eq{"record_id": *filters.RecordID})
	}
	if filters.Action != nil {
		builder = builder.Where(sq.Eq{"action": *filters.Action})
	}
	if filters.ChangedBy != nil {
		builder = builder.Where(sq.Eq{"changed_by": *filters.ChangedBy})
	}
	if filters.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filters.StartDate})
	}
	if filters.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filters.EndDate})
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	builder = builder.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(uint64(filters.Offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log := &models.AuditLog{}
		var rawOld, rawNew []byte
		if err := rows.Scan(&log.ID, &log.TenantID, &log.TableName, &log.RecordID, &log.Action, &rawOld, &rawNew, &log.ChangedBy, &log.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawOld) > 0 {
			if err := json.Unmarshal(rawOld, &log.OldValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old values: %w", err)
			}
		}
		if len(rawNew) > 0 {
			if err := json.Unmarshal(rawNew, &log.NewValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new values: %w", err)
			}
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

package repositories

import (
	"context"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type CurriculumRepository interface {
	CreateMap(ctx context.Context, m *models.CurriculumMap) error
	GetMap(ctx context.Context, tenantID, id uuid.UUID) (*models.CurriculumMap, error)
	DeleteMap(ctx context.Context, tenantID, id uuid.UUID) error
	ListMaps(ctx context.Context, tenantID uuid.UUID, schoolYear string) ([]*models.CurriculumMap, error)
	CreateUnit(ctx context.Context, unit *models.CurriculumUnit) error
	ListUnits(ctx context.Context, tenantID, mapID uuid.UUID) ([]*models.CurriculumUnit, error)
	CreateTopic(ctx context.Context, topic *models.CurriculumTopic) error
	ListTopics(ctx context.Context, tenantID, unitID uuid.UUID) ([]*models.CurriculumTopic, error)
}

type curriculumRepo struct {
	db DB
}

func NewCurriculumRepo(db DB) CurriculumRepository {
	return &curriculumRepo{db: db}
}

func (r *curriculumRepo) CreateMap(ctx context.Context, m *models.CurriculumMap) error {
	query := `
		INSERT INTO curriculum_maps (id, tenant_id, subject, grade_level, school_year, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.TenantID, m.Subject, m.GradeLevel, m.SchoolYear, m.CreatedBy)
	return err
}

func (r *curriculumRepo) GetMap(ctx context.Context, tenantID, id uuid.UUID) (*models.CurriculumMap, error) {
	query := `
		SELECT id, tenant_id, subject, grade_level, school_year, created_by, created_at, updated_at
		FROM curriculum_maps
		WHERE tenant_id = $1 AND id = $2
	`
	m := &models.CurriculumMap{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&m.ID, &m.TenantID, &m.Subject, &m.GradeLevel, &m.SchoolYear, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMap cascades to units and topics via FK constraints.
func (r *curriculumRepo) DeleteMap(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM curriculum_maps WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *curriculumRepo) ListMaps(ctx context.Context, tenantID uuid.UUID, schoolYear string) ([]*models.CurriculumMap, error) {
	query := `
		SELECT id, tenant_id, subject, grade_level, school_year, created_by, created_at, updated_at
		FROM curriculum_maps
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if schoolYear != "" {
		query += ` AND school_year = $2`
		args = append(args, schoolYear)
	}
	query += ` ORDER BY grade_level, subject`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []*models.CurriculumMap
	for rows.Next() {
		m := &models.CurriculumMap{}
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Subject, &m.GradeLevel, &m.SchoolYear, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

func (r *curriculumRepo) CreateUnit(ctx context.Context, unit *models.CurriculumUnit) error {
	query := `
		INSERT INTO curriculum_units (id, tenant_id, map_id, title, position, duration_weeks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, unit.ID, unit.TenantID, unit.MapID, unit.Title, unit.Position, unit.DurationWks)
	return err
}

func (r *curriculumRepo) ListUnits(ctx context.Context, tenantID, mapID uuid.UUID) ([]*models.CurriculumUnit, error) {
	query := `
		SELECT id, tenant_id, map_id, title, position, duration_weeks, created_at
		FROM curriculum_units
		WHERE tenant_id = $1 AND map_id = $2
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, tenantID, mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*models.CurriculumUnit
	for rows.Next() {
		unit := &models.CurriculumUnit{}
		if err := rows.Scan(&unit.ID, &unit.TenantID, &unit.MapID, &unit.Title, &unit.Position, &unit.DurationWks, &unit.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func (r *curriculumRepo) CreateTopic(ctx context.Context, topic *models.CurriculumTopic) error {
	query := `
		INSERT INTO curriculum_topics (id, tenant_id, unit_id, title, position, objective, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, topic.ID, topic.TenantID, topic.UnitID, topic.Title, topic.Position, topic.Objective)
	return err
}

func (r *curriculumRepo) ListTopics(ctx context.Context, tenantID, unitID uuid.UUID) ([]*models.CurriculumTopic, error) {
	query := `
		SELECT id, tenant_id, unit_id, title, position, objective, created_at
		FROM curriculum_topics
		WHERE tenant_id = $1 AND unit_id = $2
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, tenantID, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*models.CurriculumTopic
	for rows.Next() {
		topic := &models.CurriculumTopic{}
		if err := rows.Scan(&topic.ID, &topic.TenantID, &topic.UnitID, &topic.Title, &topic.Position, &topic.Objective, &topic.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

type TranscriptRepository interface {
	Create(ctx context.Context, transcript *models.Transcript) error
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID, schoolYear string) ([]*models.Transcript, error)
}

type transcriptRepo struct {
	db DB
}

func NewTranscriptRepo(db DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Create(ctx context.Context, transcript *models.Transcript) error {
	query := `
		INSERT INTO transcripts (id, tenant_id, student_id, school_year, term, subject, grade, remarks, issued_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, transcript.ID, transcript.TenantID, transcript.StudentID, transcript.SchoolYear, transcript.Term, transcript.Subject, transcript.Grade, transcript.Remarks, transcript.IssuedBy)
	return err
}

func (r *transcriptRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID, schoolYear string) ([]*models.Transcript, error) {
	query := `
		SELECT id, tenant_id, student_id, school_year, term, subject, grade, remarks, issued_by, created_at
		FROM transcripts
		WHERE tenant_id = $1 AND student_id = $2
	`
	args := []any{tenantID, studentID}
	if schoolYear != "" {
		query += ` AND school_year = $3`
		args = append(args, schoolYear)
	}
	query += ` ORDER BY school_year, term, subject`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*models.Transcript
	for rows.Next() {
		transcript := &models.Transcript{}
		if err := rows.Scan(&transcript.ID, &transcript.TenantID, &transcript.StudentID, &transcript.SchoolYear, &transcript.Term, &transcript.Subject, &transcript.Grade, &transcript.Remarks, &transcript.IssuedBy, &transcript.CreatedAt); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, transcript)
	}
	return transcripts, rows.Err()
}

type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Achievement, error)
}

type achievementRepo struct {
	db DB
}

func NewAchievementRepo(db DB) AchievementRepository {
	return &achievementRepo{db: db}
}

func (r *achievementRepo) Create(ctx context.Context, achievement *models.Achievement) error {
	query := `
		INSERT INTO achievements (id, tenant_id, student_id, title, description, awarded_at, awarded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, achievement.ID, achievement.TenantID, achievement.StudentID, achievement.Title, achievement.Description, achievement.AwardedAt, achievement.AwardedBy)
	return err
}

func (r *achievementRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM achievements WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *achievementRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Achievement, error) {
	query := `
		SELECT id, tenant_id, student_id, title, description, awarded_at, awarded_by, created_at
		FROM achievements
		WHERE tenant_id = $1 AND student_id = $2
		ORDER BY awarded_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		achievement := &models.Achievement{}
		if err := rows.Scan(&achievement.ID, &achievement.TenantID, &achievement.StudentID, &achievement.Title, &achievement.Description, &achievement.AwardedAt, &achievement.AwardedBy, &achievement.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, achievement)
	}
	return achievements, rows.Err()
}

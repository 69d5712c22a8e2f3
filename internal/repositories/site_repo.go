package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SiteRepository interface {
	CreatePage(ctx context.Context, page *models.SitePage) error
	GetPage(ctx context.Context, tenantID, id uuid.UUID) (*models.SitePage, error)
	GetPageBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error)
	UpdatePage(ctx context.Context, page *models.SitePage) error
	DeletePage(ctx context.Context, tenantID, id uuid.UUID) error
	ListPages(ctx context.Context, tenantID uuid.UUID, publishedOnly bool) ([]*models.SitePage, error)
}

type siteRepo struct {
	db DB
}

func NewSiteRepo(db DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) CreatePage(ctx context.Context, page *models.SitePage) error {
	query := `
		INSERT INTO site_pages (id, tenant_id, slug, title, content, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, page.ID, page.TenantID, page.Slug, page.Title, page.Content, page.Published)
	return err
}

func (r *siteRepo) GetPage(ctx context.Context, tenantID, id uuid.UUID) (*models.SitePage, error) {
	query := `
		SELECT id, tenant_id, slug, title, content, published, created_at, updated_at
		FROM site_pages
		WHERE tenant_id = $1 AND id = $2
	`
	return r.scanPage(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetPageBySlug returns nil, nil when no published page matches, so the
// public handler can 404 without treating it as an error.
func (r *siteRepo) GetPageBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error) {
	query := `
		SELECT id, tenant_id, slug, title, content, published, created_at, updated_at
		FROM site_pages
		WHERE tenant_id = $1 AND slug = $2 AND published = true
	`
	page, err := r.scanPage(r.db.QueryRow(ctx, query, tenantID, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return page, err
}

func (r *siteRepo) UpdatePage(ctx context.Context, page *models.SitePage) error {
	query := `
		UPDATE site_pages
		SET slug = $1, title = $2, content = $3, published = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, page.Slug, page.Title, page.Content, page.Published, page.TenantID, page.ID)
	return err
}

func (r *siteRepo) DeletePage(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM site_pages WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *siteRepo) ListPages(ctx context.Context, tenantID uuid.UUID, publishedOnly bool) ([]*models.SitePage, error) {
	query := `
		SELECT id, tenant_id, slug, title, content, published, created_at, updated_at
		FROM site_pages
		WHERE tenant_id = $1
	`
	if publishedOnly {
		query += ` AND published = true`
	}
	query += ` ORDER BY slug`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.SitePage
	for rows.Next() {
		page, err := r.scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (r *siteRepo) scanPage(row rowScanner) (*models.SitePage, error) {
	page := &models.SitePage{}
	err := row.Scan(&page.ID, &page.TenantID, &page.Slug, &page.Title, &page.Content, &page.Published, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return page, nil
}

type FormRepository interface {
	CreateDefinition(ctx context.Context, form *models.FormDefinition) error
	GetDefinition(ctx context.Context, tenantID, id uuid.UUID) (*models.FormDefinition, error)
	GetPublishedDefinition(ctx context.Context, id uuid.UUID) (*models.FormDefinition, error)
	UpdateDefinition(ctx context.Context, form *models.FormDefinition) error
	ListDefinitions(ctx context.Context, tenantID uuid.UUID) ([]*models.FormDefinition, error)
	CreateSubmission(ctx context.Context, submission *models.FormSubmission) error
	ListSubmissions(ctx context.Context, tenantID, formID uuid.UUID, limit, offset int) ([]*models.FormSubmission, error)
}

type formRepo struct {
	db DB
}

func NewFormRepo(db DB) FormRepository {
	return &formRepo{db: db}
}

func (r *formRepo) CreateDefinition(ctx context.Context, form *models.FormDefinition) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal form fields: %w", err)
	}
	query := `
		INSERT INTO form_definitions (id, tenant_id, title, version, fields, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, form.ID, form.TenantID, form.Title, form.Version, fields, form.Published)
	return err
}

func (r *formRepo) GetDefinition(ctx context.Context, tenantID, id uuid.UUID) (*models.FormDefinition, error) {
	query := `
		SELECT id, tenant_id, title, version, fields, published, created_at, updated_at
		FROM form_definitions
		WHERE tenant_id = $1 AND id = $2
	`
	return scanFormDefinition(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetPublishedDefinition is looked up by id alone: the public submit route
// carries no tenant context until the form resolves it. Returns nil, nil
// when the form is missing or unpublished.
func (r *formRepo) GetPublishedDefinition(ctx context.Context, id uuid.UUID) (*models.FormDefinition, error) {
	query := `
		SELECT id, tenant_id, title, version, fields, published, created_at, updated_at
		FROM form_definitions
		WHERE id = $1 AND published = true
	`
	form, err := scanFormDefinition(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return form, err
}

// UpdateDefinition bumps the version so stored submissions keep pointing at
// the field set they were validated against.
func (r *formRepo) UpdateDefinition(ctx context.Context, form *models.FormDefinition) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal form fields: %w", err)
	}
	query := `
		UPDATE form_definitions
		SET title = $1, version = version + 1, fields = $2, published = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	_, err = r.db.Exec(ctx, query, form.Title, fields, form.Published, form.TenantID, form.ID)
	return err
}

func (r *formRepo) ListDefinitions(ctx context.Context, tenantID uuid.UUID) ([]*models.FormDefinition, error) {
	query := `
		SELECT id, tenant_id, title, version, fields, published, created_at, updated_at
		FROM form_definitions
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*models.FormDefinition
	for rows.Next() {
		form, err := scanFormDefinition(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

func (r *formRepo) CreateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	values, err := json.Marshal(submission.Values)
	if err != nil {
		return fmt.Errorf("failed to marshal submission values: %w", err)
	}
	query := `
		INSERT INTO form_submissions (id, tenant_id, form_id, form_version, values, submitter_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err = r.db.Exec(ctx, query, submission.ID, submission.TenantID, submission.FormID, submission.FormVersion, values, submission.SubmitterIP)
	return err
}

func (r *formRepo) ListSubmissions(ctx context.Context, tenantID, formID uuid.UUID, limit, offset int) ([]*models.FormSubmission, error) {
	query := `
		SELECT id, tenant_id, form_id, form_version, values, submitter_ip, created_at
		FROM form_submissions
		WHERE tenant_id = $1 AND form_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, formID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*models.FormSubmission
	for rows.Next() {
		submission := &models.FormSubmission{}
		var rawValues []byte
		if err := rows.Scan(&submission.ID, &submission.TenantID, &submission.FormID, &submission.FormVersion, &rawValues, &submission.SubmitterIP, &submission.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawValues) > 0 {
			if err := json.Unmarshal(rawValues, &submission.Values); err != nil {
				return nil, fmt.Errorf("failed to unmarshal submission values: %w", err)
			}
		}
		submissions = append(submissions, submission)
	}
	return submissions, rows.Err()
}

func scanFormDefinition(row rowScanner) (*models.FormDefinition, error) {
	form := &models.FormDefinition{}
	var rawFields []byte
	err := row.Scan(&form.ID, &form.TenantID, &form.Title, &form.Version, &rawFields, &form.Published, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(rawFields) > 0 {
		if err := json.Unmarshal(rawFields, &form.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal form fields: %w", err)
		}
	}
	return form, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholaris/internal/caching"
	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrFormNotFound     = errors.New("form not found")
	ErrSlugTaken        = errors.New("a page with this slug already exists")
	ErrInvalidFormInput = errors.New("submission does not match the form")
)

const sitePageCacheTTL = 10 * time.Minute

// SiteService manages a tenant's public website pages and form definitions,
// plus the anonymous submission flow for published forms.
type SiteService interface {
	CreatePage(ctx context.Context, req *PageRequest) (*models.SitePage, error)
	UpdatePage(ctx context.Context, tenantID, pageID uuid.UUID, req *PageRequest) (*models.SitePage, error)
	DeletePage(ctx context.Context, tenantID, pageID uuid.UUID) error
	ListPages(ctx context.Context, tenantID uuid.UUID) ([]*models.SitePage, error)
	GetPublicPage(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error)

	CreateForm(ctx context.Context, tenantID uuid.UUID, req *FormRequest) (*models.FormDefinition, error)
	UpdateForm(ctx context.Context, tenantID, formID uuid.UUID, req *FormRequest) (*models.FormDefinition, error)
	ListForms(ctx context.Context, tenantID uuid.UUID) ([]*models.FormDefinition, error)
	GetForm(ctx context.Context, tenantID, formID uuid.UUID) (*models.FormDefinition, error)
	GetPublicForm(ctx context.Context, tenantID, formID uuid.UUID) (*models.FormDefinition, error)
	SubmitForm(ctx context.Context, tenantID, formID uuid.UUID, values map[string]string, submitterIP string) (*models.FormSubmission, error)
	ListSubmissions(ctx context.Context, tenantID, formID uuid.UUID, limit, offset int) ([]*models.FormSubmission, error)
}

type PageRequest struct {
	TenantID  uuid.UUID `json:"-"`
	Slug      string    `json:"slug" validate:"required,max=120"`
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
}

type FormRequest struct {
	Title     string             `json:"title" validate:"required,max=200"`
	Fields    []models.FormField `json:"fields" validate:"required"`
	Published bool               `json:"published"`
}

type siteService struct {
	siteRepo repositories.SiteRepository
	formRepo repositories.FormRepository
	cache    caching.CacheService
	logger   zerolog.Logger
}

func NewSiteService(siteRepo repositories.SiteRepository, formRepo repositories.FormRepository, cache caching.CacheService, logger zerolog.Logger) SiteService {
	return &siteService{
		siteRepo: siteRepo,
		formRepo: formRepo,
		cache:    cache,
		logger:   logger,
	}
}

func (s *siteService) CreatePage(ctx context.Context, req *PageRequest) (*models.SitePage, error) {
	slug := normalizeSlug(req.Slug)
	existing, err := s.siteRepo.GetPageBySlug(ctx, req.TenantID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	page := &models.SitePage{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		Slug:      slug,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}
	if err := s.siteRepo.CreatePage(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

func (s *siteService) UpdatePage(ctx context.Context, tenantID, pageID uuid.UUID, req *PageRequest) (*models.SitePage, error) {
	page, err := s.siteRepo.GetPage(ctx, tenantID, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	oldSlug := page.Slug
	page.Slug = normalizeSlug(req.Slug)
	page.Title = req.Title
	page.Content = req.Content
	page.Published = req.Published

	if err := s.siteRepo.UpdatePage(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}

	s.invalidatePage(ctx, tenantID, oldSlug)
	if page.Slug != oldSlug {
		s.invalidatePage(ctx, tenantID, page.Slug)
	}
	return page, nil
}

func (s *siteService) DeletePage(ctx context.Context, tenantID, pageID uuid.UUID) error {
	page, err := s.siteRepo.GetPage(ctx, tenantID, pageID)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	if err := s.siteRepo.DeletePage(ctx, tenantID, pageID); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	s.invalidatePage(ctx, tenantID, page.Slug)
	return nil
}

func (s *siteService) ListPages(ctx context.Context, tenantID uuid.UUID) ([]*models.SitePage, error) {
	return s.siteRepo.ListPages(ctx, tenantID, false)
}

// GetPublicPage serves published pages cache-aside. A nil page with nil
// error means the page does not exist (or is unpublished).
func (s *siteService) GetPublicPage(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error) {
	slug = normalizeSlug(slug)

	cached, err := s.cache.GetSitePage(ctx, tenantID, slug)
	if err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("site page cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	page, err := s.siteRepo.GetPageBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}

	if err := s.cache.SetSitePage(ctx, tenantID, page, sitePageCacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("site page cache write failed")
	}
	return page, nil
}

func (s *siteService) invalidatePage(ctx context.Context, tenantID uuid.UUID, slug string) {
	if err := s.cache.DeleteSitePage(ctx, tenantID, slug); err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("site page cache invalidation failed")
	}
}

func (s *siteService) CreateForm(ctx context.Context, tenantID uuid.UUID, req *FormRequest) (*models.FormDefinition, error) {
	form := &models.FormDefinition{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Title:     req.Title,
		Version:   1,
		Fields:    req.Fields,
		Published: req.Published,
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.formRepo.CreateDefinition(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	return form, nil
}

func (s *siteService) UpdateForm(ctx context.Context, tenantID, formID uuid.UUID, req *FormRequest) (*models.FormDefinition, error) {
	form, err := s.formRepo.GetDefinition(ctx, tenantID, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	form.Title = req.Title
	form.Fields = req.Fields
	form.Published = req.Published
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.formRepo.UpdateDefinition(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	form.Version++
	return form, nil
}

func (s *siteService) ListForms(ctx context.Context, tenantID uuid.UUID) ([]*models.FormDefinition, error) {
	return s.formRepo.ListDefinitions(ctx, tenantID)
}

func (s *siteService) GetForm(ctx context.Context, tenantID, formID uuid.UUID) (*models.FormDefinition, error) {
	return s.formRepo.GetDefinition(ctx, tenantID, formID)
}

func (s *siteService) GetPublicForm(ctx context.Context, tenantID, formID uuid.UUID) (*models.FormDefinition, error) {
	form, err := s.formRepo.GetPublishedDefinition(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	// A form reached through another school's subdomain does not exist
	// as far as that site is concerned.
	if form == nil || form.TenantID != tenantID {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// SubmitForm is the anonymous public entry point. Values are validated
// against the current published definition and stored with its version.
func (s *siteService) SubmitForm(ctx context.Context, tenantID, formID uuid.UUID, values map[string]string, submitterIP string) (*models.FormSubmission, error) {
	form, err := s.GetPublicForm(ctx, tenantID, formID)
	if err != nil {
		return nil, err
	}
	if err := form.ValidateSubmission(values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormInput, err)
	}

	submission := &models.FormSubmission{
		ID:          uuid.New(),
		TenantID:    form.TenantID,
		FormID:      form.ID,
		FormVersion: form.Version,
		Values:      values,
		SubmitterIP: submitterIP,
	}
	if err := s.formRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.logger.Info().Str("form_id", form.ID.String()).Str("tenant_id", form.TenantID.String()).Msg("form submission received")
	return submission, nil
}

func (s *siteService) ListSubmissions(ctx context.Context, tenantID, formID uuid.UUID, limit, offset int) ([]*models.FormSubmission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.formRepo.ListSubmissions(ctx, tenantID, formID, limit, offset)
}

func normalizeSlug(slug string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
}

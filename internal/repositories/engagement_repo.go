package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"scholaris/internal/models"

	"github.com/google/uuid"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, audience string, limit, offset int) ([]*models.Announcement, error)
}

type announcementRepo struct {
	db DB
}

func NewAnnouncementRepo(db DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, tenant_id, title, body, audience, posted_by, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, announcement.ID, announcement.TenantID, announcement.Title, announcement.Body, announcement.Audience, announcement.PostedBy, announcement.ExpiresAt)
	return err
}

func (r *announcementRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Announcement, error) {
	query := `
		SELECT id, tenant_id, title, body, audience, posted_by, expires_at, created_at, updated_at
		FROM announcements
		WHERE tenant_id = $1 AND id = $2
	`
	announcement := &models.Announcement{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&announcement.ID, &announcement.TenantID, &announcement.Title, &announcement.Body, &announcement.Audience, &announcement.PostedBy, &announcement.ExpiresAt, &announcement.CreatedAt, &announcement.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return announcement, nil
}

func (r *announcementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1, body = $2, audience = $3, expires_at = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, announcement.Title, announcement.Body, announcement.Audience, announcement.ExpiresAt, announcement.TenantID, announcement.ID)
	return err
}

// Announcements are hard-deleted.
func (r *announcementRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *announcementRepo) List(ctx context.Context, tenantID uuid.UUID, audience string, limit, offset int) ([]*models.Announcement, error) {
	query := `
		SELECT id, tenant_id, title, body, audience, posted_by, expires_at, created_at, updated_at
		FROM announcements
		WHERE tenant_id = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`
	args := []any{tenantID}
	if audience != "" {
		query += ` AND audience IN ('all', $2) ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, audience, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		announcement := &models.Announcement{}
		if err := rows.Scan(&announcement.ID, &announcement.TenantID, &announcement.Title, &announcement.Body, &announcement.Audience, &announcement.PostedBy, &announcement.ExpiresAt, &announcement.CreatedAt, &announcement.UpdatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, rows.Err()
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Event, error)
}

type eventRepo struct {
	db DB
}

func NewEventRepo(db DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, tenant_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.TenantID, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt, event.CreatedBy)
	return err
}

func (r *eventRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	query := `
		SELECT id, tenant_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at
		FROM events
		WHERE tenant_id = $1 AND id = $2
	`
	event := &models.Event{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&event.ID, &event.TenantID, &event.Title, &event.Description, &event.Location, &event.StartsAt, &event.EndsAt, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt, event.TenantID, event.ID)
	return err
}

func (r *eventRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM events WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *eventRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Event, error) {
	query := `
		SELECT id, tenant_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at
		FROM events
		WHERE tenant_id = $1
		ORDER BY starts_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.TenantID, &event.Title, &event.Description, &event.Location, &event.StartsAt, &event.EndsAt, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, tenant_id, user_id, title, body, kind, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	`
	_, err := r.db.Exec(ctx, query, notification.ID, notification.TenantID, notification.UserID, notification.Title, notification.Body, notification.Kind)
	return err
}

func (r *notificationRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, tenant_id, user_id, title, body, kind, read, read_at, created_at
		FROM notifications
		WHERE tenant_id = $1 AND user_id = $2
	`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		if err := rows.Scan(&notification.ID, &notification.TenantID, &notification.UserID, &notification.Title, &notification.Body, &notification.Kind, &notification.Read, &notification.ReadAt, &notification.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

// MarkRead also checks user_id so a user can only touch their own rows.
func (r *notificationRepo) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE tenant_id = $1 AND user_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, tenantID, userID, id)
	return err
}

type CommunityRepository interface {
	Create(ctx context.Context, post *models.CommunityPost) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CommunityPost, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CommunityPost, error)
}

type communityRepo struct {
	db DB
}

func NewCommunityRepo(db DB) CommunityRepository {
	return &communityRepo{db: db}
}

func (r *communityRepo) Create(ctx context.Context, post *models.CommunityPost) error {
	metadata, err := json.Marshal(post.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal post metadata: %w", err)
	}
	query := `
		INSERT INTO community_posts (id, tenant_id, author_id, title, body, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, post.ID, post.TenantID, post.AuthorID, post.Title, post.Body, metadata)
	return err
}

func (r *communityRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CommunityPost, error) {
	query := `
		SELECT id, tenant_id, author_id, title, body, metadata, created_at, updated_at
		FROM community_posts
		WHERE tenant_id = $1 AND id = $2
	`
	return r.scanPost(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *communityRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM community_posts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *communityRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CommunityPost, error) {
	query := `
		SELECT id, tenant_id, author_id, title, body, metadata, created_at, updated_at
		FROM community_posts
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.CommunityPost
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *communityRepo) scanPost(row rowScanner) (*models.CommunityPost, error) {
	post := &models.CommunityPost{}
	var rawMetadata []byte
	err := row.Scan(&post.ID, &post.TenantID, &post.AuthorID, &post.Title, &post.Body, &rawMetadata, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &post.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal post metadata: %w", err)
		}
	}
	return post, nil
}

type ConsentRepository interface {
	CreateForm(ctx context.Context, form *models.ConsentForm) error
	GetForm(ctx context.Context, tenantID, id uuid.UUID) (*models.ConsentForm, error)
	ListForms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ConsentForm, error)
	UpsertResponse(ctx context.Context, response *models.ConsentResponse) error
	ListResponses(ctx context.Context, tenantID, formID uuid.UUID) ([]*models.ConsentResponse, error)
}

type consentRepo struct {
	db DB
}

func NewConsentRepo(db DB) ConsentRepository {
	return &consentRepo{db: db}
}

func (r *consentRepo) CreateForm(ctx context.Context, form *models.ConsentForm) error {
	query := `
		INSERT INTO consent_forms (id, tenant_id, title, description, event_id, deadline, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, form.ID, form.TenantID, form.Title, form.Description, form.EventID, form.Deadline, form.CreatedBy)
	return err
}

func (r *consentRepo) GetForm(ctx context.Context, tenantID, id uuid.UUID) (*models.ConsentForm, error) {
	query := `
		SELECT id, tenant_id, title, description, event_id, deadline, created_by, created_at, updated_at
		FROM consent_forms
		WHERE tenant_id = $1 AND id = $2
	`
	form := &models.ConsentForm{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&form.ID, &form.TenantID, &form.Title, &form.Description, &form.EventID, &form.Deadline, &form.CreatedBy, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return form, nil
}

func (r *consentRepo) ListForms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ConsentForm, error) {
	query := `
		SELECT id, tenant_id, title, description, event_id, deadline, created_by, created_at, updated_at
		FROM consent_forms
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*models.ConsentForm
	for rows.Next() {
		form := &models.ConsentForm{}
		if err := rows.Scan(&form.ID, &form.TenantID, &form.Title, &form.Description, &form.EventID, &form.Deadline, &form.CreatedBy, &form.CreatedAt, &form.UpdatedAt); err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// UpsertResponse keys on (form, student) so a guardian may change their
// answer until the deadline.
func (r *consentRepo) UpsertResponse(ctx context.Context, response *models.ConsentResponse) error {
	query := `
		INSERT INTO consent_responses (id, tenant_id, form_id, student_id, guardian_id, granted, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (tenant_id, form_id, student_id)
		DO UPDATE SET guardian_id = $5, granted = $6, responded_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, response.ID, response.TenantID, response.FormID, response.StudentID, response.GuardianID, response.Granted)
	return err
}

func (r *consentRepo) ListResponses(ctx context.Context, tenantID, formID uuid.UUID) ([]*models.ConsentResponse, error) {
	query := `
		SELECT id, tenant_id, form_id, student_id, guardian_id, granted, responded_at
		FROM consent_responses
		WHERE tenant_id = $1 AND form_id = $2
		ORDER BY responded_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*models.ConsentResponse
	for rows.Next() {
		response := &models.ConsentResponse{}
		if err := rows.Scan(&response.ID, &response.TenantID, &response.FormID, &response.StudentID, &response.GuardianID, &response.Granted, &response.RespondedAt); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

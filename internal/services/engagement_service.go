package services

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EngagementService covers announcements, events, notifications, community
// posts and consent forms.
type EngagementService interface {
	PostAnnouncement(ctx context.Context, announcement *models.Announcement) error
	GetAnnouncement(ctx context.Context, tenantID, id uuid.UUID) (*models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, tenantID, id uuid.UUID) error
	ListAnnouncements(ctx context.Context, tenantID uuid.UUID, audience string, limit, offset int) ([]*models.Announcement, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, tenantID, id uuid.UUID) error
	ListEvents(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Event, error)

	Notify(ctx context.Context, tenantID, userID uuid.UUID, title, body, kind string)
	ListNotifications(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, tenantID, userID, id uuid.UUID) error

	CreatePost(ctx context.Context, post *models.CommunityPost) error
	GetPost(ctx context.Context, tenantID, id uuid.UUID) (*models.CommunityPost, error)
	DeletePost(ctx context.Context, tenantID, id, requesterID uuid.UUID, isModerator bool) error
	ListPosts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CommunityPost, error)

	CreateConsentForm(ctx context.Context, form *models.ConsentForm) error
	GetConsentForm(ctx context.Context, tenantID, id uuid.UUID) (*models.ConsentForm, error)
	ListConsentForms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ConsentForm, error)
	RespondToConsent(ctx context.Context, response *models.ConsentResponse) error
	ListConsentResponses(ctx context.Context, tenantID, formID uuid.UUID) ([]*models.ConsentResponse, error)
}

type engagementService struct {
	announcementRepo repositories.AnnouncementRepository
	eventRepo        repositories.EventRepository
	notificationRepo repositories.NotificationRepository
	communityRepo    repositories.CommunityRepository
	consentRepo      repositories.ConsentRepository
	logger           zerolog.Logger
}

func NewEngagementService(announcementRepo repositories.AnnouncementRepository, eventRepo repositories.EventRepository, notificationRepo repositories.NotificationRepository, communityRepo repositories.CommunityRepository, consentRepo repositories.ConsentRepository, logger zerolog.Logger) EngagementService {
	return &engagementService{
		announcementRepo: announcementRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		communityRepo:    communityRepo,
		consentRepo:      consentRepo,
		logger:           logger,
	}
}

func (s *engagementService) PostAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	return s.announcementRepo.Create(ctx, announcement)
}

func (s *engagementService) GetAnnouncement(ctx context.Context, tenantID, id uuid.UUID) (*models.Announcement, error) {
	return s.announcementRepo.GetByID(ctx, tenantID, id)
}

func (s *engagementService) UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	return s.announcementRepo.Update(ctx, announcement)
}

func (s *engagementService) DeleteAnnouncement(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.announcementRepo.Delete(ctx, tenantID, id)
}

func (s *engagementService) ListAnnouncements(ctx context.Context, tenantID uuid.UUID, audience string, limit, offset int) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, tenantID, audience, limit, offset)
}

func (s *engagementService) CreateEvent(ctx context.Context, event *models.Event) error {
	if !event.EndsAt.After(event.StartsAt) {
		return fmt.Errorf("event must end after it starts")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *engagementService) GetEvent(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, tenantID, id)
}

func (s *engagementService) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.eventRepo.Update(ctx, event)
}

func (s *engagementService) DeleteEvent(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.eventRepo.Delete(ctx, tenantID, id)
}

func (s *engagementService) ListEvents(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, tenantID, limit, offset)
}

// Notify writes an in-app notification. Best-effort: failures are logged so
// the triggering flow is never blocked on a notification.
func (s *engagementService) Notify(ctx context.Context, tenantID, userID uuid.UUID, title, body, kind string) {
	notification := &models.Notification{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Title:    title,
		Body:     body,
		Kind:     kind,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create notification")
	}
}

func (s *engagementService) ListNotifications(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, tenantID, userID, unreadOnly, limit, offset)
}

func (s *engagementService) MarkNotificationRead(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, tenantID, userID, id)
}

func (s *engagementService) CreatePost(ctx context.Context, post *models.CommunityPost) error {
	if post.Metadata.Version == 0 {
		post.Metadata.Version = models.PostMetadataVersion
	}
	if err := post.Metadata.Validate(); err != nil {
		return err
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return s.communityRepo.Create(ctx, post)
}

func (s *engagementService) GetPost(ctx context.Context, tenantID, id uuid.UUID) (*models.CommunityPost, error) {
	return s.communityRepo.GetByID(ctx, tenantID, id)
}

// DeletePost allows the author or a moderator to remove a post.
func (s *engagementService) DeletePost(ctx context.Context, tenantID, id, requesterID uuid.UUID, isModerator bool) error {
	post, err := s.communityRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if !isModerator && post.AuthorID != requesterID {
		return fmt.Errorf("only the author or a moderator can delete a post")
	}
	return s.communityRepo.Delete(ctx, tenantID, id)
}

func (s *engagementService) ListPosts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CommunityPost, error) {
	return s.communityRepo.List(ctx, tenantID, limit, offset)
}

func (s *engagementService) CreateConsentForm(ctx context.Context, form *models.ConsentForm) error {
	if form.ID == uuid.Nil {
		form.ID = uuid.New()
	}
	return s.consentRepo.CreateForm(ctx, form)
}

func (s *engagementService) GetConsentForm(ctx context.Context, tenantID, id uuid.UUID) (*models.ConsentForm, error) {
	return s.consentRepo.GetForm(ctx, tenantID, id)
}

func (s *engagementService) ListConsentForms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ConsentForm, error) {
	return s.consentRepo.ListForms(ctx, tenantID, limit, offset)
}

// RespondToConsent upserts the guardian's answer. Responses after the
// deadline are rejected.
func (s *engagementService) RespondToConsent(ctx context.Context, response *models.ConsentResponse) error {
	form, err := s.consentRepo.GetForm(ctx, response.TenantID, response.FormID)
	if err != nil {
		return fmt.Errorf("failed to load consent form: %w", err)
	}
	if form.Deadline != nil && time.Now().After(*form.Deadline) {
		return fmt.Errorf("the response deadline has passed")
	}
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	return s.consentRepo.UpsertResponse(ctx, response)
}

func (s *engagementService) ListConsentResponses(ctx context.Context, tenantID, formID uuid.UUID) ([]*models.ConsentResponse, error) {
	return s.consentRepo.ListResponses(ctx, tenantID, formID)
}

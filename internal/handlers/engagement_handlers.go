package handlers

import (
	"net/http"
	"time"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EngagementHandlers struct {
	engagementService services.EngagementService
	studentService    services.StudentService
}

func NewEngagementHandlers(engagementService services.EngagementService, studentService services.StudentService) *EngagementHandlers {
	return &EngagementHandlers{
		engagementService: engagementService,
		studentService:    studentService,
	}
}

// PostAnnouncement handles POST /announcements.
func (h *EngagementHandlers) PostAnnouncement(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var announcement models.Announcement
	if err := c.Bind(&announcement); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(announcement.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	announcement.TenantID = tenantID
	announcement.PostedBy = userID

	if err := h.engagementService.PostAnnouncement(c.Request().Context(), &announcement); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, announcement)
}

// UpdateAnnouncement handles PUT /announcements/:id.
func (h *EngagementHandlers) UpdateAnnouncement(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	announcement, err := h.engagementService.GetAnnouncement(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "announcement")
	}

	var req struct {
		Title     string     `json:"title"`
		Body      string     `json:"body"`
		Audience  string     `json:"audience"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Title != "" {
		announcement.Title = req.Title
	}
	if req.Body != "" {
		announcement.Body = req.Body
	}
	if req.Audience != "" {
		announcement.Audience = req.Audience
	}
	if req.ExpiresAt != nil {
		announcement.ExpiresAt = req.ExpiresAt
	}

	if err := h.engagementService.UpdateAnnouncement(c.Request().Context(), announcement); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, announcement)
}

// DeleteAnnouncement handles DELETE /announcements/:id.
func (h *EngagementHandlers) DeleteAnnouncement(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.DeleteAnnouncement(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to delete announcement")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAnnouncements handles GET /announcements. Non-admin callers see the
// feed for their own audience; expired announcements are filtered out.
func (h *EngagementHandlers) ListAnnouncements(c echo.Context) error {
	tenantID, _, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	audience := audienceForRole(role)
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	announcements, err := h.engagementService.ListAnnouncements(c.Request().Context(), tenantID, audience, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list announcements")
	}
	return c.JSON(http.StatusOK, announcements)
}

func audienceForRole(role string) string {
	switch role {
	case string(authz.RoleGuardian):
		return "guardians"
	case string(authz.RoleStudent):
		return "students"
	case string(authz.RoleSuperAdmin), string(authz.RoleTenantAdmin):
		return "" // admins see everything
	default:
		return "staff"
	}
}

// CreateEvent handles POST /events.
func (h *EngagementHandlers) CreateEvent(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var event models.Event
	if err := c.Bind(&event); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(event.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	event.TenantID = tenantID
	event.CreatedBy = userID

	if err := h.engagementService.CreateEvent(c.Request().Context(), &event); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles PUT /events/:id.
func (h *EngagementHandlers) UpdateEvent(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.engagementService.GetEvent(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "event")
	}

	var req struct {
		Title       string     `json:"title"`
		Description *string    `json:"description,omitempty"`
		Location    *string    `json:"location,omitempty"`
		StartsAt    *time.Time `json:"starts_at,omitempty"`
		EndsAt      *time.Time `json:"ends_at,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}

	if err := h.engagementService.UpdateEvent(c.Request().Context(), event); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/:id.
func (h *EngagementHandlers) DeleteEvent(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.DeleteEvent(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to delete event")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEvents handles GET /events.
func (h *EngagementHandlers) ListEvents(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	events, err := h.engagementService.ListEvents(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list events")
	}
	return c.JSON(http.StatusOK, events)
}

// ListNotifications handles GET /notifications.
func (h *EngagementHandlers) ListNotifications(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	unreadOnly := c.QueryParam("unread") == "true"
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	notifications, err := h.engagementService.ListNotifications(c.Request().Context(), tenantID, userID, unreadOnly, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /notifications/:id/read. Only the
// recipient can mark their own notifications.
func (h *EngagementHandlers) MarkNotificationRead(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.MarkNotificationRead(c.Request().Context(), tenantID, userID, id); err != nil {
		return common.SendNotFoundError(c, "notification")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePost handles POST /community/posts.
func (h *EngagementHandlers) CreatePost(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var post models.CommunityPost
	if err := c.Bind(&post); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(post.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	post.TenantID = tenantID
	post.AuthorID = userID

	if err := h.engagementService.CreatePost(c.Request().Context(), &post); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost handles DELETE /community/posts/:id. Authors delete their own
// posts; admins moderate any post.
func (h *EngagementHandlers) DeletePost(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagementService.DeletePost(c.Request().Context(), tenantID, id, userID, isAdmin(role)); err != nil {
		return common.SendForbiddenError(c, "only the author or a moderator can delete this post")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPosts handles GET /community/posts.
func (h *EngagementHandlers) ListPosts(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	posts, err := h.engagementService.ListPosts(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list posts")
	}
	return c.JSON(http.StatusOK, posts)
}

// CreateConsentForm handles POST /consent-forms.
func (h *EngagementHandlers) CreateConsentForm(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var form models.ConsentForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(form.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	form.TenantID = tenantID
	form.CreatedBy = userID

	if err := h.engagementService.CreateConsentForm(c.Request().Context(), &form); err != nil {
		return common.SendServerError(c, "failed to create consent form")
	}
	return c.JSON(http.StatusCreated, form)
}

// ListConsentForms handles GET /consent-forms.
func (h *EngagementHandlers) ListConsentForms(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	forms, err := h.engagementService.ListConsentForms(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list consent forms")
	}
	return c.JSON(http.StatusOK, forms)
}

// RespondToConsent handles POST /consent-forms/:id/respond. Guardians
// answer for their own children; re-answering replaces the earlier
// response.
func (h *EngagementHandlers) RespondToConsent(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		StudentID uuid.UUID `json:"student_id" validate:"required"`
		Granted   bool      `json:"granted"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, req.StudentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	response := &models.ConsentResponse{
		ID:         uuid.New(),
		TenantID:   tenantID,
		FormID:     formID,
		StudentID:  req.StudentID,
		GuardianID: userID,
		Granted:    req.Granted,
	}
	if err := h.engagementService.RespondToConsent(c.Request().Context(), response); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

// ListConsentResponses handles GET /consent-forms/:id/responses.
func (h *EngagementHandlers) ListConsentResponses(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	responses, err := h.engagementService.ListConsentResponses(c.Request().Context(), tenantID, formID)
	if err != nil {
		return common.SendServerError(c, "failed to list responses")
	}
	return c.JSON(http.StatusOK, responses)
}

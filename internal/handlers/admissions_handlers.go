package handlers

import (
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/middleware"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type AdmissionsHandlers struct {
	admissionsService services.AdmissionsService
}

func NewAdmissionsHandlers(admissionsService services.AdmissionsService) *AdmissionsHandlers {
	return &AdmissionsHandlers{admissionsService: admissionsService}
}

// SubmitPublic handles POST /public/applications. Unauthenticated; the
// tenant comes from the subdomain middleware.
func (h *AdmissionsHandlers) SubmitPublic(c echo.Context) error {
	tenantID, ok := middleware.PublicTenantID(c)
	if !ok {
		return common.SendNotFoundError(c, "school")
	}

	var req services.SubmitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if req.GuardianPhone != nil {
		if err := common.ValidatePhone(*req.GuardianPhone, "guardian_phone"); err != nil {
			return common.SendValidationError(c, "guardian_phone", err.Error())
		}
	}

	application, err := h.admissionsService.SubmitApplication(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to submit application")
	}
	return c.JSON(http.StatusCreated, application)
}

// Submit handles POST /applications for staff entering walk-in applicants.
func (h *AdmissionsHandlers) Submit(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.SubmitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	application, err := h.admissionsService.SubmitApplication(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to submit application")
	}
	return c.JSON(http.StatusCreated, application)
}

// Get handles GET /applications/:id.
func (h *AdmissionsHandlers) Get(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	application, err := h.admissionsService.GetApplication(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "application")
	}
	return c.JSON(http.StatusOK, application)
}

// List handles GET /applications.
func (h *AdmissionsHandlers) List(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	applications, err := h.admissionsService.ListApplications(c.Request().Context(), tenantID, c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list applications")
	}
	return c.JSON(http.StatusOK, applications)
}

// Transition handles POST /applications/:id/transition. Moving to ACCEPTED
// also enrolls the applicant as a student.
func (h *AdmissionsHandlers) Transition(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		NextStatus string  `json:"next_status" validate:"required"`
		ReviewNote *string `json:"review_note,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	application, err := h.admissionsService.TransitionApplication(c.Request().Context(), &services.TransitionApplicationRequest{
		TenantID:      tenantID,
		ApplicationID: id,
		NextStatus:    req.NextStatus,
		ReviewNote:    req.ReviewNote,
		ActorID:       userID,
	})
	if err != nil {
		return common.SendConflictError(c, err.Error())
	}
	return c.JSON(http.StatusOK, application)
}
